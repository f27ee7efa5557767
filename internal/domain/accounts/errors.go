package accounts

import "errors"

var (
	// ErrAccountNotFound indicates the hash has no account record.
	ErrAccountNotFound = errors.New("account not found")

	// ErrInvalidCredential indicates an analysis request carried an unknown token.
	ErrInvalidCredential = errors.New("invalid credential")

	// ErrAccountSuspended rejects all analysis attempts regardless of headroom.
	ErrAccountSuspended = errors.New("account suspended")

	// ErrAccountExpired rejects all analysis attempts regardless of headroom.
	ErrAccountExpired = errors.New("account expired")

	// ErrQuotaExceeded indicates the usage log already reached the quota.
	ErrQuotaExceeded = errors.New("usage limit exceeded")

	// ErrStorageUnavailable wraps backend failures; fatal for the current request,
	// retries (if any) belong to the caller.
	ErrStorageUnavailable = errors.New("storage unavailable")
)
