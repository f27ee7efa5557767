package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	appaccounts "github.com/resurrectethos/citation-verifier/internal/application/accounts"
	appanalysis "github.com/resurrectethos/citation-verifier/internal/application/analysis"
	domaccounts "github.com/resurrectethos/citation-verifier/internal/domain/accounts"
	domanalysis "github.com/resurrectethos/citation-verifier/internal/domain/analysis"
	"github.com/resurrectethos/citation-verifier/internal/middleware"
)

type Router struct {
	executor    *appanalysis.Executor
	accountsSvc *appaccounts.Service
	minText     int
	maxText     int
}

// NewRouter wires the analysis endpoint and the admin API. The health and
// metrics handlers are passed in so main decides what they check.
func NewRouter(executor *appanalysis.Executor, accountsSvc *appaccounts.Service, adminToken string, minText, maxText int, health, metrics http.HandlerFunc) http.Handler {
	r := &Router{
		executor:    executor,
		accountsSvc: accountsSvc,
		minText:     minText,
		maxText:     maxText,
	}
	mux := chi.NewRouter()

	if health != nil {
		mux.Get("/health", health)
	}
	if metrics != nil {
		mux.Get("/metrics", metrics)
	}

	mux.Post("/v1/analyze", r.wrap(r.handleAnalyze))

	mux.Route("/admin", func(rt chi.Router) {
		rt.Use(middleware.AdminAuth(adminToken))
		rt.Post("/users", r.wrap(r.handleCreateUser))
		rt.Get("/users", r.wrap(r.handleListUsers))
		rt.Patch("/users/{token}", r.wrap(r.handleUpdateUser))
		rt.Delete("/users/{token}", r.wrap(r.handleDeleteUser))
		rt.Post("/users/import", r.wrap(r.handleImportUsers))
		rt.Get("/usage-report", r.wrap(r.handleUsageReport))
		rt.Get("/hash", r.wrap(r.handleHash))
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

// apiError carries a stable machine-readable code alongside the message.
type apiError struct {
	status int
	code   string
	err    error
}

func (e *apiError) Error() string { return e.err.Error() }
func (e *apiError) Unwrap() error { return e.err }

func badRequest(code, msg string) error {
	return &apiError{status: http.StatusBadRequest, code: code, err: errors.New(msg)}
}

// classify maps domain errors to HTTP status + error code. Every error gets
// a stable code; nothing downgrades to a partial result.
func classify(err error) (int, string) {
	var ae *apiError
	if errors.As(err, &ae) {
		return ae.status, ae.code
	}
	switch {
	case errors.Is(err, domaccounts.ErrInvalidCredential):
		return http.StatusUnauthorized, "INVALID_TOKEN"
	case errors.Is(err, domaccounts.ErrAccountSuspended):
		return http.StatusForbidden, "ACCOUNT_SUSPENDED"
	case errors.Is(err, domaccounts.ErrAccountExpired):
		return http.StatusForbidden, "TOKEN_EXPIRED"
	case errors.Is(err, domaccounts.ErrQuotaExceeded):
		return http.StatusTooManyRequests, "LIMIT_EXCEEDED"
	case errors.Is(err, domaccounts.ErrAccountNotFound):
		return http.StatusNotFound, "USER_NOT_FOUND"
	case errors.Is(err, domaccounts.ErrStorageUnavailable):
		return http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE"
	case errors.Is(err, domanalysis.ErrMalformedInput):
		return http.StatusBadRequest, "INVALID_INPUT"
	case errors.Is(err, domanalysis.ErrCircuitOpen):
		return http.StatusServiceUnavailable, "CIRCUIT_BREAKER_OPEN"
	case errors.Is(err, domanalysis.ErrProviderTimeout):
		return http.StatusGatewayTimeout, "PROVIDER_TIMEOUT"
	case errors.Is(err, domanalysis.ErrMalformedResponse):
		return http.StatusBadGateway, "MALFORMED_RESPONSE"
	case errors.Is(err, domanalysis.ErrProvider):
		return http.StatusBadGateway, "PROVIDER_ERROR"
	default:
		return http.StatusInternalServerError, "ANALYSIS_FAILED"
	}
}

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if err := h(w, req); err != nil {
			status, code := classify(err)
			if code == "CIRCUIT_BREAKER_OPEN" {
				w.Header().Set("Retry-After", "60")
			}
			writeError(w, status, code, err.Error())
		}
	}
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"message":   msg,
			"code":      code,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		},
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

// POST /v1/analyze
// Body: {"text": "...", "token": "<hashed, optional fallback>"}
// The credential normally arrives as a bearer token and is hashed before it
// touches storage or a lane.
func (r *Router) handleAnalyze(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		Text  string `json:"text"`
		Token string `json:"token"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return badRequest("INVALID_INPUT", "invalid request body")
	}

	if err := middleware.ValidateAnalysisText(body.Text, r.minText, r.maxText); err != nil {
		return err
	}

	var hashed string
	if token := middleware.BearerToken(req); token != "" {
		hashed = domaccounts.HashToken(token)
	} else if body.Token != "" {
		// already-hashed token from the legacy frontend
		hashed = body.Token
	} else {
		return &apiError{status: http.StatusUnauthorized, code: "MISSING_TOKEN", err: errors.New("unauthorized: missing token")}
	}

	result, err := r.executor.Submit(req.Context(), hashed, body.Text)
	if err != nil {
		if errors.Is(err, domaccounts.ErrQuotaExceeded) {
			middleware.IncrementQuotaRejections()
		}
		middleware.IncrementAnalysesFailed()
		return err
	}
	middleware.IncrementAnalyses()

	return writeJSON(w, http.StatusOK, map[string]any{"analysis": result})
}

// POST /admin/users
func (r *Router) handleCreateUser(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		Email string `json:"email"`
		Limit int    `json:"limit"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return badRequest("INVALID_INPUT", "invalid request body")
	}
	if err := middleware.ValidateEmail(body.Email); err != nil {
		return badRequest("MISSING_EMAIL", err.Error())
	}

	token, err := r.accountsSvc.Create(req.Context(), body.Email, body.Limit)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"token":   token,
		"email":   body.Email,
		"limit":   body.Limit,
	})
}

// GET /admin/users
func (r *Router) handleListUsers(w http.ResponseWriter, req *http.Request) error {
	users, err := r.accountsSvc.List(req.Context())
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, map[string]any{"users": users})
}

// PATCH /admin/users/{token}
func (r *Router) handleUpdateUser(w http.ResponseWriter, req *http.Request) error {
	token := chi.URLParam(req, "token")
	var body struct {
		Limit  *int    `json:"limit"`
		Status *string `json:"status"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return badRequest("INVALID_INPUT", "invalid request body")
	}
	params := appaccounts.UpdateParams{Quota: body.Limit}
	if body.Status != nil {
		s := domaccounts.Status(*body.Status)
		params.Status = &s
	}
	if err := r.accountsSvc.Update(req.Context(), token, params); err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// DELETE /admin/users/{token}
func (r *Router) handleDeleteUser(w http.ResponseWriter, req *http.Request) error {
	token := chi.URLParam(req, "token")
	if err := r.accountsSvc.Delete(req.Context(), token); err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "User deleted",
	})
}

// POST /admin/users/import
// Accepts a multipart upload (field "userFile") or a raw CSV body of
// email,token rows.
func (r *Router) handleImportUsers(w http.ResponseWriter, req *http.Request) error {
	var src io.Reader = req.Body
	if strings.HasPrefix(req.Header.Get("Content-Type"), "multipart/form-data") {
		file, _, err := req.FormFile("userFile")
		if err != nil {
			return badRequest("INVALID_INPUT", "file not provided")
		}
		defer file.Close()
		src = file
	}

	count, err := r.accountsSvc.ImportCSV(req.Context(), src)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, map[string]any{
		"message": fmt.Sprintf("%d users added or updated.", count),
		"count":   count,
	})
}

// GET /admin/hash?text=
func (r *Router) handleHash(w http.ResponseWriter, req *http.Request) error {
	text := req.URL.Query().Get("text")
	if text == "" {
		return badRequest("INVALID_INPUT", "missing text")
	}
	return writeJSON(w, http.StatusOK, map[string]any{
		"text": text,
		"hash": domaccounts.HashToken(text),
	})
}
