package analysis

import "context"

// Message one chat message sent to the LLM provider.
type Message struct {
	Role    string
	Content string
}

// ChatClient port untuk LLM chat-completion provider
type ChatClient interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}

// Searcher port for the bibliographic search provider. Failures are
// non-fatal for callers: an error means "no external corroboration found".
type Searcher interface {
	Search(ctx context.Context, query string) ([]PaperRef, error)
}

// Archiver port for best-effort persistence of full analysis output.
type Archiver interface {
	Archive(ctx context.Context, key string, body []byte) (string, error)
}
