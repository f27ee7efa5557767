package deepseek

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/resurrectethos/citation-verifier/internal/domain/analysis"
)

func completionBody(content string) []byte {
	b, _ := json.Marshal(map[string]any{
		"id":      "chatcmpl-1",
		"object":  "chat.completion",
		"created": 1730000000,
		"model":   "deepseek-chat",
		"choices": []map[string]any{
			{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": content},
			},
		},
	})
	return b
}

func TestClientComplete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("authorization = %q", got)
		}
		var req struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		if req.Model != "deepseek-chat" {
			t.Errorf("model = %q", req.Model)
		}
		if len(req.Messages) != 1 || req.Messages[0].Role != "user" {
			t.Errorf("messages = %+v", req.Messages)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(completionBody(`{"ok":true}`))
	}))
	defer srv.Close()

	c := NewClient("test-key", srv.URL+"/v1", "", 5*time.Second)
	out, err := c.Complete(context.Background(), []analysis.Message{{Role: "user", Content: "hello"}})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if out != `{"ok":true}` {
		t.Fatalf("content = %q", out)
	}
}

func TestClientCompleteAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"invalid api key","type":"invalid_request_error"}}`))
	}))
	defer srv.Close()

	c := NewClient("bad-key", srv.URL+"/v1", "", 5*time.Second)
	_, err := c.Complete(context.Background(), []analysis.Message{{Role: "user", Content: "hello"}})
	if !errors.Is(err, analysis.ErrProvider) {
		t.Fatalf("want ErrProvider, got %v", err)
	}
}

func TestClientCompleteTimeout(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer srv.Close()
	defer close(block)

	c := NewClient("test-key", srv.URL+"/v1", "", 50*time.Millisecond)
	_, err := c.Complete(context.Background(), []analysis.Message{{Role: "user", Content: "hello"}})
	if !errors.Is(err, analysis.ErrProviderTimeout) {
		t.Fatalf("want ErrProviderTimeout, got %v", err)
	}
}

func TestClientCompleteNoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"chatcmpl-1","object":"chat.completion","choices":[]}`))
	}))
	defer srv.Close()

	c := NewClient("test-key", srv.URL+"/v1", "", 5*time.Second)
	_, err := c.Complete(context.Background(), []analysis.Message{{Role: "user", Content: "hello"}})
	if !errors.Is(err, analysis.ErrMalformedResponse) {
		t.Fatalf("want ErrMalformedResponse, got %v", err)
	}
}
