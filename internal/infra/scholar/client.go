// Package scholar queries the Semantic Scholar paper-search API for
// external corroboration of extracted claims.
package scholar

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/resurrectethos/citation-verifier/internal/domain/analysis"
)

const (
	searchPath   = "/graph/v1/paper/search"
	searchLimit  = 5
	searchFields = "title,authors,year,venue,citationCount,abstract"
)

type Client struct {
	baseURL string
	hc      *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = "https://api.semanticscholar.org"
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{baseURL: baseURL, hc: &http.Client{Timeout: timeout}}
}

// Search implements analysis.Searcher. Callers treat any error as "no
// external corroboration found"; this call supplements the pipeline but
// never gates it.
func (c *Client) Search(ctx context.Context, query string) ([]analysis.PaperRef, error) {
	u := fmt.Sprintf("%s%s?query=%s&limit=%d&fields=%s",
		c.baseURL, searchPath, url.QueryEscape(query), searchLimit, searchFields)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("semantic scholar returned status %d", resp.StatusCode)
	}

	var body struct {
		Data []analysis.PaperRef `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decoding semantic scholar response: %w", err)
	}
	return body.Data, nil
}
