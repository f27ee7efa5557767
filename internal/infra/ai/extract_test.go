package ai

import (
	"errors"
	"testing"

	"github.com/resurrectethos/citation-verifier/internal/domain/analysis"
)

func TestExtractJSON(t *testing.T) {
	type payload struct {
		Title string `json:"title"`
		Count int    `json:"count"`
	}

	cases := []struct {
		name    string
		raw     string
		want    payload
		wantErr bool
	}{
		{
			name: "plain object",
			raw:  `{"title":"ok","count":2}`,
			want: payload{Title: "ok", Count: 2},
		},
		{
			name: "fenced json block",
			raw:  "```json\n{\"title\":\"fenced\",\"count\":1}\n```",
			want: payload{Title: "fenced", Count: 1},
		},
		{
			name: "bare fence",
			raw:  "```\n{\"title\":\"bare\",\"count\":3}\n```",
			want: payload{Title: "bare", Count: 3},
		},
		{
			name: "surrounding prose",
			raw:  `Here is the result you asked for: {"title":"prose","count":4} hope that helps!`,
			want: payload{Title: "prose", Count: 4},
		},
		{
			name:    "no object at all",
			raw:     "sorry, I cannot answer that",
			wantErr: true,
		},
		{
			name:    "braces without valid json",
			raw:     `{"title": "broken`,
			wantErr: true,
		},
		{
			name:    "closing brace before opening",
			raw:     `} nothing here {`,
			wantErr: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var got payload
			err := ExtractJSON(tc.raw, &got)
			if tc.wantErr {
				if !errors.Is(err, analysis.ErrMalformedResponse) {
					t.Fatalf("want ErrMalformedResponse, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("got %+v, want %+v", got, tc.want)
			}
		})
	}
}
