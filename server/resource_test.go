package server

import (
	"context"
	"testing"
)

func TestMatchURI(t *testing.T) {
	tests := []struct {
		name       string
		template   string
		uri        string
		wantMatch  bool
		wantParams map[string]string
	}{
		{
			name:       "exact match without parameters",
			template:   "config://app",
			uri:        "config://app",
			wantMatch:  true,
			wantParams: map[string]string{},
		},
		{
			name:       "single parameter",
			template:   "users://{id}",
			uri:        "users://42",
			wantMatch:  true,
			wantParams: map[string]string{"id": "42"},
		},
		{
			name:       "multiple parameters",
			template:   "repos://{owner}/{repo}",
			uri:        "repos://acme/widgets",
			wantMatch:  true,
			wantParams: map[string]string{"owner": "acme", "repo": "widgets"},
		},
		{
			name:      "no match",
			template:  "users://{id}",
			uri:       "groups://42",
			wantMatch: false,
		},
		{
			name:      "parameter does not span segments",
			template:  "users://{id}",
			uri:       "users://a/b",
			wantMatch: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params, ok := matchURI(tt.template, tt.uri)

			if ok != tt.wantMatch {
				t.Fatalf("match = %v, want %v", ok, tt.wantMatch)
			}
			if !tt.wantMatch {
				return
			}

			for k, want := range tt.wantParams {
				if params[k] != want {
					t.Errorf("params[%q] = %q, want %q", k, params[k], want)
				}
			}
		})
	}
}

func TestResource_Read(t *testing.T) {
	srv := New(Info{Name: "test", Version: "1.0.0"})
	srv.Resource("notes://{id}").
		Description("A note by id").
		MimeType("text/plain").
		Handler(func(ctx context.Context, uri string, params map[string]string) (*ResourceContent, error) {
			return &ResourceContent{
				URI:      uri,
				MimeType: "text/plain",
				Text:     "note " + params["id"],
			}, nil
		})

	r, ok := srv.FindResourceForURI("notes://7")
	if !ok {
		t.Fatal("expected resource match")
	}

	content, err := r.Read(context.Background(), "notes://7")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if content.Text != "note 7" {
		t.Errorf("Text = %q, want %q", content.Text, "note 7")
	}

	t.Run("mismatched URI fails", func(t *testing.T) {
		if _, err := r.Read(context.Background(), "other://7"); err == nil {
			t.Error("expected error for URI that does not match the template")
		}
	})
}
