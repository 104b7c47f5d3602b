package assistant

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/rushteam/shoprec/core"
)

func TestParseSuggestions(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     []string
	}{
		{
			name:     "plain lines",
			response: "wireless earbuds\nsmart watch",
			want:     []string{"wireless earbuds", "smart watch"},
		},
		{
			name:     "numbered list",
			response: "1. earbuds\n2) smart watch\n10. keyboard",
			want:     []string{"earbuds", "smart watch", "keyboard"},
		},
		{
			name:     "bullet list with blanks",
			response: "- earbuds\n\n* smart watch\n• keyboard\n",
			want:     []string{"earbuds", "smart watch", "keyboard"},
		},
		{
			name:     "capped at five",
			response: "a\nb\nc\nd\ne\nf\ng",
			want:     []string{"a", "b", "c", "d", "e"},
		},
		{
			name:     "empty response",
			response: "",
			want:     []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseSuggestions(tt.response)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("pos %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestOllamaSuggest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			http.NotFound(w, r)
			return
		}
		var req map[string]any
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if req["model"] != "test-model" {
			t.Errorf("model = %v", req["model"])
		}
		if stream, ok := req["stream"].(bool); !ok || stream {
			t.Errorf("stream = %v, want false", req["stream"])
		}
		json.NewEncoder(w).Encode(map[string]string{
			"response": "1. earbuds\n2. smart watch",
		})
	}))
	defer srv.Close()

	o := NewOllama(srv.URL, "test-model", time.Second)
	got, err := o.Suggest(context.Background(), &core.AssistantContext{
		UserID:     "u1",
		Categories: []string{"electronics"},
		PriceRange: core.PriceRange{Min: 10, Max: 500},
	})
	if err != nil {
		t.Fatalf("Suggest: %v", err)
	}
	if len(got) != 2 || got[0] != "earbuds" || got[1] != "smart watch" {
		t.Errorf("suggestions = %v", got)
	}
}

func TestOllamaSuggestTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(time.Second):
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()

	o := NewOllama(srv.URL, "test-model", time.Minute)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	_, err := o.Suggest(ctx, &core.AssistantContext{UserID: "u1"})
	if err != core.ErrAssistantTimeout {
		t.Errorf("err = %v, want ErrAssistantTimeout", err)
	}
}

func TestOllamaSuggestBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	o := NewOllama(srv.URL, "test-model", time.Second)
	if _, err := o.Suggest(context.Background(), &core.AssistantContext{UserID: "u1"}); err == nil {
		t.Error("want error on non-200 status")
	}
}
