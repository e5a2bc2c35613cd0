package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newStaticOllama(baseURL, model string) *OllamaService {
	return NewOllamaServiceWithGetters(func() string { return baseURL }, func() string { return model })
}

func TestOllama_Summarize(t *testing.T) {
	var got map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("expected /api/generate, got %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		w.Write([]byte(`{"response":"  A short summary.  ","done":true}`))
	}))
	defer server.Close()

	svc := newStaticOllama(server.URL, "mistral").WithLimits("", 10, 64)
	summary, err := svc.Summarize(context.Background(), "Title", "A very long article body that needs cutting")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if summary != "A short summary." {
		t.Errorf("expected trimmed summary, got %q", summary)
	}
	if got["model"] != "mistral" {
		t.Errorf("expected model 'mistral', got %v", got["model"])
	}
	if got["stream"] != false {
		t.Errorf("expected stream false, got %v", got["stream"])
	}
	prompt, _ := got["prompt"].(string)
	if !strings.Contains(prompt, "A very lon...") || strings.Contains(prompt, "cutting") {
		t.Errorf("expected truncated article in prompt, got %q", prompt)
	}
	options, _ := got["options"].(map[string]interface{})
	if options["num_predict"] != float64(64) {
		t.Errorf("expected num_predict 64, got %v", options["num_predict"])
	}
}

func TestOllama_UsesGettersOnEveryCall(t *testing.T) {
	var hits []string
	newServer := func(name string) *httptest.Server {
		return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits = append(hits, name)
			w.Write([]byte(`{"response":"ok"}`))
		}))
	}
	first := newServer("first")
	defer first.Close()
	second := newServer("second")
	defer second.Close()

	baseURL := first.URL
	svc := NewOllamaServiceWithGetters(func() string { return baseURL }, func() string { return "llama3" })

	if _, err := svc.Summarize(context.Background(), "", "text"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	baseURL = second.URL
	if _, err := svc.Summarize(context.Background(), "", "text"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if strings.Join(hits, ",") != "first,second" {
		t.Errorf("expected calls to follow the getter, got %v", hits)
	}
}

func TestOllama_InvalidBaseURL(t *testing.T) {
	_, err := newStaticOllama("not a url", "llama3").Summarize(context.Background(), "", "text")
	if err == nil || !strings.Contains(err.Error(), "invalid ollama base url") {
		t.Errorf("expected invalid base url error, got %v", err)
	}
}

func TestOllama_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{"server error", http.StatusInternalServerError, `model not found`, "500 Internal Server Error"},
		{"error body", http.StatusNotFound, `{"error":"model 'llama3' not found"}`, "model 'llama3' not found"},
		{"empty response", http.StatusOK, `{"response":"   ","done":true}`, "empty summary"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := newStaticOllama(server.URL, "llama3").Summarize(context.Background(), "", "text")
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}
