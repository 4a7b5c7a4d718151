package facts_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"trailquiz/internal/config"
	"trailquiz/internal/facts"
	"trailquiz/internal/logging"
)

func chatResponse(t *testing.T, content string) []byte {
	t.Helper()
	body, err := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}},
		},
	})
	if err != nil {
		t.Fatalf("marshal response: %v", err)
	}
	return body
}

func newGenerator(t *testing.T, serverURL string) *facts.Generator {
	t.Helper()
	return facts.NewGenerator(config.Facts{
		Enabled:        true,
		APIKey:         "test-key",
		BaseURL:        serverURL,
		Model:          "test-model",
		TimeoutSeconds: 2,
	}, logging.NewNop())
}

func TestFunFact(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected authorization header %q", got)
		}
		w.Write(chatResponse(t, `{"fact": "Black bears are strong swimmers."}`))
	}))
	defer server.Close()

	fact, ok := newGenerator(t, server.URL).FunFact(context.Background(), "American Black Bear")
	if !ok {
		t.Fatalf("expected a fact")
	}
	if fact != "Black bears are strong swimmers." {
		t.Fatalf("unexpected fact %q", fact)
	}
}

func TestFunFactToleratesCodeFence(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(chatResponse(t, "```json\n{\"fact\": \"Red foxes cache surplus food.\"}\n```"))
	}))
	defer server.Close()

	fact, ok := newGenerator(t, server.URL).FunFact(context.Background(), "Red Fox")
	if !ok || fact != "Red foxes cache surplus food." {
		t.Fatalf("expected fenced payload to decode, got %q ok=%v", fact, ok)
	}
}

func TestFunFactAbsentOnProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream unavailable", http.StatusBadGateway)
	}))
	defer server.Close()

	if _, ok := newGenerator(t, server.URL).FunFact(context.Background(), "Red Fox"); ok {
		t.Fatalf("provider error should yield no fact")
	}
}

func TestFunFactAbsentOnTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	gen := facts.NewGenerator(config.Facts{
		Enabled:        true,
		APIKey:         "test-key",
		BaseURL:        server.URL,
		Model:          "test-model",
		TimeoutSeconds: 1,
	}, logging.NewNop())

	start := time.Now()
	if _, ok := gen.FunFact(context.Background(), "Red Fox"); ok {
		t.Fatalf("timeout should yield no fact")
	}
	if elapsed := time.Since(start); elapsed > 3*time.Second {
		t.Fatalf("fun fact call exceeded its timeout bound: %s", elapsed)
	}
}

func TestHint(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(chatResponse(t, `{"hint": "This nocturnal canid barks to mark territory."}`))
	}))
	defer server.Close()

	hint, ok := newGenerator(t, server.URL).Hint(context.Background(), "Red Fox")
	if !ok {
		t.Fatalf("expected a hint")
	}
	if hint != "This nocturnal canid barks to mark territory." {
		t.Fatalf("unexpected hint %q", hint)
	}
}

func TestFunFactDisabled(t *testing.T) {
	gen := facts.NewGenerator(config.Facts{}, logging.NewNop())
	if gen.Enabled() {
		t.Fatalf("generator should be disabled by default")
	}
	if _, ok := gen.FunFact(context.Background(), "Red Fox"); ok {
		t.Fatalf("disabled generator should yield no fact")
	}
}
