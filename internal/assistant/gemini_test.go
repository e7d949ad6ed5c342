package assistant

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func newTestClient(baseURL string) *GeminiClient {
	c := NewGeminiClient("test-key", "")
	c.baseURL = baseURL
	c.retryDelay = time.Millisecond
	return c
}

func geminiReply(text string) map[string]any {
	return map[string]any{
		"candidates": []map[string]any{
			{"content": map[string]any{
				"role":  "model",
				"parts": []map[string]string{{"text": text}},
			}},
		},
	}
}

func TestChatMapsRolesAndReturnsReply(t *testing.T) {
	var got geminiRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-goog-api-key") != "test-key" {
			t.Errorf("x-goog-api-key = %q", r.Header.Get("x-goog-api-key"))
		}
		if !strings.HasSuffix(r.URL.Path, "/models/"+DefaultModel+":generateContent") {
			t.Errorf("path = %q", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(geminiReply("On it."))
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	reply, err := c.Chat(context.Background(), []Message{
		{Role: RoleUser, Content: "status?"},
		{Role: RoleAssistant, Content: "all green"},
		{Role: RoleUser, Content: "ship it"},
	})
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if reply != "On it." {
		t.Errorf("reply = %q", reply)
	}

	if len(got.Contents) != 3 {
		t.Fatalf("contents = %d turns, want 3", len(got.Contents))
	}
	wantRoles := []string{"user", "model", "user"}
	for i, c := range got.Contents {
		if c.Role != wantRoles[i] {
			t.Errorf("turn %d role = %q, want %q", i, c.Role, wantRoles[i])
		}
	}
	if got.Contents[2].Parts[0].Text != "ship it" {
		t.Errorf("last turn = %q", got.Contents[2].Parts[0].Text)
	}
}

func TestChatConcatenatesParts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{
					"role":  "model",
					"parts": []map[string]string{{"text": "Hello, "}, {"text": "world"}},
				}},
			},
		})
	}))
	defer server.Close()

	reply, err := newTestClient(server.URL).Chat(context.Background(), []Message{{Role: RoleUser, Content: "hi"}})
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if reply != "Hello, world" {
		t.Errorf("reply = %q", reply)
	}
}

func TestChatRetriesOnRateLimit(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			json.NewEncoder(w).Encode(map[string]any{
				"error": map[string]any{"code": 429, "message": "quota exceeded", "status": "RESOURCE_EXHAUSTED"},
			})
			return
		}
		json.NewEncoder(w).Encode(geminiReply("recovered"))
	}))
	defer server.Close()

	reply, err := newTestClient(server.URL).Chat(context.Background(), []Message{{Role: RoleUser, Content: "hi"}})
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if reply != "recovered" {
		t.Errorf("reply = %q", reply)
	}
	if calls.Load() != 2 {
		t.Errorf("calls = %d, want 2", calls.Load())
	}
}

func TestChatFailsFastOnClientError(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"code": 400, "message": "invalid argument", "status": "INVALID_ARGUMENT"},
		})
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Chat(context.Background(), []Message{{Role: RoleUser, Content: "hi"}})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "invalid argument") {
		t.Errorf("err = %v", err)
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1", calls.Load())
	}
}

func TestChatExhaustsRetriesOnServerError(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Chat(context.Background(), []Message{{Role: RoleUser, Content: "hi"}})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "max retries") {
		t.Errorf("err = %v", err)
	}
	if calls.Load() != geminiMaxRetries {
		t.Errorf("calls = %d, want %d", calls.Load(), geminiMaxRetries)
	}
}

func TestChatRequiresAPIKey(t *testing.T) {
	c := NewGeminiClient("", "")
	if _, err := c.Chat(context.Background(), []Message{{Role: RoleUser, Content: "hi"}}); err == nil {
		t.Fatal("expected error without api key")
	}
}

func TestChatRequiresMessages(t *testing.T) {
	c := NewGeminiClient("key", "")
	if _, err := c.Chat(context.Background(), nil); err == nil {
		t.Fatal("expected error without messages")
	}
}

func TestNewGeminiClientDefaultsModel(t *testing.T) {
	if c := NewGeminiClient("key", ""); c.model != DefaultModel {
		t.Errorf("model = %q, want %q", c.model, DefaultModel)
	}
	if c := NewGeminiClient("key", "gemini-1.5-pro"); c.model != "gemini-1.5-pro" {
		t.Errorf("model = %q", c.model)
	}
}
