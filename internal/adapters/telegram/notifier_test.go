package telegram

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

// mockLogger implements ports.Logger for testing
type mockLogger struct{}

func (m *mockLogger) Debug(ctx context.Context, msg string, fields ...map[string]interface{}) {}
func (m *mockLogger) Info(ctx context.Context, msg string, fields ...map[string]interface{})  {}
func (m *mockLogger) Warn(ctx context.Context, msg string, fields ...map[string]interface{})  {}
func (m *mockLogger) Error(ctx context.Context, err error, msg string, fields ...map[string]interface{}) {
}

func TestNew_Validation(t *testing.T) {
	if _, err := New(Config{ChatID: "1", Logger: &mockLogger{}}); err == nil {
		t.Error("Expected error without bot token")
	}
	if _, err := New(Config{BotToken: "t", Logger: &mockLogger{}}); err == nil {
		t.Error("Expected error without chat ID")
	}
	if _, err := New(Config{BotToken: "t", ChatID: "1"}); err == nil {
		t.Error("Expected error without logger")
	}
	if _, err := New(Config{BotToken: "t", ChatID: "1", Logger: &mockLogger{}}); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestSend(t *testing.T) {
	var gotPath string
	var gotBody map[string]interface{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("Failed to decode request body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n, err := New(Config{BotToken: "token123", ChatID: "-100", BaseURL: srv.URL, Logger: &mockLogger{}})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if err := n.Send(context.Background(), "hello"); err != nil {
		t.Fatalf("Unexpected send error: %v", err)
	}
	if gotPath != "/bottoken123/sendMessage" {
		t.Errorf("Expected Bot API path, got %q", gotPath)
	}
	if gotBody["chat_id"] != "-100" || gotBody["text"] != "hello" {
		t.Errorf("Unexpected payload: %v", gotBody)
	}
}

func TestSend_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	n, err := New(Config{BotToken: "t", ChatID: "1", BaseURL: srv.URL, Logger: &mockLogger{}})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if err := n.Send(context.Background(), "hello"); err == nil {
		t.Error("Expected error for non-200 response")
	}
}
