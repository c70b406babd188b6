package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

// MockService is a fake answering service backed by httptest. Handlers can
// be overridden per test; unset routes answer 404.
type MockService struct {
	Server *httptest.Server
	mux    *http.ServeMux
}

// NewMockService starts a mock answering service. It is closed
// automatically when the test finishes.
func NewMockService(t *testing.T) *MockService {
	t.Helper()
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return &MockService{Server: server, mux: mux}
}

// URL returns the base URL of the mock service.
func (m *MockService) URL() string {
	return m.Server.URL
}

// Handle registers a handler for a route pattern.
func (m *MockService) Handle(pattern string, handler http.HandlerFunc) {
	m.mux.HandleFunc(pattern, handler)
}

// RespondJSON registers a route that always answers the given payload.
func (m *MockService) RespondJSON(pattern string, status int, payload interface{}) {
	m.Handle(pattern, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(payload)
	})
}

// DecodeRequest decodes a JSON request body into out.
func DecodeRequest(t *testing.T, r *http.Request, out interface{}) {
	t.Helper()
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		t.Fatalf("Failed to decode request body: %v", err)
	}
}

// SendAnswer builds a successful send-message response body.
func SendAnswer(result, mode, conversationID string) map[string]interface{} {
	return map[string]interface{}{
		"status":          "success",
		"result":          result,
		"mode":            mode,
		"conversation_id": conversationID,
	}
}

// HistoryResponse builds a conversation history response from raw record
// JSON objects.
func HistoryResponse(records ...map[string]interface{}) map[string]interface{} {
	return map[string]interface{}{"messages": records}
}

// UserRecord builds a raw user message record.
func UserRecord(id, content, createdAt string) map[string]interface{} {
	return map[string]interface{}{
		"id":         id,
		"role":       "user",
		"content":    content,
		"created_at": createdAt,
	}
}

// AssistantRecord builds a raw assistant message record. Zero-valued fields
// are omitted so tests can exercise the fallback paths.
func AssistantRecord(id, content, mode, queryType string) map[string]interface{} {
	record := map[string]interface{}{
		"id":   id,
		"role": "assistant",
	}
	if content != "" {
		record["content"] = content
	}
	if mode != "" {
		record["mode"] = mode
	}
	if queryType != "" {
		record["query_type"] = queryType
	}
	return record
}
