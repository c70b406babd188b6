package internal

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func testConfig(serverURL string) *Config {
	return &Config{
		ServerURL:      serverURL,
		SendTimeout:    2 * time.Second,
		RequestTimeout: 2 * time.Second,
	}
}

func newTestServer(t *testing.T, mux *http.ServeMux) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestListConversations(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/conversations", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"conversations":[{"id":"c1","title":"News","last_message_at":"2024-03-01T10:00:00Z","total_messages":6}]}`))
	})
	server := newTestServer(t, mux)

	client := NewClient(testConfig(server.URL))
	conversations, err := client.ListConversations(context.Background(), "user@example.com")
	if err != nil {
		t.Fatalf("ListConversations() error: %v", err)
	}
	if len(conversations) != 1 || conversations[0].ID != "c1" || conversations[0].TotalMessages != 6 {
		t.Errorf("conversations = %+v", conversations)
	}
}

func TestListMessages(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/conversation/c1/messages", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"messages":[
			{"id":1,"role":"user","content":"hi","created_at":"2024-03-01T10:00:00Z"},
			{"id":2,"role":"assistant","ai_response":"hello","query_type":"rag_search"}
		]}`))
	})
	server := newTestServer(t, mux)

	client := NewClient(testConfig(server.URL))
	records, err := client.ListMessages(context.Background(), "c1")
	if err != nil {
		t.Fatalf("ListMessages() error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[1].AIResponse != "hello" || records[1].QueryType != "rag_search" {
		t.Errorf("record = %+v", records[1])
	}
}

func TestSendMessageSuccess(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/news", func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("bad request body: %v", err)
		}
		if payload["query"] != "what happened today" {
			t.Errorf("query = %v", payload["query"])
		}
		if _, ok := payload["chatHistory"]; !ok {
			t.Error("chatHistory missing from payload")
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"success","result":"news digest","mode":"rag_search","conversation_id":"c7"}`))
	})
	server := newTestServer(t, mux)

	client := NewClient(testConfig(server.URL))
	answer, err := client.SendMessage(context.Background(), "what happened today", "user@example.com", "", nil)
	if err != nil {
		t.Fatalf("SendMessage() error: %v", err)
	}
	if answer.Result != "news digest" || answer.ConversationID != "c7" {
		t.Errorf("answer = %+v", answer)
	}
}

func TestSendMessageApplicationFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/news", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"error","error":"index rebuilding"}`))
	})
	server := newTestServer(t, mux)

	client := NewClient(testConfig(server.URL))
	_, err := client.SendMessage(context.Background(), "q", "user@example.com", "", nil)

	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("got %T (%v), want *RequestError", err, err)
	}
	if reqErr.Message != "index rebuilding" {
		t.Errorf("message = %q", reqErr.Message)
	}
}

func TestSendMessageServerError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/news", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"boom"}`, http.StatusInternalServerError)
	})
	server := newTestServer(t, mux)

	client := NewClient(testConfig(server.URL))
	_, err := client.SendMessage(context.Background(), "q", "user@example.com", "", nil)

	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("got %T, want *RequestError", err)
	}
	if reqErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("status = %d", reqErr.StatusCode)
	}
	if reqErr.Message != "boom" {
		t.Errorf("message = %q, want server detail", reqErr.Message)
	}
}

func TestSendMessageTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.NewServeMux())
	server.Close() // immediately unreachable

	client := NewClient(testConfig(server.URL))
	_, err := client.SendMessage(context.Background(), "q", "user@example.com", "", nil)

	var transportErr *TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("got %T (%v), want *TransportError", err, err)
	}
}

func TestCreateConversation(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/conversation/new", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"conversation":{"id":"fresh"}}`))
	})
	server := newTestServer(t, mux)

	client := NewClient(testConfig(server.URL))
	conv, err := client.CreateConversation(context.Background(), "user@example.com")
	if err != nil {
		t.Fatalf("CreateConversation() error: %v", err)
	}
	if conv.ID != "fresh" {
		t.Errorf("conversation id = %q", conv.ID)
	}
}

func TestCreateConversationEmptyBody(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/conversation/new", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	})
	server := newTestServer(t, mux)

	client := NewClient(testConfig(server.URL))
	if _, err := client.CreateConversation(context.Background(), "user@example.com"); err == nil {
		t.Error("CreateConversation() accepted a response without a conversation")
	}
}

func TestDeleteConversation(t *testing.T) {
	var gotMethod, gotPath string
	mux := http.NewServeMux()
	mux.HandleFunc("/api/conversation/c1", func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		w.WriteHeader(http.StatusOK)
	})
	server := newTestServer(t, mux)

	client := NewClient(testConfig(server.URL))
	if err := client.DeleteConversation(context.Background(), "c1"); err != nil {
		t.Fatalf("DeleteConversation() error: %v", err)
	}
	if gotMethod != http.MethodDelete || gotPath != "/api/conversation/c1" {
		t.Errorf("request = %s %s", gotMethod, gotPath)
	}
}

func TestHealth(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"healthy"}`))
	})
	server := newTestServer(t, mux)

	client := NewClient(testConfig(server.URL))
	if err := client.Health(context.Background()); err != nil {
		t.Errorf("Health() error: %v", err)
	}
}

func TestUploadDocument(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/upload", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			t.Fatalf("ParseMultipartForm: %v", err)
		}
		if r.FormValue("user_email") != "user@example.com" {
			t.Errorf("user_email = %q", r.FormValue("user_email"))
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("FormFile: %v", err)
		}
		defer file.Close()
		if header.Filename != "notes.txt" {
			t.Errorf("filename = %q", header.Filename)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"success"}`))
	})
	server := newTestServer(t, mux)

	path := writeTempFile(t, "notes.txt", 64)
	client := NewClient(testConfig(server.URL))
	if err := client.UploadDocument(context.Background(), path, "user@example.com", "c1"); err != nil {
		t.Fatalf("UploadDocument() error: %v", err)
	}
}

func TestUploadDocumentRejected(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/upload", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"error","error":"unsupported content"}`))
	})
	server := newTestServer(t, mux)

	path := writeTempFile(t, "notes.txt", 64)
	client := NewClient(testConfig(server.URL))
	err := client.UploadDocument(context.Background(), path, "user@example.com", "c1")

	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("got %T, want *RequestError", err)
	}
	if reqErr.Message != "unsupported content" {
		t.Errorf("message = %q", reqErr.Message)
	}
}
