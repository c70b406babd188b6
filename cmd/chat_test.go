package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tverro/ragchat/internal"
	"github.com/tverro/ragchat/testutil"
)

func newTestChatLoop(t *testing.T, mock *testutil.MockService) (*chatLoop, *bytes.Buffer) {
	t.Helper()

	dir := t.TempDir()
	cfg := &internal.Config{
		ServerURL:      mock.URL(),
		SendTimeout:    2 * time.Second,
		RequestTimeout: 2 * time.Second,
		StatePath:      filepath.Join(dir, "state.db"),
	}

	store, err := internal.OpenStateStore(cfg.StatePath)
	if err != nil {
		t.Fatalf("OpenStateStore() error: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	var out bytes.Buffer
	loop := &chatLoop{
		cfg:        cfg,
		client:     internal.NewClient(cfg),
		store:      store,
		session:    internal.Session{Email: "user@example.com"},
		state:      internal.NewState(),
		normalizer: internal.NewNormalizer(),
		out:        &out,
	}
	return loop, &out
}

func TestChatLoopSendAndReceive(t *testing.T) {
	mock := testutil.NewMockService(t)
	mock.RespondJSON("/api/news", http.StatusOK, testutil.SendAnswer("the digest", "rag_search", "c9"))
	mock.RespondJSON("/api/conversations", http.StatusOK, map[string]interface{}{"conversations": []interface{}{}})

	loop, out := newTestChatLoop(t, mock)
	in := strings.NewReader("what happened today\n/quit\n")

	if err := loop.run(context.Background(), in); err != nil {
		t.Fatalf("run() error: %v", err)
	}

	output := out.String()
	if !strings.Contains(output, "what happened today") {
		t.Errorf("user message not echoed:\n%s", output)
	}
	if !strings.Contains(output, "Searching and composing an answer...") {
		t.Errorf("loading indicator missing:\n%s", output)
	}
	if !strings.Contains(output, "the digest") {
		t.Errorf("answer missing:\n%s", output)
	}
	if loop.state.ConversationID() != "c9" {
		t.Errorf("conversation id = %q, want c9", loop.state.ConversationID())
	}
	if len(loop.state.Messages()) != 2 {
		t.Errorf("got %d messages, want user + assistant", len(loop.state.Messages()))
	}
}

func TestChatLoopSendFailureKeepsUserMessage(t *testing.T) {
	// No /api/news route: every send fails with a 404.
	mock := testutil.NewMockService(t)

	loop, out := newTestChatLoop(t, mock)
	in := strings.NewReader("hello\n/quit\n")

	if err := loop.run(context.Background(), in); err != nil {
		t.Fatalf("run() error: %v", err)
	}

	if !strings.Contains(out.String(), "Server error (404)") {
		t.Errorf("error message missing:\n%s", out.String())
	}

	messages := loop.state.Messages()
	if len(messages) != 2 {
		t.Fatalf("got %d messages, want pending user + error", len(messages))
	}
	if messages[0].Role != "user" || messages[0].Content != "hello" {
		t.Errorf("pending user message = %+v", messages[0])
	}
	if !messages[1].IsError {
		t.Errorf("second message not an error: %+v", messages[1])
	}
}

func TestChatLoopHistoryExcludesPendingMessage(t *testing.T) {
	mock := testutil.NewMockService(t)
	var gotHistory []interface{}
	mock.Handle("/api/news", func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]interface{}
		testutil.DecodeRequest(t, r, &payload)
		gotHistory, _ = payload["chatHistory"].([]interface{})
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(testutil.SendAnswer("ok", "rag_search", "c1"))
	})
	mock.RespondJSON("/api/conversations", http.StatusOK, map[string]interface{}{"conversations": []interface{}{}})

	loop, _ := newTestChatLoop(t, mock)
	in := strings.NewReader("first question\n/quit\n")
	if err := loop.run(context.Background(), in); err != nil {
		t.Fatalf("run() error: %v", err)
	}

	if len(gotHistory) != 0 {
		t.Errorf("first send carried %d history messages, want 0", len(gotHistory))
	}
}

func TestChatLoopOpenConversation(t *testing.T) {
	mock := testutil.NewMockService(t)
	mock.RespondJSON("/api/conversation/c1/messages", http.StatusOK, testutil.HistoryResponse(
		testutil.UserRecord("1", "old question", "2024-03-01T10:00:00Z"),
		testutil.AssistantRecord("2", "old answer", "", "rag_search"),
	))

	loop, out := newTestChatLoop(t, mock)
	in := strings.NewReader("/open c1\n/quit\n")

	if err := loop.run(context.Background(), in); err != nil {
		t.Fatalf("run() error: %v", err)
	}

	output := out.String()
	if !strings.Contains(output, "old question") || !strings.Contains(output, "old answer") {
		t.Errorf("replayed history missing:\n%s", output)
	}
	if loop.state.ConversationID() != "c1" {
		t.Errorf("conversation id = %q, want c1", loop.state.ConversationID())
	}
}

func TestChatLoopUnknownCommand(t *testing.T) {
	mock := testutil.NewMockService(t)

	loop, out := newTestChatLoop(t, mock)
	in := strings.NewReader("/bogus\n/quit\n")

	if err := loop.run(context.Background(), in); err != nil {
		t.Fatalf("run() error: %v", err)
	}
	if !strings.Contains(out.String(), "unknown command /bogus") {
		t.Errorf("unknown command not reported:\n%s", out.String())
	}
}

func TestChatLoopUploadRejectedLocally(t *testing.T) {
	mock := testutil.NewMockService(t)

	bad := filepath.Join(t.TempDir(), "binary.exe")
	if err := os.WriteFile(bad, []byte("MZ"), 0644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}

	loop, out := newTestChatLoop(t, mock)
	in := strings.NewReader("/upload " + bad + "\n/quit\n")

	if err := loop.run(context.Background(), in); err != nil {
		t.Fatalf("run() error: %v", err)
	}

	if !strings.Contains(out.String(), "unsupported file type") {
		t.Errorf("rejection status missing:\n%s", out.String())
	}
	// Validation failures are a transient status, never a message.
	if len(loop.state.Messages()) != 0 {
		t.Errorf("message sequence changed: %+v", loop.state.Messages())
	}
}

func TestChatLoopSignout(t *testing.T) {
	mock := testutil.NewMockService(t)

	loop, out := newTestChatLoop(t, mock)
	if err := internal.SaveSession(loop.store, internal.Session{Email: "user@example.com"}); err != nil {
		t.Fatalf("SaveSession() error: %v", err)
	}

	in := strings.NewReader("/signout\n")
	if err := loop.run(context.Background(), in); err != nil {
		t.Fatalf("run() error: %v", err)
	}
	if !strings.Contains(out.String(), "Signed out.") {
		t.Errorf("signout confirmation missing:\n%s", out.String())
	}

	session, err := internal.LoadSession(loop.store)
	if err != nil {
		t.Fatalf("LoadSession() error: %v", err)
	}
	if session.SignedIn() {
		t.Error("still signed in after /signout")
	}
}
