package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// Client talks to the remote answering/storage service. Transport is plain
// HTTP/JSON; the service owns all conversation persistence.
type Client struct {
	baseURL    string
	httpClient *http.Client
	sendClient *http.Client
}

// NewClient creates a Client for the given base URL. The send-message path
// gets its own, longer timeout since answers can take a while to generate.
func NewClient(cfg *Config) *Client {
	return &Client{
		baseURL:    cfg.ServerURL,
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
		sendClient: &http.Client{Timeout: cfg.SendTimeout},
	}
}

// Answer is the service's reply to a send-message request. The generated
// text arrives in result or ai_response depending on the answering path.
type Answer struct {
	Status         string      `json:"status"`
	Result         string      `json:"result,omitempty"`
	AIResponse     string      `json:"ai_response,omitempty"`
	Mode           string      `json:"mode,omitempty"`
	WebResults     []WebResult `json:"web_results,omitempty"`
	RAGContext     string      `json:"rag_context,omitempty"`
	ConversationID string      `json:"conversation_id,omitempty"`
	Error          string      `json:"error,omitempty"`
	Message        string      `json:"message,omitempty"`
}

// ListConversations fetches the conversation summaries for a user.
func (c *Client) ListConversations(ctx context.Context, email string) ([]Conversation, error) {
	var result struct {
		Conversations []Conversation `json:"conversations"`
	}
	err := c.postJSON(ctx, c.httpClient, "list", "/api/conversations",
		map[string]string{"user_email": email}, &result)
	if err != nil {
		return nil, err
	}
	return result.Conversations, nil
}

// ListMessages fetches the raw message records of a conversation.
func (c *Client) ListMessages(ctx context.Context, conversationID string) ([]*RawRecord, error) {
	var result struct {
		Messages []*RawRecord `json:"messages"`
	}
	path := fmt.Sprintf("/api/conversation/%s/messages", conversationID)
	if err := c.postJSON(ctx, c.httpClient, "history", path, struct{}{}, &result); err != nil {
		return nil, err
	}
	return result.Messages, nil
}

// CreateConversation asks the service for a fresh conversation.
func (c *Client) CreateConversation(ctx context.Context, email string) (*Conversation, error) {
	var result struct {
		Conversation *Conversation `json:"conversation"`
	}
	err := c.postJSON(ctx, c.httpClient, "create", "/api/conversation/new",
		map[string]string{"user_email": email}, &result)
	if err != nil {
		return nil, err
	}
	if result.Conversation == nil {
		return nil, &DecodeError{Op: "create", Err: fmt.Errorf("response carried no conversation")}
	}
	return result.Conversation, nil
}

// DeleteConversation deletes a conversation server-side. The caller is
// expected to refresh the conversation list afterward.
func (c *Client) DeleteConversation(ctx context.Context, conversationID string) error {
	path := fmt.Sprintf("/api/conversation/%s", conversationID)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+path, nil)
	if err != nil {
		return &SetupError{Op: "delete", Err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Op: "delete", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &RequestError{Op: "delete", StatusCode: resp.StatusCode, Message: serverDetail(resp.Body)}
	}
	return nil
}

// SendMessage submits a query together with the chat history so far. The
// history lets the service keep answering in context; the conversation id
// may be empty, in which case the service creates one and returns its id in
// the answer.
func (c *Client) SendMessage(ctx context.Context, query, email, conversationID string, history []Message) (*Answer, error) {
	payload := map[string]interface{}{
		"query":           query,
		"user_email":      email,
		"conversation_id": conversationID,
		"chatHistory":     history,
	}

	var answer Answer
	if err := c.postJSON(ctx, c.sendClient, "send", "/api/news", payload, &answer); err != nil {
		return nil, err
	}
	if answer.Status != "success" {
		detail := answer.Error
		if detail == "" {
			detail = answer.Message
		}
		return nil, &RequestError{Op: "send", StatusCode: http.StatusOK, Message: detail}
	}
	return &answer, nil
}

// UploadDocument uploads a file for retrieval context. Validation has
// already happened client-side; this only performs the transfer.
func (c *Client) UploadDocument(ctx context.Context, path, email, conversationID string) error {
	file, err := os.Open(path)
	if err != nil {
		return &SetupError{Op: "upload", Err: err}
	}
	defer file.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return &SetupError{Op: "upload", Err: err}
	}
	if _, err := io.Copy(part, file); err != nil {
		return &SetupError{Op: "upload", Err: err}
	}
	_ = writer.WriteField("user_email", email)
	_ = writer.WriteField("conversation_id", conversationID)
	if err := writer.Close(); err != nil {
		return &SetupError{Op: "upload", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload", &body)
	if err != nil {
		return &SetupError{Op: "upload", Err: err}
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.sendClient.Do(req)
	if err != nil {
		return &TransportError{Op: "upload", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &RequestError{Op: "upload", StatusCode: resp.StatusCode, Message: serverDetail(resp.Body)}
	}

	var result struct {
		Status string `json:"status"`
		Error  string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return &DecodeError{Op: "upload", Err: err}
	}
	if result.Status != "success" {
		return &RequestError{Op: "upload", StatusCode: resp.StatusCode, Message: result.Error}
	}
	return nil
}

// Health probes the service health endpoint.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return &SetupError{Op: "health", Err: err}
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Op: "health", Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return &RequestError{Op: "health", StatusCode: resp.StatusCode, Message: serverDetail(resp.Body)}
	}
	return nil
}

// postJSON marshals the payload, posts it and decodes the JSON response
// into out, classifying failures per stage.
func (c *Client) postJSON(ctx context.Context, client *http.Client, op, path string, payload, out interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return &SetupError{Op: op, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return &SetupError{Op: op, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()
	LogDebug("POST %s -> %d (%s)", path, resp.StatusCode, time.Since(start).Round(time.Millisecond))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &RequestError{Op: op, StatusCode: resp.StatusCode, Message: serverDetail(resp.Body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &DecodeError{Op: op, Err: err}
	}
	return nil
}

// serverDetail pulls a human-readable detail out of an error response body:
// the error or message field of a JSON body, else the raw text, else empty.
func serverDetail(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil || len(data) == 0 {
		return ""
	}

	var parsed struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &parsed); err == nil {
		if parsed.Error != "" {
			return parsed.Error
		}
		if parsed.Message != "" {
			return parsed.Message
		}
	}
	return string(bytes.TrimSpace(data))
}
