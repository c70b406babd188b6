package internal

import (
	"encoding/json"
	"fmt"
	"time"
)

// Mode classifies an assistant message and selects its rendering template.
type Mode string

const (
	ModeWebsiteSummary  Mode = "website_summary"
	ModeDocumentSummary Mode = "document_summary"
	ModeWebSearchOnly   Mode = "web_search_only"
	ModeRegularSearch   Mode = "regular_search"
	ModeRAGSearch       Mode = "rag_search"
)

// IsStaged reports whether the mode renders with the staged (RAG) template.
// regular_search and rag_search are aliases of the same presentation.
func (m Mode) IsStaged() bool {
	return m == ModeRegularSearch || m == ModeRAGSearch
}

// Message is the canonical, render-ready representation of any conversation
// message regardless of origin (live response or stored history).
type Message struct {
	ID         string      `json:"id" yaml:"id"`
	Role       string      `json:"role" yaml:"role"` // "user", "assistant", "system"
	Content    string      `json:"content" yaml:"content"`
	Timestamp  string      `json:"timestamp,omitempty" yaml:"timestamp,omitempty"`
	Mode       Mode        `json:"mode,omitempty" yaml:"mode,omitempty"` // assistant messages only
	WebResults []WebResult `json:"web_results,omitempty" yaml:"web_results,omitempty"`
	RAGContext string      `json:"rag_context,omitempty" yaml:"rag_context,omitempty"`

	IsError              bool `json:"is_error,omitempty" yaml:"is_error,omitempty"`
	IsUploadConfirmation bool `json:"is_upload_confirmation,omitempty" yaml:"is_upload_confirmation,omitempty"`
}

// WebResult is a single web search hit attached to an assistant message.
type WebResult struct {
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Source      string `json:"source,omitempty" yaml:"source,omitempty"`
	PublishedAt string `json:"published_at,omitempty" yaml:"published_at,omitempty"`
	URL         string `json:"url" yaml:"url"`
}

// Conversation is a lightweight summary of a stored conversation, fetched
// for listing. It is not kept in sync with the active message log.
type Conversation struct {
	ID            string `json:"id" yaml:"id"`
	Title         string `json:"title" yaml:"title,omitempty"`
	LastMessageAt string `json:"last_message_at" yaml:"last_message_at,omitempty"`
	TotalMessages int    `json:"total_messages" yaml:"total_messages"`
}

// Transcript bundles a conversation summary with its normalized messages,
// the unit handed to the export formats.
type Transcript struct {
	Conversation Conversation `json:"conversation" yaml:"conversation"`
	Messages     []Message    `json:"messages" yaml:"messages"`
	ExportedAt   string       `json:"exported_at,omitempty" yaml:"exported_at,omitempty"`
}

// RawRecord is a message as it arrives from the service, either a row from
// conversation history or a live answer folded into record shape. Field
// population differs between the two paths; Normalize resolves the
// differences.
// RecordID is a message record id. The service sends numeric ids for stored
// rows, but older rows and other deployments use string ids; both decode.
type RecordID string

func (r *RecordID) UnmarshalJSON(data []byte) error {
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*r = RecordID(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("record id must be a number or string, got %s", data)
	}
	*r = RecordID(s)
	return nil
}

func (r RecordID) String() string {
	return string(r)
}

type RawRecord struct {
	ID         RecordID    `json:"id,omitempty"`
	Role       string      `json:"role"`
	Content    string      `json:"content,omitempty"`
	AIResponse string      `json:"ai_response,omitempty"`
	CreatedAt  string      `json:"created_at,omitempty"`
	Mode       string      `json:"mode,omitempty"`
	QueryType  string      `json:"query_type,omitempty"`
	WebResults []WebResult `json:"web_results,omitempty"`
	RAGContext string      `json:"rag_context,omitempty"`
}

// ParseRawRecord parses a JSON value into a RawRecord.
func ParseRawRecord(value []byte) (*RawRecord, error) {
	var record RawRecord
	if err := json.Unmarshal(value, &record); err != nil {
		return nil, fmt.Errorf("failed to parse message record: %w", err)
	}
	return &record, nil
}

// GetTimestamp parses the record's created_at into a time.Time. Returns the
// zero time when absent or unparseable.
func (r *RawRecord) GetTimestamp() time.Time {
	if r.CreatedAt == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, r.CreatedAt); err == nil {
			return t
		}
	}
	return time.Time{}
}

// GetTimestamp parses the message timestamp. Returns the zero time when
// absent or unparseable.
func (m *Message) GetTimestamp() time.Time {
	if m.Timestamp == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, m.Timestamp)
	if err != nil {
		return time.Time{}
	}
	return t
}

// FormatTimeAgo renders a timestamp as a coarse relative time for listings.
func FormatTimeAgo(timestamp string) string {
	if timestamp == "" {
		return "just now"
	}

	var t time.Time
	var err error
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05"} {
		t, err = time.Parse(layout, timestamp)
		if err == nil {
			break
		}
	}
	if err != nil {
		return "just now"
	}

	diff := time.Since(t)
	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	}
}
