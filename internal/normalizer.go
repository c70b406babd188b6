package internal

import (
	"fmt"
	"strings"
)

// placeholderContent is used when an assistant record carries no content in
// either field.
const placeholderContent = "Assistant response"

// websiteSummaryMarkers are content substrings that identify a generated
// website or video summary when the record's metadata fields are missing.
var websiteSummaryMarkers = []string{
	"Summary generated on",
	"Comprehensive YouTube Video Analysis",
}

// Normalizer converts raw service records into canonical Messages. Both the
// live-answer path and the history-replay path go through the same
// Normalize call so a reloaded conversation renders exactly like it did
// live.
type Normalizer struct{}

// NewNormalizer creates a new Normalizer.
func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// Normalize converts one raw record into a canonical Message. The second
// return value is false when the record's role is unknown and the record is
// dropped.
func (n *Normalizer) Normalize(record *RawRecord) (Message, bool) {
	switch record.Role {
	case "user", "system":
		return Message{
			ID:        n.recordID(record),
			Role:      record.Role,
			Content:   record.Content,
			Timestamp: record.CreatedAt,
		}, true
	case "assistant":
		content := record.Content
		if content == "" {
			content = record.AIResponse
		}
		if content == "" {
			content = placeholderContent
		}

		webResults := record.WebResults
		if webResults == nil {
			webResults = []WebResult{}
		}

		return Message{
			ID:         n.recordID(record),
			Role:       "assistant",
			Content:    content,
			Timestamp:  record.CreatedAt,
			Mode:       n.resolveMode(record, content),
			WebResults: webResults,
			RAGContext: record.RAGContext,
		}, true
	default:
		return Message{}, false
	}
}

// NormalizeAll converts a history listing into canonical messages, dropping
// records with unknown roles.
func (n *Normalizer) NormalizeAll(records []*RawRecord) []Message {
	messages := make([]Message, 0, len(records))
	for _, record := range records {
		msg, ok := n.Normalize(record)
		if !ok {
			LogDebug("Dropping record with unknown role %q", record.Role)
			continue
		}
		messages = append(messages, msg)
	}
	return messages
}

// resolveMode applies the mode override cascade. Website-summary evidence
// beats web-search-only evidence beats the raw field value; metadata is
// inconsistently populated between the live and history paths, so content
// markers act as a fallback signal.
func (n *Normalizer) resolveMode(record *RawRecord, content string) Mode {
	mode := record.Mode
	if mode == "" {
		mode = record.QueryType
	}
	if mode == "" {
		mode = string(ModeRegularSearch)
	}

	queryType := strings.ToLower(strings.TrimSpace(record.QueryType))

	if queryType == string(ModeWebsiteSummary) || containsAnyMarker(content) {
		return ModeWebsiteSummary
	}
	if record.Mode == string(ModeWebSearchOnly) || queryType == string(ModeWebSearchOnly) {
		return ModeWebSearchOnly
	}
	return Mode(mode)
}

// recordID derives a stable message id from the record's own id and role,
// so normalizing the same record twice yields identical messages.
func (n *Normalizer) recordID(record *RawRecord) string {
	if record.ID != "" {
		return fmt.Sprintf("%s-%s", record.ID.String(), record.Role)
	}
	return fmt.Sprintf("%d-%s", record.GetTimestamp().UnixNano(), record.Role)
}

func containsAnyMarker(content string) bool {
	for _, marker := range websiteSummaryMarkers {
		if strings.Contains(content, marker) {
			return true
		}
	}
	return false
}

// NormalizeAnswer folds a live send-message answer into a canonical
// assistant Message. It reuses the record path so live and replayed
// messages classify identically.
func (n *Normalizer) NormalizeAnswer(answer *Answer) Message {
	record := &RawRecord{
		Role:       "assistant",
		Content:    answer.Result,
		AIResponse: answer.AIResponse,
		Mode:       answer.Mode,
		CreatedAt:  nowRFC3339(),
		WebResults: answer.WebResults,
		RAGContext: answer.RAGContext,
	}
	msg, _ := n.Normalize(record)
	msg.ID = NewMessageID("assistant")
	return msg
}
