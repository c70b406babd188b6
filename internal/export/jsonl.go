package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/tverro/ragchat/internal"
)

// JSONLExporter exports transcripts in JSONL format (one message per line)
type JSONLExporter struct{}

// Export exports a transcript to JSONL format
func (e *JSONLExporter) Export(transcript *internal.Transcript, w io.Writer) error {
	enc := json.NewEncoder(w)

	for _, msg := range transcript.Messages {
		obj := map[string]interface{}{
			"role":    msg.Role,
			"content": msg.Content,
		}

		if msg.Timestamp != "" {
			obj["timestamp"] = msg.Timestamp
		}
		if msg.Mode != "" {
			obj["mode"] = string(msg.Mode)
		}
		if len(msg.WebResults) > 0 {
			obj["web_results"] = msg.WebResults
		}
		if msg.RAGContext != "" {
			obj["rag_context"] = msg.RAGContext
		}

		// Encode to single line
		if err := enc.Encode(obj); err != nil {
			return fmt.Errorf("failed to encode message: %w", err)
		}
	}

	return nil
}

// Extension returns the file extension for this format
func (e *JSONLExporter) Extension() string {
	return "jsonl"
}
