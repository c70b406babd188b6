package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/tverro/ragchat/internal"
)

// MarkdownExporter exports transcripts in Markdown format
type MarkdownExporter struct{}

// Export exports a transcript to Markdown format
func (e *MarkdownExporter) Export(transcript *internal.Transcript, w io.Writer) error {
	// Header
	title := transcript.Conversation.Title
	if title == "" {
		title = transcript.Conversation.ID
	}
	_, _ = fmt.Fprintf(w, "# %s\n\n", title)

	_, _ = fmt.Fprintf(w, "**Conversation:** %s  \n", transcript.Conversation.ID)
	if transcript.Conversation.LastMessageAt != "" {
		_, _ = fmt.Fprintf(w, "**Last message:** %s  \n", transcript.Conversation.LastMessageAt)
	}
	_, _ = fmt.Fprintf(w, "**Messages:** %d\n\n", len(transcript.Messages))

	_, _ = fmt.Fprintf(w, "---\n\n")
	_, _ = fmt.Fprintf(w, "## Messages\n\n")

	for i, msg := range transcript.Messages {
		timestamp := ""
		if msg.Timestamp != "" {
			timestamp = fmt.Sprintf(" (%s)", msg.Timestamp)
		}

		label := msg.Role
		if msg.Role == "assistant" && msg.Mode != "" {
			label = fmt.Sprintf("%s [%s]", msg.Role, msg.Mode)
		}

		content := escapeMarkdown(msg.Content)
		_, _ = fmt.Fprintf(w, "**%s:**%s\n\n%s\n\n", label, timestamp, content)

		if len(msg.WebResults) > 0 {
			_, _ = fmt.Fprintf(w, "Sources:\n\n")
			for _, result := range msg.WebResults {
				_, _ = fmt.Fprintf(w, "- [%s](%s)\n", result.Title, result.URL)
			}
			_, _ = fmt.Fprintf(w, "\n")
		}

		// Add horizontal rule after each message (except the last one)
		if i < len(transcript.Messages)-1 {
			_, _ = fmt.Fprintf(w, "---\n\n")
		}
	}

	return nil
}

// escapeMarkdown escapes markdown special characters outside code blocks
func escapeMarkdown(text string) string {
	lines := strings.Split(text, "\n")
	var result []string
	inCodeBlock := false

	for _, line := range lines {
		if strings.HasPrefix(line, "```") {
			inCodeBlock = !inCodeBlock
			result = append(result, line)
		} else if inCodeBlock {
			result = append(result, line)
		} else {
			line = strings.ReplaceAll(line, "**", "\\*\\*")
			line = strings.ReplaceAll(line, "__", "\\_\\_")
			result = append(result, line)
		}
	}

	return strings.Join(result, "\n")
}

// Extension returns the file extension for this format
func (e *MarkdownExporter) Extension() string {
	return "md"
}
