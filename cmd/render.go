package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/tverro/ragchat/internal"
)

var (
	// Shared message styles
	userLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true)

	assistantLabelStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("135")).
				Bold(true)

	systemLabelStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("243")).
				Italic(true)

	errorLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	modeTagStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	contentStyle = lipgloss.NewStyle().
			Padding(0, 2)

	sourceStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("33"))

	contextStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243")).
			Padding(0, 2)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))
)

// loadingLabel maps a provisional mode to the progress text shown while the
// request is in flight. web_search_only has no indicator of its own; it is
// indistinguishable from rag_search until the answer arrives.
func loadingLabel(mode internal.Mode) string {
	switch mode {
	case internal.ModeWebsiteSummary:
		return "Summarizing the page..."
	case internal.ModeDocumentSummary:
		return "Summarizing your document..."
	default:
		return "Searching and composing an answer..."
	}
}

// renderMessage renders one canonical message for terminal output. The
// template is keyed by role and, for assistant messages, by mode.
func renderMessage(msg internal.Message) string {
	var b strings.Builder

	switch {
	case msg.IsError:
		b.WriteString(errorLabelStyle.Render("assistant (error)"))
	case msg.Role == "user":
		b.WriteString(userLabelStyle.Render("you"))
	case msg.Role == "system":
		b.WriteString(systemLabelStyle.Render("system"))
	default:
		b.WriteString(assistantLabelStyle.Render("assistant"))
		if msg.Mode != "" {
			b.WriteString(" " + modeTagStyle.Render("["+modeLabel(msg.Mode)+"]"))
		}
	}

	if msg.Timestamp != "" {
		b.WriteString(" " + modeTagStyle.Render(internal.FormatTimeAgo(msg.Timestamp)))
	}
	b.WriteString("\n")
	b.WriteString(contentStyle.Render(msg.Content))
	b.WriteString("\n")

	if len(msg.WebResults) > 0 {
		b.WriteString(contentStyle.Render("Sources:"))
		b.WriteString("\n")
		for _, result := range msg.WebResults {
			line := fmt.Sprintf("• %s (%s)", result.Title, sourceStyle.Render(result.URL))
			b.WriteString(contentStyle.Render(line))
			b.WriteString("\n")
		}
	}

	if msg.RAGContext != "" && msg.Mode.IsStaged() {
		b.WriteString(contextStyle.Render("Context: " + truncate(msg.RAGContext, 200)))
		b.WriteString("\n")
	}

	return b.String()
}

// modeLabel renders the mode tag; the two staged modes display identically.
func modeLabel(mode internal.Mode) string {
	if mode.IsStaged() {
		return "rag"
	}
	switch mode {
	case internal.ModeWebsiteSummary:
		return "website summary"
	case internal.ModeDocumentSummary:
		return "document summary"
	case internal.ModeWebSearchOnly:
		return "web search"
	default:
		return string(mode)
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
