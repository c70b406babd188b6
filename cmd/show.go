package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/tverro/ragchat/internal"
)

var showLimit int

var conversationHeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("212")).
	Padding(0, 1).
	MarginBottom(1)

// showCmd represents the show command
var showCmd = &cobra.Command{
	Use:   "show <conversation-id>",
	Short: "Show messages for a conversation",
	Long: `Fetch a conversation's history from the service and render it.

Replayed messages go through the same normalization as live answers, so a
conversation renders identically to how it looked when it happened.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		conversationID := args[0]

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		store, _, err := requireSession(cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		client := internal.NewClient(cfg)
		records, err := client.ListMessages(cmd.Context(), conversationID)
		if err != nil {
			return fmt.Errorf("failed to load conversation %s: %w", conversationID, err)
		}

		messages := internal.NewNormalizer().NormalizeAll(records)
		if showLimit > 0 && len(messages) > showLimit {
			messages = messages[len(messages)-showLimit:]
		}

		fmt.Println(conversationHeaderStyle.Render(fmt.Sprintf("Conversation %s (%d messages)", conversationID, len(messages))))
		for _, msg := range messages {
			fmt.Println(renderMessage(msg))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().IntVar(&showLimit, "limit", 0, "Show only the last N messages")
}
