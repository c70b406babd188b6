package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/tverro/ragchat/internal"
)

var listClearCache bool

var (
	// Styles
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	idStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Italic(true)

	countStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	dateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List your conversations",
	Long: `List the signed-in user's conversations from the answering service.

When the service is unreachable the last successfully fetched listing is
shown instead.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		store, session, err := requireSession(cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		cache := internal.NewCacheManager(cacheDir(cfg))
		if listClearCache {
			if err := cache.ClearCache(); err != nil {
				internal.LogWarn("Failed to clear cache: %v", err)
			} else {
				internal.LogInfo("Cache cleared")
			}
		}

		client := internal.NewClient(cfg)
		conversations, err := client.ListConversations(cmd.Context(), session.Email)
		if err != nil {
			internal.LogWarn("Failed to load conversations: %v", err)

			// Degrade to the cached listing; prior state stays visible.
			index, cacheErr := cache.LoadIndex(cfg.ServerURL, session.Email)
			if cacheErr != nil || index == nil {
				return fmt.Errorf("failed to load conversations: %w", err)
			}
			fmt.Println(dateStyle.Render(fmt.Sprintf("Service unreachable, showing listing cached %s",
				internal.FormatTimeAgo(index.UpdatedAt.Format("2006-01-02T15:04:05Z07:00")))))
			displayConversations(index.Conversations)
			return nil
		}

		if err := cache.SaveIndex(&internal.ConversationIndex{
			Server:        cfg.ServerURL,
			Email:         session.Email,
			Conversations: conversations,
		}); err != nil {
			internal.LogDebug("Failed to save conversation index: %v", err)
		}

		displayConversations(conversations)
		return nil
	},
}

func displayConversations(conversations []internal.Conversation) {
	if len(conversations) == 0 {
		fmt.Println(headerStyle.Render("No conversations found"))
		return
	}

	header := headerStyle.Render(fmt.Sprintf("Found %d conversation(s)", len(conversations)))
	fmt.Println(header)
	fmt.Println()

	// Use tabwriter for aligned columns
	w := tabwriter.NewWriter(lipgloss.DefaultRenderer().Output(), 0, 0, 3, ' ', tabwriter.AlignRight)

	_, _ = fmt.Fprintln(w, titleStyle.Render("ID")+"\t"+titleStyle.Render("Title")+"\t"+titleStyle.Render("Messages")+"\t"+titleStyle.Render("Last message")+"\t")
	_, _ = fmt.Fprintln(w, strings.Repeat("─", 100))

	for _, conv := range conversations {
		title := conv.Title
		if title == "" {
			title = "Untitled"
		}
		if len(title) > 50 {
			title = title[:47] + "..."
		}
		titleCell := lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Render(title)

		msgCount := countStyle.Render(strconv.Itoa(conv.TotalMessages))
		last := dateStyle.Render(internal.FormatTimeAgo(conv.LastMessageAt))

		// Show short id for readability
		shortID := conv.ID
		if len(shortID) > 8 {
			shortID = shortID[:8]
		}
		id := idStyle.Render(shortID)

		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t\n", id, titleCell, msgCount, last)
	}

	_ = w.Flush()
	fmt.Println()
	if len(conversations) > 0 {
		fmt.Println(idStyle.Render("Tip: Use the full id (e.g. ") +
			lipgloss.NewStyle().Foreground(lipgloss.Color("62")).Render(conversations[0].ID) +
			idStyle.Render(") with `ragchat show <id>`"))
	}
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listClearCache, "clear-cache", false, "Clear the cached listing before running")
}
