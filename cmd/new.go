package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tverro/ragchat/internal"
)

// newCmd represents the new command
var newCmd = &cobra.Command{
	Use:   "new",
	Short: "Create a new conversation",
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

		client := internal.NewClient(cfg)
		conv, err := client.CreateConversation(cmd.Context(), session.Email)
		if err != nil {
			return fmt.Errorf("failed to create conversation: %w", err)
		}

		fmt.Printf("Created conversation %s. Resume it with `ragchat chat --conversation %s`.\n", conv.ID, conv.ID)
		return nil
	},
}

// deleteCmd represents the delete command
var deleteCmd = &cobra.Command{
	Use:   "delete <conversation-id>",
	Short: "Delete a conversation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		conversationID := args[0]

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		store, session, err := requireSession(cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		client := internal.NewClient(cfg)
		if err := client.DeleteConversation(cmd.Context(), conversationID); err != nil {
			return fmt.Errorf("failed to delete conversation: %w", err)
		}

		// Refresh the cached listing the way the UI refreshed its sidebar.
		if conversations, listErr := client.ListConversations(cmd.Context(), session.Email); listErr == nil {
			cache := internal.NewCacheManager(cacheDir(cfg))
			if err := cache.SaveIndex(&internal.ConversationIndex{
				Server:        cfg.ServerURL,
				Email:         session.Email,
				Conversations: conversations,
			}); err != nil {
				internal.LogDebug("Failed to save conversation index: %v", err)
			}
		} else {
			internal.LogWarn("Failed to refresh conversations: %v", listErr)
		}

		fmt.Printf("Deleted conversation %s.\n", conversationID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(newCmd)
	rootCmd.AddCommand(deleteCmd)
}
