package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/tverro/ragchat/internal"
	"github.com/tverro/ragchat/internal/export"
)

var (
	format    string
	outputDir string
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export <conversation-id>",
	Short: "Export a conversation to file",
	Long: `Export a conversation to various formats (jsonl, md, yaml, json).

Use 'ragchat list' to see available conversation ids. The export contains
the normalized messages, so modes and sources survive the round trip.`,
	Args: cobra.ExactArgs(1),
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

		exporter, err := export.NewExporter(format)
		if err != nil {
			return err
		}

		client := internal.NewClient(cfg)
		records, err := client.ListMessages(cmd.Context(), conversationID)
		if err != nil {
			return fmt.Errorf("failed to load conversation %s: %w", conversationID, err)
		}

		// Pull the summary row from the listing for the export header;
		// missing is fine, the transcript then carries just the id.
		conversation := internal.Conversation{ID: conversationID}
		if conversations, listErr := client.ListConversations(cmd.Context(), session.Email); listErr == nil {
			for _, conv := range conversations {
				if conv.ID == conversationID {
					conversation = conv
					break
				}
			}
		} else {
			internal.LogWarn("Failed to load conversation listing: %v", listErr)
		}

		transcript := &internal.Transcript{
			Conversation: conversation,
			Messages:     internal.NewNormalizer().NormalizeAll(records),
			ExportedAt:   time.Now().UTC().Format(time.RFC3339),
		}

		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}

		outPath := filepath.Join(outputDir, fmt.Sprintf("conversation_%s.%s", conversationID, exporter.Extension()))
		file, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer file.Close()

		if err := exporter.Export(transcript, file); err != nil {
			return fmt.Errorf("export failed: %w", err)
		}

		fmt.Printf("Exported %d message(s) to %s\n", len(transcript.Messages), outPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&format, "format", "f", "json", "Export format (jsonl, md, yaml, json)")
	exportCmd.Flags().StringVarP(&outputDir, "output", "o", ".", "Output directory")
}
