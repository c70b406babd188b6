package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tverro/ragchat/internal"
)

var uploadConversationID string

// uploadCmd represents the upload command
var uploadCmd = &cobra.Command{
	Use:   "upload <file>",
	Short: "Upload a document for retrieval context",
	Long: `Upload a document the service will use as retrieval context.

Accepted types: .txt, .md, .pdf, .doc, .docx, up to 16MB. Validation happens
locally before anything is sent.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]

		if err := internal.ValidateUpload(path, ""); err != nil {
			return err
		}

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
		if err := client.UploadDocument(cmd.Context(), path, session.Email, uploadConversationID); err != nil {
			return fmt.Errorf("upload failed: %w", err)
		}

		fmt.Println("Document uploaded. You can now ask questions about it.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(uploadCmd)
	uploadCmd.Flags().StringVar(&uploadConversationID, "conversation", "", "Attach the document to a conversation")
}
