package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/tverro/ragchat/internal"
)

var (
	verbose   bool
	serverURL string
	version   string = "dev"
	commit    string = "unknown"
	date      string = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ragchat",
	Short: "Chat with a retrieval-augmented answering service",
	Long: `A terminal client for a retrieval-augmented answering service.

ragchat signs you in with an email address, keeps your conversations on the
server, and renders each answer according to how it was produced: website
and video summaries, document summaries, plain web search results, or full
retrieval-augmented answers with supporting context.

Quick Start:
  ragchat login you@example.com     # Sign in (persisted locally)
  ragchat chat                      # Start an interactive chat
  ragchat list                      # List your conversations
  ragchat show <conversation-id>    # Replay a conversation
  ragchat export <conversation-id> --format md

The server address comes from --server or the RAGCHAT_SERVER environment
variable (default http://localhost:8080).`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		internal.SetVerbose(verbose)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "Answering service base URL (overrides RAGCHAT_SERVER)")

	// Set version template to ensure --version flag works
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}

// loadConfig loads the environment configuration and applies flag
// overrides.
func loadConfig() (*internal.Config, error) {
	cfg, err := internal.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if serverURL != "" {
		cfg.ServerURL = serverURL
	}
	return cfg, nil
}

// cacheDir returns the conversation cache directory, a sibling of the
// state store.
func cacheDir(cfg *internal.Config) string {
	return filepath.Join(filepath.Dir(cfg.StatePath), "cache")
}

// requireSession loads the persisted session and fails when signed out.
// The returned store is open; the caller closes it.
func requireSession(cfg *internal.Config) (*internal.StateStore, internal.Session, error) {
	store, err := internal.OpenStateStore(cfg.StatePath)
	if err != nil {
		return nil, internal.Session{}, fmt.Errorf("failed to open state store: %w", err)
	}

	session, err := internal.LoadSession(store)
	if err != nil {
		store.Close()
		return nil, internal.Session{}, fmt.Errorf("failed to load session: %w", err)
	}
	if !session.SignedIn() {
		store.Close()
		return nil, internal.Session{}, fmt.Errorf("not signed in, run `ragchat login <email>` first")
	}
	return store, session, nil
}
