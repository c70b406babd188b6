package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tverro/ragchat/internal"
)

// loginCmd represents the login command
var loginCmd = &cobra.Command{
	Use:   "login <email>",
	Short: "Sign in with an email address",
	Long: `Sign in with an email address.

The address is the identity the service keys your conversations on. It is
stored locally so the session resumes automatically on the next run.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		email := args[0]
		if !internal.ValidEmail(email) {
			return fmt.Errorf("please enter a valid email address")
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		store, err := internal.OpenStateStore(cfg.StatePath)
		if err != nil {
			return fmt.Errorf("failed to open state store: %w", err)
		}
		defer store.Close()

		if err := internal.SaveSession(store, internal.Session{Email: email}); err != nil {
			return fmt.Errorf("failed to save session: %w", err)
		}

		fmt.Printf("Signed in as %s.\n", email)
		return nil
	},
}

// logoutCmd represents the logout command
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out",
	Long:  `Sign out by removing the locally stored identity.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		store, err := internal.OpenStateStore(cfg.StatePath)
		if err != nil {
			return fmt.Errorf("failed to open state store: %w", err)
		}
		defer store.Close()

		if err := internal.ClearSession(store); err != nil {
			return fmt.Errorf("failed to clear session: %w", err)
		}

		fmt.Println("Signed out.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
}
