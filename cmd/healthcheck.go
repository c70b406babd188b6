package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/tverro/ragchat/internal"
)

var (
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	failureStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))
)

// healthcheckCmd represents the healthcheck command
var healthcheckCmd = &cobra.Command{
	Use:   "healthcheck",
	Short: "Check connectivity to the answering service",
	Long: `Check whether ragchat can reach the answering service by:
  • Resolving the configured server address
  • Probing the service health endpoint
  • Verifying the local state store opens

Useful for debugging connection issues before starting a chat.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		fmt.Println(infoStyle.Render("Server: " + cfg.ServerURL))

		client := internal.NewClient(cfg)
		if err := client.Health(cmd.Context()); err != nil {
			fmt.Println(failureStyle.Render("Service unreachable:"), err)
			os.Exit(1)
		}
		fmt.Println(successStyle.Render("Service reachable"))

		store, err := internal.OpenStateStore(cfg.StatePath)
		if err != nil {
			fmt.Println(failureStyle.Render("Local state store failed:"), err)
			os.Exit(1)
		}
		defer store.Close()

		session, err := internal.LoadSession(store)
		if err != nil {
			fmt.Println(failureStyle.Render("Failed to read session:"), err)
			os.Exit(1)
		}
		if session.SignedIn() {
			fmt.Println(successStyle.Render("Signed in as " + session.Email))
		} else {
			fmt.Println(infoStyle.Render("Not signed in (run `ragchat login <email>`)"))
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(healthcheckCmd)
}
