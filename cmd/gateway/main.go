package main

import (
	"context"
	"fmt"
	"os"

	"github.com/kvothesson/chat-saas-gateway/internal/config"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "gateway",
	Short: "Grounded sales chat gateway",
	Long: "gateway answers customer chat messages with replies grounded on a merchant's " +
		"catalog, prices and policies. Without a subcommand it runs the HTTP server.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func main() {
	// --- Load .env file (for local development) ---
	if err := config.LoadDotEnv(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load .env: %v\n", err)
	}

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
