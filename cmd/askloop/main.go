package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/askloop/askloop/cmd/askloop/cmd"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "askloop",
		Short: "Client for the askloop video Q&A service",
	}

	rootCmd.PersistentFlags().StringVar(&cmd.ServerURL, "server", envOr("SERVER_URL", "http://localhost:8090"), "askloop server base URL")

	rootCmd.AddCommand(cmd.AskCmd())
	rootCmd.AddCommand(cmd.WatchCmd())
	rootCmd.AddCommand(cmd.SearchCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
