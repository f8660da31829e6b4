package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/hoanghoa12345/stash-box/internal/interfaces/cli/migrate"
	"github.com/hoanghoa12345/stash-box/internal/interfaces/cli/server"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "stash-box",
		Short: "stash-box - bookmark and notes organizer backend",
		Long:  `stash-box is the backend for a personal bookmark and notes organizer, including its OAuth login and session service.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
