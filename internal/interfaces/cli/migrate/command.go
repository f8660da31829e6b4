package migrate

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hoanghoa12345/stash-box/internal/infrastructure/config"
	"github.com/hoanghoa12345/stash-box/internal/infrastructure/database"
	"github.com/hoanghoa12345/stash-box/internal/shared/logger"
)

var env string

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		RunE:  run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logger); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := database.Init(&cfg.Database); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	if err := database.AutoMigrate(); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	logger.Info("migration completed", "environment", env)
	return nil
}
