package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/cleaning-rota/cmd/cli/commands"
	"github.com/jakechorley/cleaning-rota/internal/config"
	"github.com/jakechorley/cleaning-rota/pkg/boltdb"
	"github.com/jakechorley/cleaning-rota/pkg/db"
	"github.com/jakechorley/cleaning-rota/pkg/postgres"
	"github.com/jakechorley/cleaning-rota/pkg/utils/logging"
)

var (
	env string
	app = &commands.AppContext{}
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "cli",
		Short: "Cleaning rota CLI - Generate monthly cleaning schedules",
		Long:  `A CLI tool for keeping the cleaning roster and generating, viewing and publishing monthly cleaning schedules.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app.Database != nil {
				if err := app.Database.Close(); err != nil {
					app.Logger.Warn("Failed to close database", zap.Error(err))
				}
			}
			if app.Logger != nil {
				app.Logger.Sync()
			}
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment (required: test, prod, etc.)")
	rootCmd.MarkPersistentFlagRequired("env")

	rootCmd.AddCommand(commands.GenerateScheduleCmd(app))
	rootCmd.AddCommand(commands.ViewScheduleCmd(app))
	rootCmd.AddCommand(commands.PublishScheduleCmd(app))
	rootCmd.AddCommand(commands.ListMembersCmd(app))
	rootCmd.AddCommand(commands.AddMemberCmd(app))
	rootCmd.AddCommand(commands.RemoveMemberCmd(app))
	rootCmd.AddCommand(commands.ImportMembersCmd(app))
	rootCmd.AddCommand(commands.LogoutCmd(app))
	rootCmd.AddCommand(commands.InteractiveCmd(app))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initApp sets up logger, config and database
func initApp() error {
	var err error
	app.Env = env
	app.Ctx = context.Background()

	app.Logger, err = logging.InitLogger(env, logging.DefaultDir)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.Logger.Info("Starting application", zap.String("environment", env))

	app.Logger.Info("Loading configuration")
	app.Cfg, err = config.LoadWithEnv(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	app.Logger.Debug("Configuration loaded successfully",
		zap.Strings("eligible_weekdays", app.Cfg.EligibleWeekdays),
		zap.String("driver", app.Cfg.Database.Driver))

	app.Database, err = openDatabase(app.Ctx, app.Cfg.Database, app.Logger)
	if err != nil {
		return err
	}
	app.Logger.Info("Database initialized successfully")

	return nil
}

// openDatabase connects to the configured store, migrating postgres on the way
func openDatabase(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (db.Database, error) {
	switch cfg.Driver {
	case config.DriverBolt:
		logger.Info("Opening bolt database", zap.String("path", cfg.Path))
		store, err := boltdb.Open(cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open bolt database: %w", err)
		}
		return store, nil

	case config.DriverPostgres:
		logger.Info("Connecting to postgres")
		store, err := postgres.NewDB(ctx, cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := store.RunMigrations(ctx, logger); err != nil {
			store.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		return store, nil

	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}
