// Package cli provides the command-line interface for ideaforge.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ideaforge/ideaforge/internal/config"
	"github.com/ideaforge/ideaforge/internal/db"
)

var (
	// Version is set at build time.
	Version = "0.1.0"

	// Global flags
	verbose bool

	// Global config, logger, and optional audit store
	cfg      config.Config
	logger   *slog.Logger
	logClose func() error
	dbClient *db.Client
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "ideaforge",
	Short: "Autonomous product R&D pipeline",
	Long: `Ideaforge runs a staged product R&D pipeline: one model generates
product ideas, an independent model judges them against per-phase
quality gates, and a safety monitor enforces budget and loop limits
over the whole run.

Failed concepts are archived with their failure context, and the
lessons learned feed back into later sessions.`,
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}

		cfg = config.Load()

		level := cfg.LogLevel
		if verbose {
			level = slog.LevelDebug
		}
		logger, logClose = config.SetupLogger(cfg.LogFile, level)
		slog.SetDefault(logger)

		// The audit store is optional: no URL, no persistence.
		if cfg.SurrealDBURL != "" {
			ctx := context.Background()
			var err error
			dbClient, err = db.NewClient(ctx, db.Config{
				URL:       cfg.SurrealDBURL,
				Namespace: cfg.SurrealDBNamespace,
				Database:  cfg.SurrealDBDatabase,
				Username:  cfg.SurrealDBUser,
				Password:  cfg.SurrealDBPass,
				AuthLevel: cfg.SurrealDBAuthLevel,
			}, logger)
			if err != nil {
				return fmt.Errorf("connect to audit store: %w", err)
			}
			if err := dbClient.InitSchema(ctx); err != nil {
				return fmt.Errorf("initialize schema: %w", err)
			}
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if dbClient != nil {
			if err := dbClient.Close(context.Background()); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to close audit store: %v\n", err)
			}
		}
		if logClose != nil {
			_ = logClose()
		}
	},
}

// requireDB guards commands that only make sense with persistence.
func requireDB() error {
	if dbClient == nil {
		return fmt.Errorf("audit store not configured: set SURREALDB_URL")
	}
	return nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(debateCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(trendsCmd)
	rootCmd.AddCommand(costsCmd)
	rootCmd.AddCommand(eventsCmd)
	rootCmd.AddCommand(graveyardCmd)
	rootCmd.AddCommand(lessonsCmd)
}
