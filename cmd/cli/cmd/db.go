// Package cmd - database commands
package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"commodity-price/internal/database"
	"commodity-price/internal/logging"
)

var dbTimeout time.Duration

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Database connection management",
}

var dbPingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Open the connection pool, ping the database and close it",
	Long: `Bootstrap the connection pool from DATABASE_* settings, check a connection
can be used, then close the pool.

The price lookup never reads from the database.`,
	Args: cobra.NoArgs,
	RunE: runDBPing,
}

func init() {
	dbCmd.AddCommand(dbPingCmd)
	dbPingCmd.Flags().DurationVar(&dbTimeout, "timeout", 10*time.Second, "timeout for the ping")
}

func runDBPing(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(nil)
	if err != nil {
		return err
	}
	defer logging.Sync()

	ctx, cancel := context.WithTimeout(cmd.Context(), dbTimeout)
	defer cancel()

	manager, err := database.Start(ctx, cfg.Database, logging.Logger)
	if errors.Is(err, database.ErrInactive) {
		logging.Warn("database is not active")
		return fmt.Errorf("%w: set DATABASE_ACTIVE=true to enable it", err)
	}
	if err != nil {
		return err
	}
	defer manager.Close()

	if err := manager.Ping(ctx); err != nil {
		return err
	}

	logging.Info("database reachable", zap.String("stats", manager.Stats()))
	fmt.Fprintf(cmd.OutOrStdout(), "✓ database reachable (%s)\n", manager.Stats())
	return nil
}
