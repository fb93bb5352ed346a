// Package cmd implements the unitbook CLI commands.
package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/unitbook/unitbook/internal/config"
	"github.com/unitbook/unitbook/internal/mongodb"
	"github.com/unitbook/unitbook/pkg/logging"
)

// rootCmd is the base command for the unitbook CLI.
var rootCmd = &cobra.Command{
	Use:   "unitbook",
	Short: "Reconcile property spreadsheet exports into a unit record store",
	Long: `unitbook ingests heterogeneous spreadsheet exports describing real-estate
units and their registered owners, and reconciles them into a persistent
store of unit records, each carrying a historical list of ownership
entries. Re-importing the same data is idempotent.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(distinctCmd)
	rootCmd.AddCommand(indexesCmd)
}

// Execute runs the CLI with the given context.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// loadConfig reads configuration and applies the logging settings.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logging.SetLevel(cfg.LogLevel)
	if cfg.LogFormat == "json" {
		logging.SetDefault(logging.NewJSON(nil))
	}
	return cfg, nil
}

// connectStore dials the configured MongoDB store. The returned closer
// disconnects the client.
func connectStore(ctx context.Context, cfg *config.Config) (*mongodb.Store, func(), error) {
	if err := cfg.RequireMongo(); err != nil {
		return nil, nil, err
	}

	st, err := mongodb.Connect(ctx, cfg.MongoURI, cfg.Database, cfg.Collection)
	if err != nil {
		return nil, nil, err
	}

	closer := func() {
		if cerr := st.Close(context.Background()); cerr != nil {
			logging.Warn().Err(cerr).Msg("Failed to disconnect from store")
		}
	}
	return st, closer, nil
}
