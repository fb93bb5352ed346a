package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/unitbook/unitbook/pkg/errors"
	"github.com/unitbook/unitbook/pkg/fields"
	"github.com/unitbook/unitbook/pkg/reconciler"
	"github.com/unitbook/unitbook/pkg/sources"
	"github.com/unitbook/unitbook/pkg/store"
)

var (
	importDryRun    bool
	importAliasFile string
	importCSVDelim  string
)

var importCmd = &cobra.Command{
	Use:   "import <file>...",
	Short: "Import spreadsheet exports into the record store",
	Long: `Import reads one or more spreadsheet exports (.xlsx workbooks or .csv
files), concatenates their rows into one logical table, and reconciles
each row into the unit record store. Rows missing building, unit number
or owner name are skipped; re-importing the same rows changes nothing.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "classify and count rows without writing to the store")
	importCmd.Flags().StringVar(&importAliasFile, "aliases", "", "YAML file overlaying the built-in header alias table")
	importCmd.Flags().StringVar(&importCSVDelim, "csv-delim", ",", "delimiter for .csv inputs")
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// The store: MongoDB when configured, in-memory for offline dry runs.
	var st store.Store
	if importDryRun && cfg.MongoURI == "" {
		st = store.NewMemory()
	} else {
		mongoStore, closer, err := connectStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer closer()

		if !importDryRun {
			if err := mongoStore.EnsureIndexes(ctx); err != nil {
				return err
			}
		}
		st = mongoStore
	}

	opts := []reconciler.Option{reconciler.WithDryRun(importDryRun)}
	if aliasFile := firstNonEmpty(importAliasFile, cfg.AliasFile); aliasFile != "" {
		aliases, err := fields.LoadAliases(aliasFile)
		if err != nil {
			return err
		}
		opts = append(opts, reconciler.WithAliases(aliases))
	}

	engine, err := reconciler.New(st, opts...)
	if err != nil {
		return err
	}

	src, err := buildSource(args)
	if err != nil {
		return err
	}

	result, runErr := engine.Run(ctx, src)
	if runErr != nil {
		// Partial progress stays committed; say so instead of failing
		// silently.
		fmt.Fprintln(cmd.OutOrStdout(), result.Summary())
		fmt.Fprintln(cmd.OutOrStdout(), "IMPORT ABORTED: progress above is committed, the remaining rows were not processed")
		return runErr
	}

	fmt.Fprintln(cmd.OutOrStdout(), result.Summary())
	return nil
}

// buildSource maps input paths onto sources by extension.
func buildSource(paths []string) (sources.Source, error) {
	delim := ','
	if importCSVDelim != "" {
		runes := []rune(importCSVDelim)
		if len(runes) != 1 {
			return nil, errors.NewValidationError("csv-delim", importCSVDelim, "must be a single character")
		}
		delim = runes[0]
	}

	srcs := make([]sources.Source, 0, len(paths))
	for _, path := range paths {
		switch {
		case strings.HasSuffix(strings.ToLower(path), ".csv"):
			srcs = append(srcs, sources.NewCSV(path, delim))
		default:
			srcs = append(srcs, sources.NewExcel(path))
		}
	}

	if len(srcs) == 1 {
		return srcs[0], nil
	}
	return sources.NewMulti(srcs...), nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
