package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var indexesCmd = &cobra.Command{
	Use:   "indexes",
	Short: "Create the store indexes the consumer queries rely on",
	Long: `Indexes bootstraps the MongoDB indexes for unit identity, owner name,
contacts, registration date and municipality numbers. Safe to run
repeatedly; the import command also runs this before writing.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		st, closer, err := connectStore(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer closer()

		if err := st.EnsureIndexes(cmd.Context()); err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), "indexes ensured")
		return nil
	},
}
