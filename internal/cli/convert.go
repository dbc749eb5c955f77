package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/flamegrid/flamegrid/internal/trace"
)

func init() {
	rootCmd.AddCommand(convertCmd)
}

var convertCmd = &cobra.Command{
	Use:   "convert <trace-file> <output.db>",
	Short: "Convert a capture file to a SQLite capture database",
	Long: `Load a capture file and write it back out as a SQLite capture
database. Useful for turning large JSON captures into a format the viewer
opens without a full parse.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		tr, err := trace.Load(ctx, args[0])
		if err != nil {
			return fmt.Errorf("failed to load trace: %w", err)
		}
		if err := trace.SaveSQLite(ctx, args[1], tr); err != nil {
			return fmt.Errorf("failed to write capture database: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "wrote %d events to %s\n", tr.EventCount, args[1])
		return nil
	},
}
