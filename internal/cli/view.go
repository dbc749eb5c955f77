package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/flamegrid/flamegrid/internal/trace"
	"github.com/flamegrid/flamegrid/internal/tui"
)

func init() {
	rootCmd.AddCommand(viewCmd)
}

var viewCmd = &cobra.Command{
	Use:   "view <trace-file>",
	Short: "Open a trace in the interactive viewer",
	Long: `Open a capture file (JSON tree or SQLite capture database) in the
terminal flame-chart viewer.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		tr, err := trace.Load(context.Background(), args[0])
		if err != nil {
			return fmt.Errorf("failed to load trace: %w", err)
		}
		if tr.EventCount == 0 {
			return fmt.Errorf("trace %s contains no renderable events", args[0])
		}

		return tui.Run(cfg, tr)
	},
}
