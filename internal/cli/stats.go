package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/flamegrid/flamegrid/internal/flame"
	"github.com/flamegrid/flamegrid/internal/trace"
)

var statsDensityBuckets int

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().IntVar(&statsDensityBuckets, "density-buckets", 120, "overview bucket count")
}

// traceStats is the JSON shape emitted by the stats command.
type traceStats struct {
	TraceID    string `json:"trace_id"`
	Name       string `json:"name"`
	Events     int    `json:"events"`
	Rects      int    `json:"rects"`
	MaxDepth   int    `json:"max_depth"`
	DurationNs int64  `json:"duration_ns"`

	OverviewMaxDepth int `json:"overview_max_depth"`
	OverviewMaxCount int `json:"overview_max_count"`
}

var statsCmd = &cobra.Command{
	Use:   "stats <trace-file>",
	Short: "Build the index and print trace statistics as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		tr, err := trace.Load(context.Background(), args[0])
		if err != nil {
			return fmt.Errorf("failed to load trace: %w", err)
		}

		proj := flame.Project(tr)
		index := flame.NewIndex(proj, cfg.CategoryTable())

		var comp flame.Computer
		if cfg.Density.Strategy == "direct" {
			comp = flame.NewDirectDensity(proj, index.Table())
		} else {
			comp = flame.NewSweepDensity(index)
		}
		overview, err := flame.NewDensity(comp).Buckets(statsDensityBuckets)
		if err != nil {
			return err
		}

		out := traceStats{
			TraceID:          tr.ID,
			Name:             tr.Name,
			Events:           tr.EventCount,
			Rects:            proj.Total,
			MaxDepth:         tr.MaxDepth,
			DurationNs:       tr.Duration(),
			OverviewMaxDepth: overview.MaxDepth,
			OverviewMaxCount: overview.MaxCount,
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	},
}
