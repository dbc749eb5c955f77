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

var (
	inspectWidth  int
	inspectHeight int
	inspectZoom   float64
	inspectPan    float64
)

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().IntVar(&inspectWidth, "width", 1200, "display width in pixels")
	inspectCmd.Flags().IntVar(&inspectHeight, "height", 600, "display height in pixels")
	inspectCmd.Flags().Float64Var(&inspectZoom, "zoom", 0, "zoom in pixels per time unit (0 = fit trace)")
	inspectCmd.Flags().Float64Var(&inspectPan, "pan", 0, "horizontal offset in time units")
}

// inspectOutput is the JSON shape emitted by the inspect command.
type inspectOutput struct {
	WindowStartNs int64            `json:"window_start_ns"`
	WindowEndNs   int64            `json:"window_end_ns"`
	Zoom          float64          `json:"zoom"`
	Stats         flame.QueryStats `json:"stats"`
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <trace-file>",
	Short: "Run one viewport query and dump its statistics",
	Long: `Build the index, run a single culling query for the given viewport,
and print what the renderer would receive: how many events draw
individually and how many collapse into level-of-detail buckets.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		tr, err := trace.Load(context.Background(), args[0])
		if err != nil {
			return fmt.Errorf("failed to load trace: %w", err)
		}

		proj := flame.Project(tr)
		index := flame.NewIndex(proj, cfg.CategoryTable())
		culler := flame.NewCuller(index)

		vp := flame.NewViewport(tr.Start, tr.End, index.MaxDepth(), inspectWidth, inspectHeight, flame.ViewportOptions{
			MinTimePerPixel: cfg.Viewport.MinTimePerPixel,
			RowHeight:       cfg.Viewport.RowHeight,
			DepthPadding:    cfg.Viewport.DepthPadding,
		})
		if inspectZoom > 0 {
			vp.SetZoom(inspectZoom)
		}
		if inspectPan != 0 {
			vp.SetPan(inspectPan, 0)
		}

		result := culler.Query(vp)
		start, end := vp.TimeRange()
		out := inspectOutput{
			WindowStartNs: start,
			WindowEndNs:   end,
			Zoom:          vp.Zoom(),
			Stats:         result.Stats,
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	},
}
