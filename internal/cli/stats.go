package cli

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/cragmatch/cragmatch/internal/database"
	"github.com/cragmatch/cragmatch/internal/stats"
)

func newStatsCommand(a *app) *cobra.Command {
	var (
		minStyleCount int
		points        bool
	)

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print difficulty and style distributions of the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.load(cmd); err != nil {
				return err
			}
			ctx := cmd.Context()

			store, err := database.OpenCatalog(ctx, a.cfg.Database, a.logger)
			if err != nil {
				return err
			}
			defer store.Close()

			routes, err := store.Repository.List(ctx)
			if err != nil {
				return fmt.Errorf("failed to list catalog: %w", err)
			}

			if !cmd.Flags().Changed("min-style-count") {
				minStyleCount = a.cfg.Recommend.MinStyleCount
			}
			renderSummary(cmd.OutOrStdout(), stats.Summarize(routes, minStyleCount), points)
			return nil
		},
	}

	cmd.Flags().IntVar(&minStyleCount, "min-style-count", stats.DefaultMinStyleCount, "styles with fewer routes are grouped as Other")
	cmd.Flags().BoolVar(&points, "points", false, "also list every route's difficulty and style codes")

	return cmd
}

func renderSummary(w io.Writer, summary stats.Summary, points bool) {
	fmt.Fprintf(w, "%d routes\n", summary.Total)

	renderBuckets(w, "Difficulty", summary.Difficulties, summary.Total)
	renderBuckets(w, "Style", summary.Styles, summary.Total)

	if !points {
		return
	}
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Name", "Difficulty code", "Style code", "Style"})
	for _, p := range summary.Points {
		t.AppendRow(table.Row{p.Name, p.DifficultyCode, p.StyleCode, p.Style})
	}
	t.Render()
}

func renderBuckets(w io.Writer, title string, buckets []stats.Bucket, total int) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{title, "Routes", "Share"})
	for _, b := range buckets {
		share := 0.0
		if total > 0 {
			share = 100 * float64(b.Count) / float64(total)
		}
		t.AppendRow(table.Row{b.Label, b.Count, fmt.Sprintf("%.1f%%", share)})
	}
	t.AppendFooter(table.Row{"Total", total, ""})
	t.Render()
}
