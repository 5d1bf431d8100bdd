package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/cragmatch/cragmatch/internal/database"
	"github.com/cragmatch/cragmatch/internal/recommend"
)

func newRecommendCommand(a *app) *cobra.Command {
	var (
		query recommend.Query
		count int
		seed  int64
	)

	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Recommend routes for a skill level and preferred style",
		Example: `  cragmatch recommend --skill Intermediate --style Bouldering
  cragmatch recommend --skill Advanced --style Trad --count 3 --seed 42`,
		Args: cobra.NoArgs,
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

			opts := []recommend.Option{recommend.WithDefaultCount(a.cfg.Recommend.Count)}
			switch {
			case seed != 0:
				opts = append(opts, recommend.WithSeed(seed))
			case a.cfg.Recommend.Seed != 0:
				opts = append(opts, recommend.WithSeed(a.cfg.Recommend.Seed))
			}

			selector := recommend.NewSelector(store.Repository, a.logger, opts...)
			if err := selector.Retrain(ctx); err != nil {
				if errors.Is(err, recommend.ErrEmptyCatalog) {
					return errors.New("catalog is empty; run 'cragmatch import' first")
				}
				return err
			}

			result, err := selector.Recommend(ctx, query, count)
			if err != nil {
				return err
			}

			renderRecommendation(cmd.OutOrStdout(), result)
			return nil
		},
	}

	cmd.Flags().StringVar(&query.SkillLevel, "skill", "", "skill level (Beginner, Intermediate, Advanced)")
	cmd.Flags().StringVar(&query.PreferredStyle, "style", "", "preferred style (Sport, Bouldering, Trad)")
	cmd.Flags().IntVar(&count, "count", 0, "number of routes (default from config)")
	cmd.Flags().Int64Var(&seed, "seed", 0, "seed for the random supplement")
	_ = cmd.MarkFlagRequired("skill")
	_ = cmd.MarkFlagRequired("style")

	return cmd
}

func renderRecommendation(w io.Writer, result *recommend.Result) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "ID", "Name", "Difficulty", "Style", "Pick"})
	for i, r := range result.Routes {
		pick := "random"
		if i < result.Matched {
			pick = "predicted"
		}
		t.AppendRow(table.Row{i + 1, r.ID, r.Name, r.Difficulty, r.Style, pick})
	}
	t.Render()

	for _, warning := range result.Warnings {
		fmt.Fprintf(w, "warning: %v\n", warning)
	}
}
