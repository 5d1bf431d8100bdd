package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/cragmatch/cragmatch/internal/database"
	"github.com/cragmatch/cragmatch/internal/events"
	"github.com/cragmatch/cragmatch/internal/importer"
)

func newImportCommand(a *app) *cobra.Command {
	var noPublish bool

	cmd := &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Replace the catalog with the routes in a CSV file",
		Long: `Clear the catalog and load every valid row of a name,difficulty,style CSV file.
Invalid rows are reported and skipped. When Pub/Sub is enabled, running API
instances are told to retrain.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.load(cmd); err != nil {
				return err
			}
			ctx := cmd.Context()

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open catalog file: %w", err)
			}
			defer f.Close()

			store, err := database.OpenCatalog(ctx, a.cfg.Database, a.logger)
			if err != nil {
				return err
			}
			defer store.Close()

			var notifier importer.Notifier
			if a.cfg.PubSub.Enabled && !noPublish {
				publisher, err := events.NewPublisher(ctx, events.PublisherConfig{
					ProjectID: a.cfg.PubSub.ProjectID,
					Topic:     a.cfg.PubSub.Topic,
					Logger:    a.logger,
				})
				if err != nil {
					return err
				}
				defer func() { _ = publisher.Close() }()
				notifier = publisher
			}

			report, err := importer.New(store.Repository, notifier, a.logger).Import(ctx, f)
			if err != nil {
				return err
			}

			renderImportReport(cmd.OutOrStdout(), report)
			return nil
		},
	}

	cmd.Flags().BoolVar(&noPublish, "no-publish", false, "do not announce the change over Pub/Sub")
	return cmd
}

func renderImportReport(w io.Writer, report *importer.Report) {
	fmt.Fprintf(w, "Imported %d routes (batch %s) in %s\n", report.Imported, report.BatchID, report.Duration.Round(time.Millisecond))
	if len(report.Rejected) == 0 {
		return
	}

	fmt.Fprintf(w, "Skipped %d rows:\n", len(report.Rejected))
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Line", "Record", "Reason"})
	for _, rej := range report.Rejected {
		t.AppendRow(table.Row{rej.Line, strings.Join(rej.Record, ","), rej.Err.Error()})
	}
	t.Render()
}
