package importer

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/cragmatch/cragmatch/internal/catalog"
)

// Report summarizes one import batch.
type Report struct {
	BatchID  string
	Imported int
	Rejected []RowError
	Duration time.Duration
}

// Notifier is told about every successful import.
type Notifier interface {
	CatalogChanged(ctx context.Context, report *Report) error
}

// Importer replaces the catalog with the contents of a CSV file.
type Importer struct {
	repo     catalog.Repository
	notifier Notifier
	logger   zerolog.Logger
}

// New creates an importer. notifier may be nil.
func New(repo catalog.Repository, notifier Notifier, logger zerolog.Logger) *Importer {
	return &Importer{
		repo:     repo,
		notifier: notifier,
		logger:   logger.With().Str("component", "importer").Logger(),
	}
}

// Import parses r and clears-and-replaces the catalog with the valid rows.
// Rejected rows are logged and skipped. Store failures abort the batch.
func (i *Importer) Import(ctx context.Context, r io.Reader) (*Report, error) {
	start := time.Now()
	report := &Report{BatchID: uuid.New().String()}
	logger := i.logger.With().Str("batch_id", report.BatchID).Logger()

	rows, rejects, err := ParseCSV(r)
	if err != nil {
		return nil, fmt.Errorf("parse import: %w", err)
	}

	for _, rej := range rejects {
		logger.Warn().
			Int("line", rej.Line).
			Strs("record", rej.Record).
			Err(rej.Err).
			Msg("skipping import row")
	}
	report.Rejected = rejects

	n, err := i.repo.ReplaceAll(ctx, rows)
	if err != nil {
		return nil, fmt.Errorf("replace catalog: %w", err)
	}
	report.Imported = n
	report.Duration = time.Since(start)

	logger.Info().
		Int("imported", report.Imported).
		Int("rejected", len(report.Rejected)).
		Dur("duration", report.Duration).
		Msg("catalog imported")

	if i.notifier != nil {
		if err := i.notifier.CatalogChanged(ctx, report); err != nil {
			logger.Warn().Err(err).Msg("failed to announce catalog change")
		}
	}

	return report, nil
}
