package importer_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cragmatch/cragmatch/internal/catalog"
	"github.com/cragmatch/cragmatch/internal/importer"
)

const sampleCSV = `name,difficulty,style
Slab,Beginner,Sport
Crack,Advanced,Trad
Arete,Intermediate,Bouldering
`

func TestParseCSV(t *testing.T) {
	rows, rejects, err := importer.ParseCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	assert.Empty(t, rejects)

	assert.Equal(t, []catalog.Row{
		{Name: "Slab", Difficulty: catalog.Beginner, Style: catalog.Sport},
		{Name: "Crack", Difficulty: catalog.Advanced, Style: catalog.Trad},
		{Name: "Arete", Difficulty: catalog.Intermediate, Style: catalog.Bouldering},
	}, rows)
}

func TestParseCSV_RejectsBadRows(t *testing.T) {
	input := `name,difficulty,style
Slab,Beginner,Sport
Lonely,Beginner
Too,Many,Columns,Here
Roof,Advanced,Aid
Arete , Intermediate , Bouldering
Easy,beginner,Sport
`

	rows, rejects, err := importer.ParseCSV(strings.NewReader(input))
	require.NoError(t, err)

	require.Len(t, rows, 2)
	assert.Equal(t, "Slab", rows[0].Name)
	assert.Equal(t, catalog.Row{Name: "Arete", Difficulty: catalog.Intermediate, Style: catalog.Bouldering}, rows[1])

	require.Len(t, rejects, 4)
	assert.Equal(t, 3, rejects[0].Line)
	assert.ErrorIs(t, rejects[0], importer.ErrMalformedRow)
	assert.Equal(t, 4, rejects[1].Line)
	assert.ErrorIs(t, rejects[1], importer.ErrMalformedRow)
	assert.Equal(t, 5, rejects[2].Line)
	assert.ErrorIs(t, rejects[2], catalog.ErrUnknownCategory)
	assert.Equal(t, []string{"Roof", "Advanced", "Aid"}, rejects[2].Record)
	assert.Equal(t, 7, rejects[3].Line)
	assert.ErrorIs(t, rejects[3], catalog.ErrUnknownCategory)
}

func TestParseCSV_HeaderOnly(t *testing.T) {
	rows, rejects, err := importer.ParseCSV(strings.NewReader("name,difficulty,style\n"))
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.Empty(t, rejects)
}

func TestParseCSV_Empty(t *testing.T) {
	rows, rejects, err := importer.ParseCSV(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.Empty(t, rejects)
}

func TestParseCSV_QuotedName(t *testing.T) {
	input := "name,difficulty,style\n\"Slab, the long one\",Beginner,Sport\n"

	rows, _, err := importer.ParseCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Slab, the long one", rows[0].Name)
}

func TestParseCSV_MalformedHeader(t *testing.T) {
	_, _, err := importer.ParseCSV(strings.NewReader("\"name,difficulty,style\nSlab,Beginner,Sport\n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, importer.ErrMalformedHeader)
}

func TestImport_MalformedHeaderLeavesCatalog(t *testing.T) {
	repo := catalog.NewInMemoryRepository(catalog.Route{ID: 1, Name: "Old"})
	notifier := &recordingNotifier{}
	imp := importer.New(repo, notifier, zerolog.Nop())

	_, err := imp.Import(context.Background(), strings.NewReader("\"name,difficulty,style\n"))
	require.ErrorIs(t, err, importer.ErrMalformedHeader)

	routes, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, routes, 1)
	assert.Equal(t, "Old", routes[0].Name)
	assert.Empty(t, notifier.reports)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("disk gone")
}

func TestParseCSV_ReaderError(t *testing.T) {
	_, _, err := importer.ParseCSV(failingReader{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk gone")
}

type recordingNotifier struct {
	reports []*importer.Report
	err     error
}

func (n *recordingNotifier) CatalogChanged(_ context.Context, report *importer.Report) error {
	n.reports = append(n.reports, report)
	return n.err
}

type brokenStore struct {
	catalog.Repository
}

func (brokenStore) ReplaceAll(context.Context, []catalog.Row) (int, error) {
	return 0, errors.New("commit failed")
}

func TestImport(t *testing.T) {
	repo := catalog.NewInMemoryRepository(catalog.Route{ID: 99, Name: "Old"})
	notifier := &recordingNotifier{}
	imp := importer.New(repo, notifier, zerolog.Nop())

	report, err := imp.Import(context.Background(), strings.NewReader(sampleCSV+"Broken,Row\n"))
	require.NoError(t, err)

	assert.NotEmpty(t, report.BatchID)
	assert.Equal(t, 3, report.Imported)
	require.Len(t, report.Rejected, 1)
	assert.ErrorIs(t, report.Rejected[0], importer.ErrMalformedRow)

	routes, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, routes, 3)
	assert.Equal(t, int64(1), routes[0].ID)
	assert.Equal(t, "Slab", routes[0].Name)

	require.Len(t, notifier.reports, 1)
	assert.Equal(t, report.BatchID, notifier.reports[0].BatchID)
}

func TestImport_NotifierFailureDoesNotFailImport(t *testing.T) {
	notifier := &recordingNotifier{err: errors.New("broker down")}
	imp := importer.New(catalog.NewInMemoryRepository(), notifier, zerolog.Nop())

	report, err := imp.Import(context.Background(), strings.NewReader(sampleCSV))
	require.NoError(t, err)
	assert.Equal(t, 3, report.Imported)
}

func TestImport_StoreFailureAborts(t *testing.T) {
	notifier := &recordingNotifier{}
	imp := importer.New(brokenStore{}, notifier, zerolog.Nop())

	report, err := imp.Import(context.Background(), strings.NewReader(sampleCSV))
	assert.Nil(t, report)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "commit failed")
	assert.Empty(t, notifier.reports)
}

func TestImport_NilNotifier(t *testing.T) {
	imp := importer.New(catalog.NewInMemoryRepository(), nil, zerolog.Nop())

	report, err := imp.Import(context.Background(), strings.NewReader(sampleCSV))
	require.NoError(t, err)
	assert.Equal(t, 3, report.Imported)
}
