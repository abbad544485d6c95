package iostore_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/avharvest/avharvest/internal/iodb"
	"github.com/avharvest/avharvest/internal/ioschema"
	"github.com/avharvest/avharvest/internal/iostore"
	"github.com/avharvest/avharvest/internal/iotesting"
	"github.com/avharvest/avharvest/pkg/config"
	"github.com/avharvest/avharvest/pkg/harvest"
	"github.com/avharvest/avharvest/pkg/record"
	"github.com/gnames/gn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	urlA = "https://example.com/watch-abc-123"
	urlB = "https://example.com/watch-def-456"
	urlC = "https://example.com/watch-ghi-789"
)

func sqliteStore(t *testing.T) harvest.Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data", "avharvest.sqlite")
	s, err := iostore.NewSQLite(context.Background(), path, 2)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func pgStore(t *testing.T) harvest.Store {
	t.Helper()
	ctx := context.Background()
	op := iodb.NewPgxOperator()
	require.NoError(t, op.Connect(ctx, iotesting.GetTestDatabaseConfig()))
	require.NoError(t, op.DropTables(ctx, ioschema.TableNames()...))
	require.NoError(t, ioschema.NewManager(op).Create(ctx))

	s, err := iostore.NewPostgresWithOperator(ctx, op, 2)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLiteStore(t *testing.T) {
	runStoreTests(t, sqliteStore)
}

func TestPostgresStore(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	runStoreTests(t, pgStore)
}

func runStoreTests(t *testing.T, newStore func(*testing.T) harvest.Store) {
	tests := []struct {
		name string
		fn   func(*testing.T, harvest.Store)
	}{
		{"register keeps fields", testRegisterKeepsFields},
		{"backlog order", testBacklogOrder},
		{"update date", testUpdateDate},
		{"delete", testDelete},
		{"replace all", testReplaceAll},
		{"records by urls", testRecordsByURLs},
		{"collections are separate", testCollections},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.fn(t, newStore(t))
		})
	}
}

func fullRecord(url string, date time.Time) record.Record {
	return record.Record{
		URL:        url,
		Code:       record.Ptr("ABC-123"),
		SearchCode: record.Ptr("ABC-123"),
		Title:      record.Ptr("Some title"),
		Models:     record.Ptr("Jane Doe"),
		ImgURL:     record.Ptr("https://example.com/abc.jpg"),
		Count:      record.Ptr(42),
		Tags:       []string{"anal", "Unknown"},
		UpdateDate: &date,
	}
}

func testRegisterKeepsFields(t *testing.T, s harvest.Store) {
	ctx := context.Background()
	date := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	full := fullRecord(urlA, date)
	require.NoError(t, s.UpsertMany(ctx, []record.Record{full}, record.Updating))

	// registering the same URL again changes nothing
	require.NoError(t,
		s.UpsertMany(ctx, []record.Record{record.New(urlA)}, record.Updating))

	recs, err := s.RecordsByURLs(ctx, []string{urlA}, record.Updating)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	got := recs[0]
	assert.Equal(t, full.Code, got.Code)
	assert.Equal(t, full.Title, got.Title)
	assert.Equal(t, full.Models, got.Models)
	assert.Equal(t, full.Count, got.Count)
	assert.Equal(t, full.Tags, got.Tags)
	require.NotNil(t, got.UpdateDate)
	assert.True(t, date.Equal(*got.UpdateDate))

	// a refresh updates count and date only
	later := date.Add(96 * time.Hour)
	refresh := record.Record{
		URL:        urlA,
		Count:      record.Ptr(50),
		Tags:       []string{"anal"},
		UpdateDate: &later,
	}
	require.NoError(t,
		s.UpsertMany(ctx, []record.Record{refresh}, record.Updating))
	recs, err = s.RecordsByURLs(ctx, []string{urlA}, record.Updating)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, 50, *recs[0].Count)
	assert.Equal(t, []string{"anal"}, recs[0].Tags)
	assert.Equal(t, "Some title", *recs[0].Title)
	assert.True(t, later.Equal(*recs[0].UpdateDate))
}

func testBacklogOrder(t *testing.T, s harvest.Store) {
	ctx := context.Background()
	date := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	recs := []record.Record{
		record.New(urlC),
		fullRecord(urlB, date),
		record.New(urlA),
	}
	require.NoError(t, s.UpsertMany(ctx, recs, record.Updating))

	backlog, err := s.Backlog(ctx, record.Updating)
	require.NoError(t, err)
	require.Len(t, backlog, 2)
	assert.Equal(t, urlC, backlog[0].URL)
	assert.Equal(t, urlA, backlog[1].URL)
	assert.Nil(t, backlog[0].Count)
	assert.Nil(t, backlog[0].Tags)

	keys, err := s.URLKeys(ctx, record.Updating)
	require.NoError(t, err)
	assert.Equal(t, []string{urlC, urlB, urlA}, keys)
}

func testUpdateDate(t *testing.T, s harvest.Store) {
	ctx := context.Background()
	date := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	recs := []record.Record{record.New(urlA), fullRecord(urlB, date)}
	require.NoError(t, s.UpsertMany(ctx, recs, record.Updating))

	got, err := s.UpdateDate(ctx, urlA, record.Updating)
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = s.UpdateDate(ctx, urlB, record.Updating)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, date.Equal(*got))

	got, err = s.UpdateDate(ctx, urlC, record.Updating)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func testDelete(t *testing.T, s harvest.Store) {
	ctx := context.Background()
	require.NoError(t,
		s.UpsertMany(ctx, []record.Record{record.New(urlA)}, record.Updating))

	ok, err := s.Exists(ctx, urlA, record.Updating)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, s.Delete(ctx, urlA, record.Updating))
	ok, err = s.Exists(ctx, urlA, record.Updating)
	require.NoError(t, err)
	assert.False(t, ok)

	// absent URL
	assert.NoError(t, s.Delete(ctx, urlA, record.Updating))
}

func testReplaceAll(t *testing.T, s harvest.Store) {
	ctx := context.Background()
	date := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, s.ReplaceAll(ctx,
		[]record.Record{fullRecord(urlA, date), fullRecord(urlB, date)},
		record.Fresh))
	require.NoError(t, s.ReplaceAll(ctx,
		[]record.Record{fullRecord(urlC, date), fullRecord(urlC, date)},
		record.Fresh))

	keys, err := s.URLKeys(ctx, record.Fresh)
	require.NoError(t, err)
	assert.Equal(t, []string{urlC}, keys)

	require.NoError(t, s.ReplaceAll(ctx, nil, record.Fresh))
	keys, err = s.URLKeys(ctx, record.Fresh)
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func testRecordsByURLs(t *testing.T, s harvest.Store) {
	ctx := context.Background()
	date := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	recs := []record.Record{
		fullRecord(urlA, date), fullRecord(urlB, date), fullRecord(urlC, date),
	}
	require.NoError(t, s.UpsertMany(ctx, recs, record.Updating))

	got, err := s.RecordsByURLs(ctx,
		[]string{urlC, "https://example.com/unknown", urlA}, record.Updating)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, urlA, got[0].URL)
	assert.Equal(t, urlC, got[1].URL)

	got, err = s.RecordsByURLs(ctx, nil, record.Updating)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func testCollections(t *testing.T, s harvest.Store) {
	ctx := context.Background()
	require.NoError(t,
		s.UpsertMany(ctx, []record.Record{record.New(urlA)}, record.Canonical))

	ok, err := s.Exists(ctx, urlA, record.Canonical)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.Exists(ctx, urlA, record.Updating)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNew_UnknownDriver(t *testing.T) {
	cfg := config.New()
	cfg.Database.Driver = "mongo"
	_, err := iostore.New(context.Background(), cfg)
	require.Error(t, err)

	var gnErr *gn.Error
	require.ErrorAs(t, err, &gnErr)
	assert.Contains(t, gnErr.Msg, "Unknown database driver")
}

func TestNew_SQLite(t *testing.T) {
	cfg := config.New()
	cfg.HomeDir = t.TempDir()
	cfg.Database.Path = filepath.Join(cfg.HomeDir, "test.sqlite")

	s, err := iostore.New(context.Background(), cfg)
	require.NoError(t, err)
	assert.NoError(t, s.Close())
}

func TestCreateSQLite(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "avharvest.sqlite")

	s, err := iostore.NewSQLite(ctx, path, 0)
	require.NoError(t, err)
	require.NoError(t,
		s.UpsertMany(ctx, []record.Record{record.New(urlA)}, record.Canonical))
	require.NoError(t, s.Close())

	require.NoError(t, iostore.CreateSQLite(ctx, path))

	s, err = iostore.NewSQLite(ctx, path, 0)
	require.NoError(t, err)
	defer s.Close()
	keys, err := s.URLKeys(ctx, record.Canonical)
	require.NoError(t, err)
	assert.Empty(t, keys)
}
