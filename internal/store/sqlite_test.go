package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/lead-enricher/internal/model"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	st, err := NewSQLite(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

// --- Search Cache ---

func TestSQLite_SearchCache_SetAndGet(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	key := SearchKey(`"Reha360"`, "Germany", "de", 10)
	require.NoError(t, st.SetCachedSearch(ctx, key, []byte(`[{"url":"https://reha360.de/"}]`), time.Hour))

	data, err := st.GetCachedSearch(ctx, key)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"url":"https://reha360.de/"}]`, string(data))
}

func TestSQLite_SearchCache_Overwrite(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	require.NoError(t, st.SetCachedSearch(ctx, "k", []byte("old"), time.Hour))
	require.NoError(t, st.SetCachedSearch(ctx, "k", []byte("new"), time.Hour))

	data, err := st.GetCachedSearch(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
}

func TestSQLite_SearchCache_Missing(t *testing.T) {
	st := newTestSQLiteStore(t)

	data, err := st.GetCachedSearch(context.Background(), "nonexistent")
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestSQLite_SearchCache_Expired(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	require.NoError(t, st.SetCachedSearch(ctx, "expired", []byte("old data"), -time.Hour))

	data, err := st.GetCachedSearch(ctx, "expired")
	require.NoError(t, err)
	assert.Nil(t, data)
}

// --- Scrape Cache ---

func TestSQLite_ScrapeCache_SetAndGet(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	key := ScrapeKey("https://www.linkedin.com/company/reha360")
	require.NoError(t, st.SetCachedScrape(ctx, key, []byte("<html></html>"), time.Hour))

	data, err := st.GetCachedScrape(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "<html></html>", string(data))

	other, err := st.GetCachedSearch(ctx, key)
	require.NoError(t, err)
	assert.Nil(t, other)
}

func TestSQLite_DeleteExpired(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	require.NoError(t, st.SetCachedSearch(ctx, "a", []byte("1"), -time.Hour))
	require.NoError(t, st.SetCachedSearch(ctx, "b", []byte("2"), time.Hour))
	require.NoError(t, st.SetCachedScrape(ctx, "c", []byte("3"), -time.Minute))

	n, err := st.DeleteExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	data, err := st.GetCachedSearch(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, "2", string(data))
}

// --- Runs ---

func TestSQLite_Runs_Lifecycle(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	run, err := st.CreateRun(ctx, "leads.tsv")
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, model.RunStatusRunning, run.Status)

	summary := &model.RunSummary{RunID: run.ID, Total: 3, HighConfidence: 2, ReviewNeeded: 1}
	require.NoError(t, st.FinishRun(ctx, run.ID, summary, nil))

	runs, err := st.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, model.RunStatusComplete, runs[0].Status)
	assert.Equal(t, "leads.tsv", runs[0].Input)
	require.NotNil(t, runs[0].Summary)
	assert.Equal(t, 3, runs[0].Summary.Total)
	assert.Empty(t, runs[0].Error)
}

func TestSQLite_Runs_Failed(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	run, err := st.CreateRun(ctx, "missing.tsv")
	require.NoError(t, err)
	require.NoError(t, st.FinishRun(ctx, run.ID, nil, errors.New("input not found")))

	runs, err := st.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, model.RunStatusFailed, runs[0].Status)
	assert.Equal(t, "input not found", runs[0].Error)
	assert.Nil(t, runs[0].Summary)
}

func TestSQLite_FinishRun_NotFound(t *testing.T) {
	st := newTestSQLiteStore(t)

	err := st.FinishRun(context.Background(), "nope", nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run not found")
}

func TestSQLite_ListRuns_Limit(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	for _, in := range []string{"a.tsv", "b.tsv", "c.tsv"} {
		_, err := st.CreateRun(ctx, in)
		require.NoError(t, err)
	}

	runs, err := st.ListRuns(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "c.tsv", runs[0].Input)
}
