package storage

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alejandrodnm/dailyideas/internal/ports"
)

func testStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveRunAndRecentRuns(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	older := ports.RunRecord{
		ID:        uuid.NewString(),
		Kind:      "collect",
		StartedAt: time.Date(2025, 7, 14, 6, 0, 0, 0, time.UTC),
		Duration:  90 * time.Second,
		Items:     120,
		Failures:  3,
	}
	newer := ports.RunRecord{
		ID:        uuid.NewString(),
		Kind:      "analyze",
		StartedAt: time.Date(2025, 7, 15, 6, 0, 0, 0, time.UTC),
		Duration:  2 * time.Second,
		Items:     9,
	}
	require.NoError(t, s.SaveRun(ctx, older))
	require.NoError(t, s.SaveRun(ctx, newer))

	runs, err := s.RecentRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	assert.Equal(t, "analyze", runs[0].Kind)
	assert.Equal(t, "collect", runs[1].Kind)
	assert.Equal(t, 90*time.Second, runs[1].Duration)
	assert.Equal(t, 3, runs[1].Failures)
}

func TestSaveIdeas_UpsertReplacesSameDay(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	first := []ports.IdeaRecord{
		{Date: "2025-07-15", Seq: 0, Title: "Momentum: AAPL", Type: "Stock Momentum", Asset: "AAPL", RiskLevel: "Medium"},
	}
	require.NoError(t, s.SaveIdeas(ctx, first))

	// Reanálisis del mismo día: misma posición, idea distinta.
	second := []ports.IdeaRecord{
		{Date: "2025-07-15", Seq: 0, Title: "Momentum: MSFT", Type: "Stock Momentum", Asset: "MSFT", RiskLevel: "Medium"},
	}
	require.NoError(t, s.SaveIdeas(ctx, second))

	var count int
	var asset string
	row := s.db.QueryRowContext(ctx, `SELECT COUNT(*), MAX(asset) FROM ideas WHERE date = '2025-07-15'`)
	require.NoError(t, row.Scan(&count, &asset))
	assert.Equal(t, 1, count)
	assert.Equal(t, "MSFT", asset)
}

func TestSaveIdeas_Empty(t *testing.T) {
	s := testStore(t)
	assert.NoError(t, s.SaveIdeas(context.Background(), nil))
}

func TestPruneOlderThan(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	old := ports.RunRecord{ID: uuid.NewString(), Kind: "collect", StartedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	recent := ports.RunRecord{ID: uuid.NewString(), Kind: "collect", StartedAt: time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC)}
	require.NoError(t, s.SaveRun(ctx, old))
	require.NoError(t, s.SaveRun(ctx, recent))
	require.NoError(t, s.SaveIdeas(ctx, []ports.IdeaRecord{
		{Date: "2025-01-01", Seq: 0, Title: "old", Type: "t", Asset: "a", RiskLevel: "Low"},
		{Date: "2025-07-15", Seq: 0, Title: "new", Type: "t", Asset: "a", RiskLevel: "Low"},
	}))

	require.NoError(t, s.PruneOlderThan(ctx, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)))

	runs, err := s.RecentRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, recent.ID, runs[0].ID)

	var count int
	row := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM ideas`)
	require.NoError(t, row.Scan(&count))
	assert.Equal(t, 1, count)
}
