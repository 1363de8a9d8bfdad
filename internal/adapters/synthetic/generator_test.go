package synthetic

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedNow() time.Time {
	return time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC)
}

func TestFetchBars_Deterministic(t *testing.T) {
	g := NewGenerator(Stocks)
	g.now = fixedNow

	first, err := g.FetchBars(context.Background(), []string{"AAPL"})
	require.NoError(t, err)
	second, err := g.FetchBars(context.Background(), []string{"AAPL"})
	require.NoError(t, err)

	assert.Equal(t, first["AAPL"], second["AAPL"])
}

func TestFetchBars_DifferentSymbolsDiffer(t *testing.T) {
	g := NewGenerator(Stocks)
	g.now = fixedNow

	got, err := g.FetchBars(context.Background(), []string{"AAPL", "MSFT"})
	require.NoError(t, err)
	assert.NotEqual(t, got["AAPL"].History, got["MSFT"].History)
}

func TestFetchBars_BarShape(t *testing.T) {
	g := NewGenerator(Stocks)
	g.now = fixedNow

	got, err := g.FetchBars(context.Background(), []string{"AAPL"})
	require.NoError(t, err)

	history := got["AAPL"].History
	require.Len(t, history, 30)
	assert.Equal(t, "2025-06-16", history[0].Date)
	assert.Equal(t, "2025-07-15", history[len(history)-1].Date)

	for _, bar := range history {
		assert.Greater(t, bar.Close, 0.0)
		assert.GreaterOrEqual(t, bar.High, bar.Close)
		assert.LessOrEqual(t, bar.Low, bar.Close)
		assert.Greater(t, bar.Volume, 0.0)
	}
}

func TestFetchBars_ForexKnownBase(t *testing.T) {
	g := NewGenerator(Forex)
	g.now = fixedNow

	got, err := g.FetchBars(context.Background(), []string{"EURUSD=X"})
	require.NoError(t, err)

	history := got["EURUSD=X"].History
	require.Len(t, history, 30)
	// Nivel base realista y sin volumen, como el dato real.
	assert.InDelta(t, 1.08, history[0].Open, 0.1)
	assert.Equal(t, 0.0, history[0].Volume)
}

func TestFetchBars_BondYieldLevels(t *testing.T) {
	g := NewGenerator(Bonds)
	g.now = fixedNow

	got, err := g.FetchBars(context.Background(), []string{"^TNX"})
	require.NoError(t, err)
	assert.InDelta(t, 4.3, got["^TNX"].History[0].Open, 0.5)
}
