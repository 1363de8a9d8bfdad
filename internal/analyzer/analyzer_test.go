package analyzer

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alejandrodnm/dailyideas/config"
	"github.com/alejandrodnm/dailyideas/internal/adapters/rawstore"
	"github.com/alejandrodnm/dailyideas/internal/domain"
)

func risingInst(symbol, sector string, start, step float64) domain.Instrument {
	closes := make([]float64, 25)
	for i := range closes {
		closes[i] = start + float64(i)*step
	}
	inst := instWithCloses(symbol, closes)
	inst.Info.Sector = sector
	return inst
}

func TestRun_EndToEnd(t *testing.T) {
	cfg := config.Default()
	cfg.Markets = []config.MarketConfig{
		{Name: "TEST", Index: "^TST", Stocks: []string{"AAA", "BBB", "CCC"}},
	}

	store, err := rawstore.New(t.TempDir())
	require.NoError(t, err)

	date := "2025-07-15"
	require.NoError(t, store.SaveBars("index_TEST", date, map[string]domain.Instrument{
		"^TST": risingInst("^TST", "", 1000, 5),
	}))
	require.NoError(t, store.SaveBars("stocks_TEST", date, map[string]domain.Instrument{
		"AAA": risingInst("AAA", "Technology", 100, 2),
		"BBB": risingInst("BBB", "Technology", 100, 1),
		"CCC": risingInst("CCC", "Healthcare", 100, 0.5),
	}))
	require.NoError(t, store.SaveBars("forex", date, map[string]domain.Instrument{
		"EURUSD=X": instWithCloses("EURUSD=X", []float64{1.0, 1.01, 1.02, 1.02, 1.03, 1.04, 1.05}),
	}))
	require.NoError(t, store.SaveBars("bonds", date, map[string]domain.Instrument{
		"^TNX": instWithCloses("^TNX", []float64{4.0, 4.05, 4.1, 4.15, 4.2, 4.25, 4.3}),
	}))
	require.NoError(t, store.SaveDocument("finnhub_insider", date, map[string][]domain.InsiderTransaction{
		"BBB": {{Change: 100}, {Change: 200}, {Change: 300}, {Change: 400}},
	}))

	a := New(cfg, store)
	a.now = func() time.Time { return time.Date(2025, 7, 15, 18, 0, 0, 0, time.UTC) }

	report, err := a.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "2025-07-15", report.Date)
	assert.Equal(t, []string{"TEST"}, report.MarketsAnalyzed)
	require.NotEmpty(t, report.Ideas)

	titles := make([]string, len(report.Ideas))
	for i, idea := range report.Ideas {
		titles[i] = idea.Title
	}
	assert.Contains(t, titles, "TEST Market Overview")
	assert.Contains(t, titles, "Top TEST Performer: AAA")
	assert.Contains(t, titles, "Technology Sector Strength in TEST")
	// 4 compras netas: score 8 > 5 → alternative data pick, y además
	// supera el umbral de insider activity.
	assert.Contains(t, titles, "Alternative Data Pick: BBB")
	assert.Contains(t, titles, "Insider Activity: BBB")
	// Forex +5% y bonos +7.5% superan sus umbrales.
	assert.Contains(t, titles, "Forex Opportunity: EUR/USD")
	assert.Contains(t, titles, "Bond Market Development")

	// El orden es el de generación: overview primero, bonos al final.
	assert.Equal(t, "TEST Market Overview", titles[0])
	assert.Equal(t, "Bond Market Development", titles[len(titles)-1])

	assert.Contains(t, report.DataTypesUsed, "Technical Indicators")
	assert.Contains(t, report.DataTypesUsed, "Alternative Data")

	// El reporte queda escrito en processed/.
	saved, err := store.LoadReport("2025-07-15")
	require.NoError(t, err)
	assert.Len(t, saved.Ideas, len(report.Ideas))
}

func TestRun_DeterministicOutput(t *testing.T) {
	cfg := config.Default()
	cfg.Markets = []config.MarketConfig{
		{Name: "TEST", Index: "^TST", Stocks: []string{"AAA", "BBB"}},
	}

	store, err := rawstore.New(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.SaveBars("stocks_TEST", "2025-07-15", map[string]domain.Instrument{
		"AAA": risingInst("AAA", "Technology", 100, 1),
		"BBB": risingInst("BBB", "Energy", 100, 1),
	}))

	a := New(cfg, store)
	a.now = func() time.Time { return time.Date(2025, 7, 15, 18, 0, 0, 0, time.UTC) }

	first, err := a.Run(context.Background())
	require.NoError(t, err)
	second, err := a.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRun_EmptyDataset(t *testing.T) {
	cfg := config.Default()
	store, err := rawstore.New(t.TempDir())
	require.NoError(t, err)

	a := New(cfg, store)
	a.now = func() time.Time { return time.Date(2025, 7, 15, 18, 0, 0, 0, time.UTC) }

	report, err := a.Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, report.Ideas)
	assert.Empty(t, report.MarketsAnalyzed)
}
