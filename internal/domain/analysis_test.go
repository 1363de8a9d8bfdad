package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stockWithReturn(symbol, sector string, closes []float64) Instrument {
	return Instrument{
		Info:    Info{Symbol: symbol, Sector: sector},
		History: barsFromCloses(closes, 1000),
	}
}

func TestAnalyzeMarket_RankingAndSector(t *testing.T) {
	up := []float64{100, 101, 102, 103, 104, 105, 110}    // +10%
	mid := []float64{100, 100, 101, 101, 102, 102, 103}   // +3%
	down := []float64{100, 99, 98, 97, 96, 95, 94}        // −6%
	stocks := map[string]Instrument{
		"AAA": stockWithReturn("AAA", "Technology", up),
		"BBB": stockWithReturn("BBB", "Technology", mid),
		"CCC": stockWithReturn("CCC", "Healthcare", down),
	}
	index := stockWithReturn("^TST", "", mid)

	ma := AnalyzeMarket("TEST", "^TST", &index, stocks, 7)

	require.NotNil(t, ma.IndexPerf)
	assert.InDelta(t, 3.0, ma.IndexPerf.ReturnPct, 0.001)

	require.Len(t, ma.Stocks, 3)
	require.Len(t, ma.TopPerformers, 3)
	assert.Equal(t, "AAA", ma.TopPerformers[0].Ticker)
	assert.Equal(t, "CCC", ma.TopPerformers[2].Ticker)
	// Con menos de 5 stocks la lista de worst performers no queda vacía:
	// contiene todos, del mejor al peor.
	require.Len(t, ma.WorstPerformers, 3)
	assert.Equal(t, "CCC", ma.WorstPerformers[len(ma.WorstPerformers)-1].Ticker)

	assert.Equal(t, "Technology", ma.DominantSector)
}

func TestAnalyzeMarket_TieBrokenByTicker(t *testing.T) {
	same := []float64{100, 101, 102, 103, 104, 105, 106}
	stocks := map[string]Instrument{
		"ZZZ": stockWithReturn("ZZZ", "Energy", same),
		"AAA": stockWithReturn("AAA", "Tech", same),
		"MMM": stockWithReturn("MMM", "Retail", same),
	}

	ma := AnalyzeMarket("TEST", "^TST", nil, stocks, 7)

	require.Len(t, ma.TopPerformers, 3)
	assert.Equal(t, "AAA", ma.TopPerformers[0].Ticker)
	assert.Equal(t, "MMM", ma.TopPerformers[1].Ticker)
	assert.Equal(t, "ZZZ", ma.TopPerformers[2].Ticker)
}

func TestAnalyzeMarket_SkipsShortHistories(t *testing.T) {
	stocks := map[string]Instrument{
		"OK":    stockWithReturn("OK", "Tech", []float64{100, 101, 102, 103, 104, 105, 106}),
		"SHORT": stockWithReturn("SHORT", "Tech", []float64{100, 101}),
	}

	ma := AnalyzeMarket("TEST", "^TST", nil, stocks, 7)
	require.Len(t, ma.Stocks, 1)
	assert.Equal(t, "OK", ma.Stocks[0].Ticker)
}

func TestAnalyzeMarket_NoIndex(t *testing.T) {
	ma := AnalyzeMarket("TEST", "^TST", nil, nil, 7)
	assert.Nil(t, ma.IndexPerf)
	assert.Empty(t, ma.Stocks)
	assert.Equal(t, "", ma.DominantSector)
}

func TestDominantSector_UnknownOnlyWinsAlone(t *testing.T) {
	top := []StockAnalysis{
		{Ticker: "A", Sector: ""},
		{Ticker: "B", Sector: ""},
		{Ticker: "C", Sector: "Energy"},
	}
	assert.Equal(t, "Energy", dominantSector(top))

	onlyUnknown := []StockAnalysis{{Ticker: "A", Sector: ""}}
	assert.Equal(t, "Unknown", dominantSector(onlyUnknown))
}
