package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func barsFromCloses(closes []float64, volume float64) []Bar {
	bars := make([]Bar, len(closes))
	for i, c := range closes {
		bars[i] = Bar{
			Date:   dateAt(i),
			Open:   c,
			High:   c,
			Low:    c,
			Close:  c,
			Volume: volume,
		}
	}
	return bars
}

func dateAt(i int) string {
	// Fechas sintéticas crecientes dentro de un mes.
	return "2025-07-" + string(rune('0'+(i+1)/10)) + string(rune('0'+(i+1)%10))
}

func TestAnalyzePerformance_Basic(t *testing.T) {
	bars := barsFromCloses([]float64{100, 102, 101, 105, 103, 107, 110}, 1000)
	bars[len(bars)-1].Volume = 1500

	perf, ok := AnalyzePerformance(bars, 7)
	require.True(t, ok)

	assert.InDelta(t, 10.0, perf.ReturnPct, 0.001)
	assert.True(t, perf.IsUptrend)
	assert.Equal(t, 110.0, perf.LatestClose)

	require.NotNil(t, perf.VolatilityPct)
	assert.InDelta(t, 2.503, *perf.VolatilityPct, 0.01)

	require.NotNil(t, perf.MaxDrawdownPct)
	assert.InDelta(t, 1.905, *perf.MaxDrawdownPct, 0.01)

	require.NotNil(t, perf.VolumeChangePct)
	assert.InDelta(t, 50.0, *perf.VolumeChangePct, 0.001)
	assert.InDelta(t, 1071.43, perf.AvgVolume, 0.01)
}

func TestAnalyzePerformance_TooFewBars(t *testing.T) {
	bars := barsFromCloses([]float64{100, 101, 102}, 1000)
	_, ok := AnalyzePerformance(bars, 7)
	assert.False(t, ok)
}

func TestAnalyzePerformance_ZeroStartingClose(t *testing.T) {
	bars := barsFromCloses([]float64{0, 101, 102, 103, 104, 105, 106}, 1000)
	_, ok := AnalyzePerformance(bars, 7)
	assert.False(t, ok)
}

func TestAnalyzePerformance_ZeroVolumeSeries(t *testing.T) {
	// Forex y bonos vienen sin volumen: las métricas de volumen quedan nil/0,
	// el resto se calcula igual.
	bars := barsFromCloses([]float64{1.10, 1.11, 1.09, 1.12, 1.13, 1.11, 1.14}, 0)
	perf, ok := AnalyzePerformance(bars, 7)
	require.True(t, ok)

	assert.Nil(t, perf.VolumeChangePct)
	assert.Equal(t, 0.0, perf.AvgVolume)
	assert.InDelta(t, 3.636, perf.ReturnPct, 0.01)
}

func TestAnalyzePerformance_Downtrend(t *testing.T) {
	bars := barsFromCloses([]float64{110, 108, 109, 105, 104, 102, 100}, 1000)
	perf, ok := AnalyzePerformance(bars, 7)
	require.True(t, ok)

	assert.False(t, perf.IsUptrend)
	assert.InDelta(t, -9.091, perf.ReturnPct, 0.01)
	require.NotNil(t, perf.MaxDrawdownPct)
	assert.InDelta(t, 9.091, *perf.MaxDrawdownPct, 0.01)
}

func TestAnalyzePerformance_UsesTailWindow(t *testing.T) {
	// Solo las últimas period barras cuentan.
	closes := []float64{50, 55, 60, 100, 102, 101, 105, 103, 107, 110}
	bars := barsFromCloses(closes, 1000)

	perf, ok := AnalyzePerformance(bars, 7)
	require.True(t, ok)
	assert.InDelta(t, 10.0, perf.ReturnPct, 0.001)
}
