package domain

import "math"

// Performance son las métricas de rendimiento de un instrumento sobre la
// ventana de análisis. Los campos puntero son nil cuando el denominador de
// la métrica es 0 ("no disponible"); así nunca llega un Inf/NaN al JSON.
type Performance struct {
	ReturnPct       float64  `json:"return_pct"`
	VolatilityPct   *float64 `json:"volatility_pct"`
	MaxDrawdownPct  *float64 `json:"max_drawdown_pct"`
	VolumeChangePct *float64 `json:"volume_change_pct"`
	AvgVolume       float64  `json:"avg_volume"`
	LatestClose     float64  `json:"latest_close"`
	IsUptrend       bool     `json:"is_uptrend"`
}

// AnalyzePerformance calcula las métricas sobre las últimas period barras.
// Devuelve (zero, false) si hay menos de period barras o el cierre inicial
// de la ventana es 0: el instrumento se omite, no es un error.
func AnalyzePerformance(bars []Bar, period int) (Performance, bool) {
	if period <= 0 || len(bars) < period {
		return Performance{}, false
	}
	window := bars[len(bars)-period:]

	first, last := window[0], window[len(window)-1]
	if first.Close == 0 {
		return Performance{}, false
	}

	perf := Performance{
		ReturnPct:   (last.Close - first.Close) / first.Close * 100,
		LatestClose: last.Close,
		IsUptrend:   last.Close > first.Close,
	}

	perf.VolatilityPct = volatilityPct(window)
	perf.MaxDrawdownPct = maxDrawdownPct(window)

	var totalVolume float64
	for _, b := range window {
		totalVolume += b.Volume
	}
	perf.AvgVolume = totalVolume / float64(len(window))

	if first.Volume != 0 {
		v := (last.Volume - first.Volume) / first.Volume * 100
		perf.VolumeChangePct = &v
	}

	return perf, true
}

// volatilityPct: desviación estándar muestral de los cambios porcentuales
// de cierre, ×100. Nil si algún cierre intermedio es 0 o no hay suficientes
// cambios para una desviación muestral.
func volatilityPct(window []Bar) *float64 {
	changes := make([]float64, 0, len(window)-1)
	for i := 1; i < len(window); i++ {
		prev := window[i-1].Close
		if prev == 0 {
			return nil
		}
		changes = append(changes, (window[i].Close-prev)/prev)
	}
	if len(changes) < 2 {
		return nil
	}

	var sum float64
	for _, c := range changes {
		sum += c
	}
	mean := sum / float64(len(changes))

	var ss float64
	for _, c := range changes {
		d := c - mean
		ss += d * d
	}
	v := math.Sqrt(ss/float64(len(changes)-1)) * 100
	return &v
}

// maxDrawdownPct: caída máxima respecto al máximo acumulado, como magnitud
// positiva, ×100. Nil si el máximo acumulado llega a ser 0.
func maxDrawdownPct(window []Bar) *float64 {
	runMax := window[0].Close
	worst := 0.0
	for _, b := range window {
		if b.Close > runMax {
			runMax = b.Close
		}
		if runMax == 0 {
			return nil
		}
		dd := (runMax - b.Close) / runMax
		if dd > worst {
			worst = dd
		}
	}
	v := worst * 100
	return &v
}
