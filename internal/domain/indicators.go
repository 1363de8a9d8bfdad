package domain

import "math"

// Indicators es el snapshot de indicadores técnicos sobre la última barra.
// Todos los campos son punteros: nil significa "no calculable" (historial
// insuficiente, denominador 0).
type Indicators struct {
	SMA20           *float64 `json:"sma_20"`
	SMA50           *float64 `json:"sma_50"`
	PriceVsSMA20Pct *float64 `json:"price_vs_sma20_pct"`
	PriceVsSMA50Pct *float64 `json:"price_vs_sma50_pct"`
	RSI14           *float64 `json:"rsi_14"`
	MACD            *float64 `json:"macd"`
	MACDSignal      *float64 `json:"macd_signal"`
	BollingerPos    *float64 `json:"bollinger_position"`
}

// AnalyzeIndicators calcula los indicadores sobre el histórico completo.
// Con menos de 20 barras devuelve el struct con todo nil.
func AnalyzeIndicators(bars []Bar) Indicators {
	var ind Indicators
	if len(bars) < 20 {
		return ind
	}

	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	latest := closes[len(closes)-1]

	sma20 := mean(closes[len(closes)-20:])
	ind.SMA20 = &sma20
	if sma20 != 0 {
		v := (latest - sma20) / sma20 * 100
		ind.PriceVsSMA20Pct = &v
	}

	if len(closes) >= 50 {
		sma50 := mean(closes[len(closes)-50:])
		ind.SMA50 = &sma50
		if sma50 != 0 {
			v := (latest - sma50) / sma50 * 100
			ind.PriceVsSMA50Pct = &v
		}
	}

	ind.RSI14 = rsi(closes, 14)
	ind.MACD, ind.MACDSignal = macd(closes)
	ind.BollingerPos = bollingerPosition(closes, 20)

	return ind
}

func mean(xs []float64) float64 {
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// sampleStdDev: desviación estándar muestral (divisor n-1).
func sampleStdDev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	m := mean(xs)
	var ss float64
	for _, x := range xs {
		d := x - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(xs)-1))
}

// rsi: variante de Cutler, medias simples de ganancias y pérdidas sobre los
// últimos period cambios. 100 si no hay pérdidas pero sí ganancias; nil si
// el mercado estuvo plano.
func rsi(closes []float64, period int) *float64 {
	if len(closes) < period+1 {
		return nil
	}
	tail := closes[len(closes)-period-1:]

	var gains, losses float64
	for i := 1; i < len(tail); i++ {
		delta := tail[i] - tail[i-1]
		if delta > 0 {
			gains += delta
		} else {
			losses += -delta
		}
	}
	avgGain := gains / float64(period)
	avgLoss := losses / float64(period)

	if avgLoss == 0 {
		if avgGain == 0 {
			return nil
		}
		v := 100.0
		return &v
	}
	rs := avgGain / avgLoss
	v := 100 - 100/(1+rs)
	return &v
}

// ema: media móvil exponencial con α=2/(span+1), sembrada con el primer valor.
func ema(xs []float64, span int) []float64 {
	out := make([]float64, len(xs))
	alpha := 2.0 / float64(span+1)
	out[0] = xs[0]
	for i := 1; i < len(xs); i++ {
		out[i] = alpha*xs[i] + (1-alpha)*out[i-1]
	}
	return out
}

// macd devuelve la línea MACD (EMA12−EMA26) y su señal (EMA9 del MACD).
func macd(closes []float64) (*float64, *float64) {
	if len(closes) == 0 {
		return nil, nil
	}
	ema12 := ema(closes, 12)
	ema26 := ema(closes, 26)

	line := make([]float64, len(closes))
	for i := range closes {
		line[i] = ema12[i] - ema26[i]
	}
	signal := ema(line, 9)

	m := line[len(line)-1]
	s := signal[len(signal)-1]
	return &m, &s
}

// bollingerPosition: posición del cierre dentro de las bandas de Bollinger
// (SMA period ± 2σ muestral). 0 = banda inferior, 1 = superior. Nil si las
// bandas colapsan (serie constante).
func bollingerPosition(closes []float64, period int) *float64 {
	if len(closes) < period {
		return nil
	}
	tail := closes[len(closes)-period:]
	m := mean(tail)
	sd := sampleStdDev(tail)

	upper := m + 2*sd
	lower := m - 2*sd
	width := upper - lower
	if width == 0 {
		return nil
	}
	v := (closes[len(closes)-1] - lower) / width
	return &v
}
