package domain

import "time"

// Quote es una cotización puntual de Finnhub.
type Quote struct {
	Price         float64 `json:"price"`
	ChangePct     float64 `json:"change_pct"`
	PreviousClose float64 `json:"previous_close"`
}

// Sentiment es el sentimiento de noticias agregado de un símbolo.
type Sentiment struct {
	NewsScore       float64 `json:"news_score"`
	Buzz            float64 `json:"buzz"`
	SentimentChange float64 `json:"sentiment_change"`
}

// EarningsReport es un resultado trimestral publicado o previsto.
// Period en formato ISO YYYY-MM-DD.
type EarningsReport struct {
	Period      string  `json:"period"`
	Actual      float64 `json:"actual"`
	Estimate    float64 `json:"estimate"`
	Surprise    float64 `json:"surprise"`
	SurprisePct float64 `json:"surprise_pct"`
}

// InsiderTransaction es una transacción de insider individual.
// Change positivo = compra, negativo = venta.
type InsiderTransaction struct {
	Name   string  `json:"name"`
	Change float64 `json:"change"`
	Date   string  `json:"date"`
}

// InsiderSummary agrega las transacciones de insiders de un símbolo.
type InsiderSummary struct {
	Buys       int     `json:"buys"`
	Sells      int     `json:"sells"`
	BuyVolume  float64 `json:"buy_volume"`
	SellVolume float64 `json:"sell_volume"`
}

// NetTransactions devuelve compras menos ventas.
func (s InsiderSummary) NetTransactions() int {
	return s.Buys - s.Sells
}

// AltDataProfile agrupa los datos alternativos de un símbolo y su score
// compuesto.
type AltDataProfile struct {
	Symbol          string          `json:"symbol"`
	Quote           *Quote          `json:"quote,omitempty"`
	Sentiment       *Sentiment      `json:"sentiment,omitempty"`
	LatestEarnings  *EarningsReport `json:"latest_earnings,omitempty"`
	UpcomingEarning *EarningsReport `json:"upcoming_earnings,omitempty"`
	Insider         *InsiderSummary `json:"insider,omitempty"`
	Score           float64         `json:"finnhub_score"`
}

// SummarizeInsiders agrega transacciones por signo del cambio. Las de
// cambio 0 no cuentan en ningún lado.
func SummarizeInsiders(txs []InsiderTransaction) InsiderSummary {
	var s InsiderSummary
	for _, tx := range txs {
		switch {
		case tx.Change > 0:
			s.Buys++
			s.BuyVolume += tx.Change
		case tx.Change < 0:
			s.Sells++
			s.SellVolume += -tx.Change
		}
	}
	return s
}

// BuildAltProfile construye el perfil de datos alternativos de un símbolo.
// earnings se asume en el orden del proveedor: el elemento 0 es el resultado
// más reciente; el próximo es el primero con period posterior a now.
func BuildAltProfile(symbol string, quote *Quote, sentiment *Sentiment, earnings []EarningsReport, insiders []InsiderTransaction, now time.Time) AltDataProfile {
	p := AltDataProfile{Symbol: symbol, Quote: quote, Sentiment: sentiment}

	if len(earnings) > 0 {
		latest := earnings[0]
		p.LatestEarnings = &latest
	}
	today := now.Format("2006-01-02")
	for _, e := range earnings {
		if e.Period > today {
			up := e
			p.UpcomingEarning = &up
			break
		}
	}

	if len(insiders) > 0 {
		s := SummarizeInsiders(insiders)
		p.Insider = &s
	}

	p.Score = compositeScore(p)
	return p
}

// compositeScore: media sin pesos de los componentes presentes, en [-10, 10].
// 0 si no hay ningún componente.
func compositeScore(p AltDataProfile) float64 {
	var parts []float64

	if p.Sentiment != nil {
		weight := p.Sentiment.Buzz
		if weight > 1 {
			weight = 1
		}
		parts = append(parts, p.Sentiment.NewsScore*10*weight)
	}
	if p.LatestEarnings != nil {
		parts = append(parts, clamp(p.LatestEarnings.SurprisePct, -10, 10))
	}
	if p.Insider != nil {
		parts = append(parts, clamp(2*float64(p.Insider.NetTransactions()), -10, 10))
	}

	if len(parts) == 0 {
		return 0
	}
	var sum float64
	for _, v := range parts {
		sum += v
	}
	return sum / float64(len(parts))
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
