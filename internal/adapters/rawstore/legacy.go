package rawstore

import (
	"encoding/json"
	"fmt"

	"github.com/alejandrodnm/dailyideas/internal/domain"
)

// Formatos de la generación anterior del pipeline, previos al envoltorio
// con schema_version:
//
//   - stocks/índices: {"AAPL": {"info": {...}, "history": [barras]}}
//   - forex/bonos:    {"EURUSD=X": [barras]}
//
// con las claves de barra capitalizadas ("Date", "Open", ...) y fechas que
// pueden traer hora ("2025-07-01T00:00:00").

type legacyBar struct {
	Date   string  `json:"Date"`
	Open   float64 `json:"Open"`
	High   float64 `json:"High"`
	Low    float64 `json:"Low"`
	Close  float64 `json:"Close"`
	Volume float64 `json:"Volume"`
}

type legacyInfo struct {
	Symbol       string  `json:"symbol"`
	ShortName    string  `json:"shortName"`
	LongName     string  `json:"longName"`
	Sector       string  `json:"sector"`
	Industry     string  `json:"industry"`
	MarketCap    float64 `json:"marketCap"`
	CurrentPrice float64 `json:"currentPrice"`
}

type legacyInstrument struct {
	Info    legacyInfo  `json:"info"`
	History []legacyBar `json:"history"`
}

// normalizeLegacy convierte un archivo legacy al formato actual.
func normalizeLegacy(probe map[string]json.RawMessage) (map[string]domain.Instrument, error) {
	out := make(map[string]domain.Instrument, len(probe))
	for symbol, raw := range probe {
		inst, err := normalizeLegacyInstrument(symbol, raw)
		if err != nil {
			return nil, fmt.Errorf("symbol %s: %w", symbol, err)
		}
		out[symbol] = inst
	}
	return out, nil
}

func normalizeLegacyInstrument(symbol string, raw json.RawMessage) (domain.Instrument, error) {
	// Primero el formato con envoltorio {info, history}.
	var wrapped legacyInstrument
	if err := json.Unmarshal(raw, &wrapped); err == nil && len(wrapped.History) > 0 {
		return domain.Instrument{
			Info: domain.Info{
				Symbol:       orDefault(wrapped.Info.Symbol, symbol),
				ShortName:    wrapped.Info.ShortName,
				LongName:     wrapped.Info.LongName,
				Sector:       wrapped.Info.Sector,
				Industry:     wrapped.Info.Industry,
				MarketCap:    wrapped.Info.MarketCap,
				CurrentPrice: wrapped.Info.CurrentPrice,
			},
			History: convertLegacyBars(wrapped.History),
		}, nil
	}

	// Después el array pelado de barras (forex/bonos).
	var bars []legacyBar
	if err := json.Unmarshal(raw, &bars); err != nil {
		return domain.Instrument{}, fmt.Errorf("unrecognized legacy shape: %w", err)
	}
	return domain.Instrument{
		Info:    domain.Info{Symbol: symbol, CurrentPrice: lastClose(bars)},
		History: convertLegacyBars(bars),
	}, nil
}

func convertLegacyBars(bars []legacyBar) []domain.Bar {
	out := make([]domain.Bar, len(bars))
	for i, b := range bars {
		date := b.Date
		if len(date) > 10 {
			date = date[:10]
		}
		out[i] = domain.Bar{
			Date:   date,
			Open:   b.Open,
			High:   b.High,
			Low:    b.Low,
			Close:  b.Close,
			Volume: b.Volume,
		}
	}
	domain.SortBars(out)
	return out
}

func lastClose(bars []legacyBar) float64 {
	if len(bars) == 0 {
		return 0
	}
	return bars[len(bars)-1].Close
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
