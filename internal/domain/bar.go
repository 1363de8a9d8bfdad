package domain

import "sort"

// Bar es una barra diaria OHLCV. Date en formato ISO YYYY-MM-DD.
// Volume puede ser 0 (forex, bonos).
type Bar struct {
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}

// Info son los metadatos descriptivos de un instrumento.
type Info struct {
	Symbol       string  `json:"symbol"`
	ShortName    string  `json:"shortName,omitempty"`
	LongName     string  `json:"longName,omitempty"`
	Sector       string  `json:"sector,omitempty"`
	Industry     string  `json:"industry,omitempty"`
	MarketCap    float64 `json:"marketCap,omitempty"`
	CurrentPrice float64 `json:"currentPrice,omitempty"`
}

// Instrument es un instrumento con su histórico de barras.
type Instrument struct {
	Info    Info  `json:"info"`
	History []Bar `json:"history"`
}

// Snapshot es el contenido de un archivo raw: los instrumentos de un tipo
// de dato en una fecha. SchemaVersion distingue el formato actual de los
// archivos legacy (mapas sin envoltorio).
type Snapshot struct {
	SchemaVersion int                   `json:"schema_version"`
	Date          string                `json:"date"`
	Instruments   map[string]Instrument `json:"instruments"`
}

// SortBars ordena las barras por fecha ascendente. Las fechas ISO ordenan
// lexicográficamente, así que no hace falta parsearlas.
func SortBars(bars []Bar) {
	sort.SliceStable(bars, func(i, j int) bool {
		return bars[i].Date < bars[j].Date
	})
}

// LatestClose devuelve el cierre de la última barra, o 0 si no hay barras.
func LatestClose(bars []Bar) float64 {
	if len(bars) == 0 {
		return 0
	}
	return bars[len(bars)-1].Close
}

// SortedSymbols devuelve las claves de un mapa de instrumentos en orden
// alfabético. Todo recorrido que afecte al output pasa por aquí para que
// el orden de iteración de los mapas nunca decida un resultado.
func SortedSymbols(m map[string]Instrument) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
