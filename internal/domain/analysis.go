package domain

import "sort"

// StockAnalysis es el análisis de un stock individual dentro de un mercado.
type StockAnalysis struct {
	Ticker      string      `json:"ticker"`
	Name        string      `json:"name,omitempty"`
	Sector      string      `json:"sector,omitempty"`
	Performance Performance `json:"performance"`
	Indicators  Indicators  `json:"indicators"`
}

// MarketAnalysis es el análisis agregado de un mercado: su índice y los
// stocks que lo representan, rankeados por rendimiento.
type MarketAnalysis struct {
	Market          string          `json:"market"`
	IndexSymbol     string          `json:"index_symbol"`
	IndexPerf       *Performance    `json:"index_performance,omitempty"`
	Stocks          []StockAnalysis `json:"stocks"`
	TopPerformers   []StockAnalysis `json:"top_performers"`
	WorstPerformers []StockAnalysis `json:"worst_performers"`
	DominantSector  string          `json:"dominant_sector,omitempty"`
}

// AnalyzeMarket construye el análisis de un mercado. index puede ser nil si
// el snapshot del índice no está disponible. Los empates de ranking se
// resuelven por ticker ascendente para que el output sea determinista.
func AnalyzeMarket(market, indexSymbol string, index *Instrument, stocks map[string]Instrument, period int) MarketAnalysis {
	ma := MarketAnalysis{Market: market, IndexSymbol: indexSymbol}

	if index != nil {
		if perf, ok := AnalyzePerformance(index.History, period); ok {
			ma.IndexPerf = &perf
		}
	}

	for _, ticker := range SortedSymbols(stocks) {
		inst := stocks[ticker]
		perf, ok := AnalyzePerformance(inst.History, period)
		if !ok {
			continue
		}
		ma.Stocks = append(ma.Stocks, StockAnalysis{
			Ticker:      ticker,
			Name:        inst.Info.ShortName,
			Sector:      inst.Info.Sector,
			Performance: perf,
			Indicators:  AnalyzeIndicators(inst.History),
		})
	}

	ranked := make([]StockAnalysis, len(ma.Stocks))
	copy(ranked, ma.Stocks)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Performance.ReturnPct != ranked[j].Performance.ReturnPct {
			return ranked[i].Performance.ReturnPct > ranked[j].Performance.ReturnPct
		}
		return ranked[i].Ticker < ranked[j].Ticker
	})

	ma.TopPerformers = headStocks(ranked, 5)
	ma.WorstPerformers = tailStocks(ranked, 5)
	ma.DominantSector = dominantSector(ma.TopPerformers)

	return ma
}

func headStocks(s []StockAnalysis, n int) []StockAnalysis {
	if len(s) < n {
		n = len(s)
	}
	return append([]StockAnalysis(nil), s[:n]...)
}

// tailStocks devuelve los últimos n, o todos si hay menos: un mercado con
// pocos stocks sigue teniendo worst performers.
func tailStocks(s []StockAnalysis, n int) []StockAnalysis {
	if len(s) < n {
		n = len(s)
	}
	return append([]StockAnalysis(nil), s[len(s)-n:]...)
}

// dominantSector: sector más frecuente entre los top performers. Empates por
// orden alfabético. "Unknown"/vacío solo gana si no hay otro sector.
func dominantSector(top []StockAnalysis) string {
	counts := map[string]int{}
	for _, s := range top {
		sector := s.Sector
		if sector == "" {
			sector = "Unknown"
		}
		counts[sector]++
	}
	if len(counts) == 0 {
		return ""
	}

	sectors := make([]string, 0, len(counts))
	for s := range counts {
		sectors = append(sectors, s)
	}
	sort.Strings(sectors)

	best, bestCount := "", -1
	for _, s := range sectors {
		if s == "Unknown" && len(counts) > 1 {
			continue
		}
		if counts[s] > bestCount {
			best, bestCount = s, counts[s]
		}
	}
	return best
}
