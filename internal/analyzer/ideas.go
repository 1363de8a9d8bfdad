package analyzer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/alejandrodnm/dailyideas/internal/domain"
)

// Nombres legibles de los pares forex.
var forexNames = map[string]string{
	"EURUSD=X": "EUR/USD",
	"GBPUSD=X": "GBP/USD",
	"USDJPY=X": "USD/JPY",
	"USDCAD=X": "USD/CAD",
	"AUDUSD=X": "AUD/USD",
	"USDCNY=X": "USD/CNY",
}

// generateIdeas evalúa los bloques de reglas en orden fijo. El orden de las
// ideas del reporte es el orden de generación.
func generateIdeas(analyses []domain.MarketAnalysis, profiles []domain.AltDataProfile, data dataset, window int) []domain.Idea {
	var ideas []domain.Idea

	for _, ma := range analyses {
		ideas = appendIfPresent(ideas, marketOverviewIdea(ma))
		ideas = appendIfPresent(ideas, topPerformerIdea(ma))
		ideas = appendIfPresent(ideas, dominantSectorIdea(ma))
	}

	ideas = appendIfPresent(ideas, altDataPickIdea(profiles, ideas))
	ideas = appendIfPresent(ideas, insiderActivityIdea(profiles, ideas))
	ideas = appendIfPresent(ideas, forexIdea(data.forex, window))
	ideas = appendIfPresent(ideas, bondIdea(data.bonds, window))

	return ideas
}

func appendIfPresent(ideas []domain.Idea, idea *domain.Idea) []domain.Idea {
	if idea == nil {
		return ideas
	}
	return append(ideas, *idea)
}

// marketOverviewIdea: resumen del índice del mercado, solo con performance
// válida.
func marketOverviewIdea(ma domain.MarketAnalysis) *domain.Idea {
	if ma.IndexPerf == nil {
		return nil
	}
	return &domain.Idea{
		Title:  ma.Market + " Market Overview",
		Type:   "Market Analysis",
		Asset:  ma.IndexSymbol,
		Market: ma.Market,
		Rationale: fmt.Sprintf(
			"The %s index has shown a %.2f%% return over the past week. The dominant sector among top performers is %s.",
			ma.Market, ma.IndexPerf.ReturnPct, ma.DominantSector),
		RiskLevel:   domain.RiskMedium,
		TimeHorizon: "Medium-term",
		Metrics: map[string]any{
			"return":     ma.IndexPerf.ReturnPct,
			"volatility": ma.IndexPerf.VolatilityPct,
		},
	}
}

// topPerformerIdea: el mejor stock del mercado, con comentario de RSI.
func topPerformerIdea(ma domain.MarketAnalysis) *domain.Idea {
	if len(ma.TopPerformers) == 0 {
		return nil
	}
	top := ma.TopPerformers[0]

	tech := " Technical indicators are supportive"
	if top.Indicators.RSI14 != nil {
		rsi := *top.Indicators.RSI14
		tech += fmt.Sprintf(" with RSI at %.1f", rsi)
		if rsi < 30 {
			tech += " (oversold)"
		} else if rsi > 70 {
			tech += " (overbought)"
		}
	}
	tech += "."

	sector := top.Sector
	if sector == "" {
		sector = "Unknown"
	}

	return &domain.Idea{
		Title:  fmt.Sprintf("Top %s Performer: %s", ma.Market, top.Ticker),
		Type:   "Stock",
		Asset:  top.Ticker,
		Sector: sector,
		Market: ma.Market,
		Rationale: fmt.Sprintf(
			"%s is the top performer in the %s market with a %.2f%% return over the past week.%s",
			top.Ticker, ma.Market, top.Performance.ReturnPct, tech),
		RiskLevel:   domain.RiskMediumHigh,
		TimeHorizon: "Short-term to Medium-term",
		Metrics: map[string]any{
			"return":     top.Performance.ReturnPct,
			"volatility": top.Performance.VolatilityPct,
			"rsi":        top.Indicators.RSI14,
		},
	}
}

// dominantSectorIdea: rotación hacia el sector dominante del mercado, con
// los 3 mejores stocks del sector listados.
func dominantSectorIdea(ma domain.MarketAnalysis) *domain.Idea {
	if ma.DominantSector == "" || ma.DominantSector == "Unknown" {
		return nil
	}

	var sectorStocks []domain.StockAnalysis
	for _, s := range ma.Stocks {
		if s.Sector == ma.DominantSector {
			sectorStocks = append(sectorStocks, s)
		}
	}
	if len(sectorStocks) == 0 {
		return nil
	}

	sort.SliceStable(sectorStocks, func(i, j int) bool {
		if sectorStocks[i].Performance.ReturnPct != sectorStocks[j].Performance.ReturnPct {
			return sectorStocks[i].Performance.ReturnPct > sectorStocks[j].Performance.ReturnPct
		}
		return sectorStocks[i].Ticker < sectorStocks[j].Ticker
	})

	top := sectorStocks
	if len(top) > 3 {
		top = top[:3]
	}
	names := make([]string, len(top))
	var totalReturn float64
	for i, s := range top {
		names[i] = s.Ticker
	}
	for _, s := range sectorStocks {
		totalReturn += s.Performance.ReturnPct
	}

	return &domain.Idea{
		Title:  fmt.Sprintf("%s Sector Strength in %s", ma.DominantSector, ma.Market),
		Type:   "Sector",
		Asset:  ma.DominantSector,
		Market: ma.Market,
		Rationale: fmt.Sprintf(
			"The %s sector is showing strength in the %s market, with multiple stocks among the top performers. Top %s stocks include %s.",
			ma.DominantSector, ma.Market, ma.DominantSector, strings.Join(names, ", ")),
		RiskLevel:   domain.RiskMedium,
		TimeHorizon: "Medium-term",
		Metrics: map[string]any{
			"stocks_count": len(sectorStocks),
			"avg_return":   totalReturn / float64(len(sectorStocks)),
		},
	}
}

// altDataPickIdea: el mejor score compuesto por encima de 5, si el activo
// no fue ya recomendado. Los perfiles llegan ordenados por símbolo, así
// que el empate lo gana el alfabéticamente menor.
func altDataPickIdea(profiles []domain.AltDataProfile, existing []domain.Idea) *domain.Idea {
	var best *domain.AltDataProfile
	for i := range profiles {
		p := &profiles[i]
		if p.Score <= 5 {
			continue
		}
		if best == nil || p.Score > best.Score {
			best = p
		}
	}
	if best == nil || assetFeatured(existing, best.Symbol) {
		return nil
	}

	rationale := fmt.Sprintf("%s shows positive signals based on alternative data analysis.", best.Symbol)

	// Las tres claves se emiten siempre, con null cuando el componente no
	// está: su presencia alimenta la contabilidad de data_types_used.
	metrics := map[string]any{
		"finnhub_score":     best.Score,
		"sentiment":         nil,
		"insider_buys":      nil,
		"earnings_surprise": nil,
	}

	if best.Sentiment != nil {
		if best.Sentiment.NewsScore > 0.5 {
			rationale += fmt.Sprintf(" Strong positive news sentiment (%.2f/1.0).", best.Sentiment.NewsScore)
		}
		metrics["sentiment"] = best.Sentiment.NewsScore
	}
	if best.Insider != nil {
		if best.Insider.NetTransactions() > 0 {
			rationale += fmt.Sprintf(" Insider buying detected with %d recent purchases.", best.Insider.Buys)
		}
		metrics["insider_buys"] = best.Insider.Buys
	}
	if best.LatestEarnings != nil {
		if best.LatestEarnings.SurprisePct > 0 {
			rationale += fmt.Sprintf(" Recent earnings beat expectations by %.2f%%.", best.LatestEarnings.SurprisePct)
		}
		metrics["earnings_surprise"] = best.LatestEarnings.SurprisePct
	}
	if best.UpcomingEarning != nil {
		rationale += fmt.Sprintf(" Upcoming earnings report on %s.", best.UpcomingEarning.Period)
	}

	return &domain.Idea{
		Title:       "Alternative Data Pick: " + best.Symbol,
		Type:        "Stock",
		Asset:       best.Symbol,
		Rationale:   rationale,
		RiskLevel:   domain.RiskMediumHigh,
		TimeHorizon: "Medium-term",
		Metrics:     metrics,
	}
}

// insiderActivityIdea: el símbolo con más transacciones netas de compra
// (> 2), si no hay ya una idea de insider activity.
func insiderActivityIdea(profiles []domain.AltDataProfile, existing []domain.Idea) *domain.Idea {
	for _, idea := range existing {
		if strings.HasPrefix(idea.Title, "Insider Activity") {
			return nil
		}
	}

	var best *domain.AltDataProfile
	for i := range profiles {
		p := &profiles[i]
		if p.Insider == nil || p.Insider.NetTransactions() <= 2 {
			continue
		}
		if best == nil || p.Insider.NetTransactions() > best.Insider.NetTransactions() {
			best = p
		}
	}
	if best == nil {
		return nil
	}

	return &domain.Idea{
		Title: "Insider Activity: " + best.Symbol,
		Type:  "Stock",
		Asset: best.Symbol,
		Rationale: fmt.Sprintf(
			"Strong insider buying detected in %s with %d purchases versus %d sales over the past 3 months. Insider buying often signals management's confidence in future prospects.",
			best.Symbol, best.Insider.Buys, best.Insider.Sells),
		RiskLevel:   domain.RiskMedium,
		TimeHorizon: "Medium-term to Long-term",
		Metrics: map[string]any{
			"net_buys":    best.Insider.NetTransactions(),
			"buy_volume":  best.Insider.BuyVolume,
			"sell_volume": best.Insider.SellVolume,
		},
	}
}

// forexIdea: el par con mayor retorno, solo si el movimiento supera el 1%.
func forexIdea(forex map[string]domain.Instrument, window int) *domain.Idea {
	symbol, perf, ok := strongestByReturn(forex, window)
	if !ok {
		return nil
	}
	if perf.ReturnPct <= 1.0 && perf.ReturnPct >= -1.0 {
		return nil
	}

	name := symbol
	if n, ok := forexNames[symbol]; ok {
		name = n
	}
	direction := "bullish"
	if perf.ReturnPct < 0 {
		direction = "bearish"
	}

	return &domain.Idea{
		Title:     "Forex Opportunity: " + name,
		Type:      "Forex",
		Asset:     name,
		Direction: direction,
		Rationale: fmt.Sprintf(
			"The %s pair has shown a %s trend with a %.2f%% move. Consider a %s position with appropriate risk management.",
			name, direction, perf.ReturnPct, direction),
		RiskLevel:   domain.RiskHigh,
		TimeHorizon: "Short-term",
		Metrics: map[string]any{
			"return":     perf.ReturnPct,
			"volatility": perf.VolatilityPct,
		},
	}
}

// bondIdea: movimiento del rendimiento del Tesoro a 10 años (^TNX), solo
// si el cambio supera el 3%.
func bondIdea(bonds map[string]domain.Instrument, window int) *domain.Idea {
	tnx, ok := bonds["^TNX"]
	if !ok {
		return nil
	}
	perf, ok := domain.AnalyzePerformance(tnx.History, window)
	if !ok {
		return nil
	}
	if perf.ReturnPct <= 3.0 && perf.ReturnPct >= -3.0 {
		return nil
	}

	direction, impact := "higher", "negative"
	if perf.ReturnPct < 0 {
		direction, impact = "lower", "positive"
	}

	return &domain.Idea{
		Title: "Bond Market Development",
		Type:  "Bonds",
		Asset: "10-Year Treasury",
		Rationale: fmt.Sprintf(
			"10-Year Treasury yields are moving %s (%.2f%%), which may have %s implications for growth stocks and rate-sensitive sectors.",
			direction, perf.ReturnPct, impact),
		RiskLevel:   domain.RiskMedium,
		TimeHorizon: "Medium-term",
		Metrics: map[string]any{
			"yield_change": perf.ReturnPct,
		},
	}
}

// strongestByReturn: el instrumento con mayor retorno. Recorre los
// símbolos ordenados y compara con mayor-estricto: el empate lo gana el
// alfabéticamente menor.
func strongestByReturn(instruments map[string]domain.Instrument, window int) (string, domain.Performance, bool) {
	var (
		bestSymbol string
		bestPerf   domain.Performance
		found      bool
	)
	for _, symbol := range domain.SortedSymbols(instruments) {
		perf, ok := domain.AnalyzePerformance(instruments[symbol].History, window)
		if !ok {
			continue
		}
		if !found || perf.ReturnPct > bestPerf.ReturnPct {
			bestSymbol, bestPerf, found = symbol, perf, true
		}
	}
	return bestSymbol, bestPerf, found
}

func assetFeatured(ideas []domain.Idea, asset string) bool {
	for _, idea := range ideas {
		if idea.Asset == asset {
			return true
		}
	}
	return false
}
