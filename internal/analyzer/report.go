package analyzer

import (
	"sort"
	"strings"
	"time"

	"github.com/alejandrodnm/dailyideas/internal/domain"
)

// buildReport arma el reporte final a partir de las ideas generadas. Los
// listados derivados de las ideas se ordenan alfabéticamente para que el
// output sea estable entre runs.
func buildReport(now time.Time, ideas []domain.Idea, analyses []domain.MarketAnalysis) domain.Report {
	marketsUsed := map[string]bool{}
	sectorsUsed := map[string]bool{}
	typesUsed := map[string]bool{}

	for _, idea := range ideas {
		if idea.Market != "" {
			marketsUsed[idea.Market] = true
		}
		if idea.Sector != "" {
			sectorsUsed[idea.Sector] = true
		}
		if _, ok := idea.Metrics["rsi"]; ok {
			typesUsed["Technical Indicators"] = true
		}
		if _, ok := idea.Metrics["macd"]; ok {
			typesUsed["Technical Indicators"] = true
		}
		if _, ok := idea.Metrics["finnhub_score"]; ok {
			typesUsed["Alternative Data"] = true
		}
		if _, ok := idea.Metrics["net_buys"]; ok {
			typesUsed["Insider Trading Data"] = true
		}
		if _, ok := idea.Metrics["sentiment"]; ok {
			typesUsed["News Sentiment"] = true
		}
	}

	dataSources := map[string]string{
		"Stock Data":       "EODHD, Twelve Data, and Finnhub APIs",
		"Market Indices":   joinOrDefault(marketsUsed, "S&P 500, NASDAQ, FTSE 100"),
		"Sectors Analyzed": joinOrDefault(sectorsUsed, "Various sectors"),
		"Economic Data":    "FRED (Federal Reserve Economic Data)",
		"Technical Analysis": pickUsed(typesUsed["Technical Indicators"],
			"RSI, MACD, Moving Averages"),
		"News Sentiment":  pickUsed(typesUsed["News Sentiment"], "News API"),
		"Insider Trading": pickUsed(typesUsed["Insider Trading Data"], "Finnhub API"),
	}

	markets := make([]string, 0, len(analyses))
	for _, ma := range analyses {
		markets = append(markets, ma.Market)
	}

	// Orden fijo, filtrado por uso.
	var dataTypes []string
	for _, t := range []string{"Technical Indicators", "Alternative Data", "Insider Trading Data", "News Sentiment"} {
		if typesUsed[t] {
			dataTypes = append(dataTypes, t)
		}
	}

	return domain.Report{
		Date:            now.Format("2006-01-02"),
		Ideas:           ideas,
		DataSources:     dataSources,
		MarketsAnalyzed: markets,
		DataTypesUsed:   dataTypes,
		GeneratedAt:     now.Format(time.RFC3339),
	}
}

func joinOrDefault(set map[string]bool, fallback string) string {
	if len(set) == 0 {
		return fallback
	}
	items := make([]string, 0, len(set))
	for item := range set {
		items = append(items, item)
	}
	sort.Strings(items)
	return strings.Join(items, ", ")
}

func pickUsed(used bool, value string) string {
	if used {
		return value
	}
	return "Not used"
}
