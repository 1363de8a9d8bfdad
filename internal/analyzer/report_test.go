package analyzer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/alejandrodnm/dailyideas/internal/domain"
)

func TestBuildReport_SourcesAndTypes(t *testing.T) {
	now := time.Date(2025, 7, 15, 18, 30, 0, 0, time.UTC)
	ideas := []domain.Idea{
		{Title: "A", Market: "S&P500", Sector: "Technology", Metrics: map[string]any{"rsi": 55.0}},
		{Title: "B", Metrics: map[string]any{"finnhub_score": 7.0, "sentiment": 0.8}},
		{Title: "C", Metrics: map[string]any{"net_buys": 3}},
	}
	analyses := []domain.MarketAnalysis{{Market: "S&P500"}, {Market: "NASDAQ"}}

	report := buildReport(now, ideas, analyses)

	assert.Equal(t, "2025-07-15", report.Date)
	assert.Equal(t, "2025-07-15T18:30:00Z", report.GeneratedAt)
	assert.Equal(t, []string{"S&P500", "NASDAQ"}, report.MarketsAnalyzed)

	assert.Equal(t,
		[]string{"Technical Indicators", "Alternative Data", "Insider Trading Data", "News Sentiment"},
		report.DataTypesUsed)

	assert.Equal(t, "S&P500", report.DataSources["Market Indices"])
	assert.Equal(t, "Technology", report.DataSources["Sectors Analyzed"])
	assert.Equal(t, "RSI, MACD, Moving Averages", report.DataSources["Technical Analysis"])
	assert.Equal(t, "News API", report.DataSources["News Sentiment"])
	assert.Equal(t, "Finnhub API", report.DataSources["Insider Trading"])
}

func TestBuildReport_NoIdeas(t *testing.T) {
	report := buildReport(time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC), nil, nil)

	assert.Empty(t, report.Ideas)
	assert.Empty(t, report.DataTypesUsed)
	assert.Equal(t, "S&P 500, NASDAQ, FTSE 100", report.DataSources["Market Indices"])
	assert.Equal(t, "Various sectors", report.DataSources["Sectors Analyzed"])
	assert.Equal(t, "Not used", report.DataSources["Technical Analysis"])
}
