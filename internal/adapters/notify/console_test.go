package notify

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alejandrodnm/dailyideas/internal/domain"
)

func sampleReport() domain.Report {
	return domain.Report{
		Date:            "2025-07-15",
		MarketsAnalyzed: []string{"S&P500", "NASDAQ"},
		DataTypesUsed:   []string{"Price Data", "Technical Indicators"},
		Ideas: []domain.Idea{
			{
				Title:       "Momentum Play: NVDA",
				Type:        "Stock Momentum",
				Asset:       "NVDA",
				Market:      "S&P500",
				Direction:   "Bullish",
				RiskLevel:   domain.RiskMedium,
				TimeHorizon: "1-3 months",
			},
			{
				Title:       "Sector Rotation: Technology",
				Type:        "Sector Play",
				Asset:       "Technology Sector",
				RiskLevel:   domain.RiskMedium,
				TimeHorizon: "3-6 months",
			},
		},
	}
}

func TestNotifySummary_CompactLine(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsoleWriter(&buf, false)

	require.NoError(t, c.NotifyReport(sampleReport()))

	out := buf.String()
	assert.Contains(t, out, "2025-07-15: 2 ideas, 2 markets")
	assert.Contains(t, out, "NVDA")
	// Una sola línea.
	assert.Equal(t, 1, bytes.Count(buf.Bytes(), []byte("\n")))
}

func TestNotifyReport_FullTable(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsoleWriter(&buf, true)

	require.NoError(t, c.NotifyReport(sampleReport()))

	out := buf.String()
	assert.Contains(t, out, "Momentum Play: NVDA")
	assert.Contains(t, out, "Stock Momentum")
	assert.Contains(t, out, "data types: Price Data, Technical Indicators")
}

func TestNotifyReport_Empty(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsoleWriter(&buf, true)

	require.NoError(t, c.NotifyReport(domain.Report{Date: "2025-07-15"}))
	assert.Contains(t, buf.String(), "no investment ideas")
}

func TestCompactName(t *testing.T) {
	assert.Equal(t, "short", compactName("short", 10))
	assert.Equal(t, "very long…", compactName("very long name here", 10))
}
