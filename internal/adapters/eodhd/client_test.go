package eodhd

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchBars_ParsesHistory(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/eod/AAPL"):
			assert.Equal(t, "test-key", r.URL.Query().Get("api_token"))
			assert.Equal(t, "json", r.URL.Query().Get("fmt"))
			w.Write([]byte(`[
				{"date":"2025-07-02","open":101,"high":103,"low":100,"close":102,"volume":2000},
				{"date":"2025-07-01","open":100,"high":102,"low":99,"close":101,"volume":1000}
			]`))
		case strings.HasPrefix(r.URL.Path, "/real-time/AAPL"):
			w.Write([]byte(`{"close":102.5}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key")
	c.now = func() time.Time { return time.Date(2025, 7, 3, 0, 0, 0, 0, time.UTC) }

	got, err := c.FetchBars(context.Background(), []string{"AAPL"})
	require.NoError(t, err)
	require.Contains(t, got, "AAPL")

	inst := got["AAPL"]
	require.Len(t, inst.History, 2)
	// Las barras llegan en cualquier orden y se ordenan ascendente.
	assert.Equal(t, "2025-07-01", inst.History[0].Date)
	assert.Equal(t, "2025-07-02", inst.History[1].Date)
	assert.Equal(t, 102.5, inst.Info.CurrentPrice)
}

func TestFetchBars_IndexUsesProxyETF(t *testing.T) {
	var eodPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/eod/") {
			eodPath = r.URL.Path
			w.Write([]byte(`[{"date":"2025-07-01","open":500,"high":505,"low":499,"close":503,"volume":9000}]`))
			return
		}
		// /real-time fuera de horario
		w.Write([]byte(`{"close":"NA"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "k")
	got, err := c.FetchBars(context.Background(), []string{"^GSPC"})
	require.NoError(t, err)

	assert.Equal(t, "/eod/SPY.US", eodPath)
	// El símbolo del output es el original, no el proxy.
	require.Contains(t, got, "^GSPC")
	assert.Equal(t, "^GSPC", got["^GSPC"].Info.Symbol)
	assert.Equal(t, 503.0, got["^GSPC"].Info.CurrentPrice)
}

func TestFetchBars_SkipsFailedSymbols(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/eod/GOOD") {
			w.Write([]byte(`[{"date":"2025-07-01","open":1,"high":1,"low":1,"close":1,"volume":1}]`))
			return
		}
		http.Error(w, "unknown symbol", http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "k")
	got, err := c.FetchBars(context.Background(), []string{"BAD", "GOOD"})
	require.NoError(t, err)
	assert.NotContains(t, got, "BAD")
	assert.Contains(t, got, "GOOD")
}

func TestFetchBars_MissingKey(t *testing.T) {
	c := NewClient("http://unused", "")
	_, err := c.FetchBars(context.Background(), []string{"AAPL"})
	assert.Error(t, err)
}
