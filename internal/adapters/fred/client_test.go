package fred

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const obsPath = "/fred/series/observations"

func TestFetchBars_BondYields(t *testing.T) {
	var seenSeries string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, obsPath, r.URL.Path)
		seenSeries = r.URL.Query().Get("series_id")
		w.Write([]byte(`{"observations":[
			{"date":"2025-07-01","value":"4.25"},
			{"date":"2025-07-02","value":"."},
			{"date":"2025-07-03","value":"4.31"}
		]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key")
	got, err := c.FetchBars(context.Background(), []string{"^TNX"})
	require.NoError(t, err)

	assert.Equal(t, "DGS10", seenSeries)
	require.Contains(t, got, "^TNX")

	inst := got["^TNX"]
	// El "." (sin dato) se salta.
	require.Len(t, inst.History, 2)
	assert.Equal(t, 4.25, inst.History[0].Close)
	assert.Equal(t, 4.25, inst.History[0].Open)
	assert.Equal(t, 0.0, inst.History[0].Volume)
	assert.Equal(t, 4.31, inst.Info.CurrentPrice)
}

func TestFetchBars_UnmappedSymbolSkipped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"observations":[{"date":"2025-07-01","value":"4.25"}]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "k")
	got, err := c.FetchBars(context.Background(), []string{"^NOPE", "^TNX"})
	require.NoError(t, err)
	assert.NotContains(t, got, "^NOPE")
	assert.Contains(t, got, "^TNX")
}

func TestFetchSeries_Macro(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "UNRATE", r.URL.Query().Get("series_id"))
		w.Write([]byte(`{"observations":[
			{"date":"2025-05-01","value":"4.0"},
			{"date":"2025-06-01","value":"4.1"}
		]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "k")
	series, err := c.FetchSeries(context.Background(), "UNRATE")
	require.NoError(t, err)

	assert.Equal(t, "UNRATE", series.SeriesID)
	require.Len(t, series.Observations, 2)
	assert.Equal(t, 4.1, series.Observations[1].Value)
}

func TestFetchSeries_MissingKey(t *testing.T) {
	c := NewClient("http://unused", "")
	_, err := c.FetchSeries(context.Background(), "UNRATE")
	assert.Error(t, err)
}
