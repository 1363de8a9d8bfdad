// Package fred implementa el proveedor de rendimientos de bonos del Tesoro
// y series macroeconómicas sobre la API de FRED (St. Louis Fed).
package fred

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/alejandrodnm/dailyideas/internal/adapters/httpclient"
	"github.com/alejandrodnm/dailyideas/internal/domain"
)

const requestInterval = 500 * time.Millisecond

const (
	bondHistoryDays  = 90
	macroHistoryDays = 400
)

// Tickers Yahoo de bonos → series FRED de rendimiento constante.
var bondSeries = map[string]string{
	"^TNX": "DGS10",
	"^TYX": "DGS30",
	"^FVX": "DGS5",
	"^IRX": "DTB3",
}

// Client es el adapter de FRED.
type Client struct {
	api  *httpclient.Client
	base string
	key  string
	now  func() time.Time
}

// NewClient crea el adapter. base vacío usa la API de producción.
func NewClient(base, key string) *Client {
	if base == "" {
		base = "https://api.stlouisfed.org"
	}
	return &Client{
		api:  httpclient.New(rate.NewLimiter(rate.Every(requestInterval), 1)),
		base: base,
		key:  key,
		now:  time.Now,
	}
}

func (c *Client) Name() string { return "fred" }

type observationsResponse struct {
	Observations []struct {
		Date  string `json:"date"`
		Value string `json:"value"`
	} `json:"observations"`
}

// FetchBars obtiene rendimientos de bonos como barras diarias
// (O=H=L=C=valor, sin volumen). Símbolos sin serie mapeada se omiten.
func (c *Client) FetchBars(ctx context.Context, symbols []string) (map[string]domain.Instrument, error) {
	if c.key == "" {
		return nil, fmt.Errorf("fred.FetchBars: missing API key")
	}

	out := make(map[string]domain.Instrument, len(symbols))
	for _, symbol := range symbols {
		seriesID, ok := bondSeries[symbol]
		if !ok {
			slog.Warn("no FRED series mapped for bond", "symbol", symbol)
			continue
		}

		obs, err := c.fetchObservations(ctx, seriesID, bondHistoryDays)
		if err != nil {
			slog.Warn("fred fetch failed", "symbol", symbol, "series", seriesID, "error", err)
			continue
		}
		if len(obs) == 0 {
			continue
		}

		history := make([]domain.Bar, len(obs))
		for i, o := range obs {
			history[i] = domain.Bar{
				Date:  o.Date,
				Open:  o.Value,
				High:  o.Value,
				Low:   o.Value,
				Close: o.Value,
			}
		}

		out[symbol] = domain.Instrument{
			Info: domain.Info{
				Symbol:       symbol,
				ShortName:    seriesID,
				CurrentPrice: history[len(history)-1].Close,
			},
			History: history,
		}
	}
	return out, nil
}

// FetchSeries obtiene una serie macro (UNRATE, CPIAUCSL, ...) con algo más
// de un año de observaciones.
func (c *Client) FetchSeries(ctx context.Context, seriesID string) (domain.EconSeries, error) {
	if c.key == "" {
		return domain.EconSeries{}, fmt.Errorf("fred.FetchSeries: missing API key")
	}
	obs, err := c.fetchObservations(ctx, seriesID, macroHistoryDays)
	if err != nil {
		return domain.EconSeries{}, fmt.Errorf("fred.FetchSeries %s: %w", seriesID, err)
	}
	return domain.EconSeries{SeriesID: seriesID, Observations: obs}, nil
}

func (c *Client) fetchObservations(ctx context.Context, seriesID string, days int) ([]domain.EconObservation, error) {
	start := c.now().AddDate(0, 0, -days).Format("2006-01-02")

	u := fmt.Sprintf("%s/fred/series/observations?series_id=%s&api_key=%s&file_type=json&observation_start=%s&sort_order=asc",
		c.base, url.QueryEscape(seriesID), url.QueryEscape(c.key), start)

	var resp observationsResponse
	if err := c.api.GetJSON(ctx, u, &resp); err != nil {
		return nil, err
	}

	obs := make([]domain.EconObservation, 0, len(resp.Observations))
	for _, o := range resp.Observations {
		// FRED marca los días sin dato con ".".
		if o.Value == "." {
			continue
		}
		v, err := strconv.ParseFloat(o.Value, 64)
		if err != nil {
			return nil, fmt.Errorf("observation %s: %w", o.Date, err)
		}
		obs = append(obs, domain.EconObservation{Date: o.Date, Value: v})
	}
	return obs, nil
}
