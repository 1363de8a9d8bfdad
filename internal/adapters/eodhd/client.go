// Package eodhd implementa el proveedor primario de barras diarias para
// stocks e índices sobre la API de EODHD.
package eodhd

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/alejandrodnm/dailyideas/internal/adapters/httpclient"
	"github.com/alejandrodnm/dailyideas/internal/domain"
)

// Plan gratuito: margen holgado con ~1 request/segundo.
const requestsPerSec = 1

// historyDays: días de histórico pedidos; suficiente para SMA50.
const historyDays = 90

// Los índices no están en el plan básico: se aproximan con el ETF que los
// replica. El símbolo original se conserva en el output.
var indexProxies = map[string]string{
	"^GSPC": "SPY.US",
	"^IXIC": "QQQ.US",
	"^DJI":  "DIA.US",
	"^FTSE": "EZU.US",
	"^N225": "EWJ.US",
	"^HSI":  "FXI.US",
	"^TNX":  "TLT.US",
	"^TYX":  "TBT.US",
}

// Client es el adapter de EODHD.
type Client struct {
	api  *httpclient.Client
	base string
	key  string
	now  func() time.Time
}

// NewClient crea el adapter. base vacío usa la API de producción.
func NewClient(base, key string) *Client {
	if base == "" {
		base = "https://eodhd.com/api"
	}
	return &Client{
		api:  httpclient.New(rate.NewLimiter(requestsPerSec, 1)),
		base: base,
		key:  key,
		now:  time.Now,
	}
}

func (c *Client) Name() string { return "eodhd" }

type eodBar struct {
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}

type realTimeQuote struct {
	Close any `json:"close"` // número, o "NA" fuera de horario
}

// FetchBars obtiene el histórico diario de cada símbolo. Los símbolos que
// fallan se omiten del resultado; devuelve error solo sin API key.
func (c *Client) FetchBars(ctx context.Context, symbols []string) (map[string]domain.Instrument, error) {
	if c.key == "" {
		return nil, fmt.Errorf("eodhd.FetchBars: missing API key")
	}

	to := c.now().Format("2006-01-02")
	from := c.now().AddDate(0, 0, -historyDays).Format("2006-01-02")

	out := make(map[string]domain.Instrument, len(symbols))
	for _, symbol := range symbols {
		inst, err := c.fetchOne(ctx, symbol, from, to)
		if err != nil {
			slog.Warn("eodhd fetch failed", "symbol", symbol, "error", err)
			continue
		}
		out[symbol] = inst
	}
	return out, nil
}

func (c *Client) fetchOne(ctx context.Context, symbol, from, to string) (domain.Instrument, error) {
	mapped := symbol
	if proxy, ok := indexProxies[symbol]; ok {
		mapped = proxy
	}

	u := fmt.Sprintf("%s/eod/%s?api_token=%s&from=%s&to=%s&fmt=json",
		c.base, url.PathEscape(mapped), url.QueryEscape(c.key), from, to)

	var bars []eodBar
	if err := c.api.GetJSON(ctx, u, &bars); err != nil {
		return domain.Instrument{}, err
	}
	if len(bars) == 0 {
		return domain.Instrument{}, fmt.Errorf("empty history")
	}

	history := make([]domain.Bar, len(bars))
	for i, b := range bars {
		history[i] = domain.Bar{
			Date:   b.Date,
			Open:   b.Open,
			High:   b.High,
			Low:    b.Low,
			Close:  b.Close,
			Volume: b.Volume,
		}
	}
	domain.SortBars(history)

	inst := domain.Instrument{
		Info:    domain.Info{Symbol: symbol},
		History: history,
	}
	inst.Info.CurrentPrice = domain.LatestClose(history)

	// Precio en vivo, best-effort: fuera de horario devuelve "NA".
	if price, ok := c.realTimePrice(ctx, mapped); ok {
		inst.Info.CurrentPrice = price
	}
	return inst, nil
}

func (c *Client) realTimePrice(ctx context.Context, mapped string) (float64, bool) {
	u := fmt.Sprintf("%s/real-time/%s?api_token=%s&fmt=json",
		c.base, url.PathEscape(mapped), url.QueryEscape(c.key))

	var q realTimeQuote
	if err := c.api.GetJSON(ctx, u, &q); err != nil {
		return 0, false
	}
	price, ok := q.Close.(float64)
	return price, ok && price > 0
}
