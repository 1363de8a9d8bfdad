// Package twelvedata implementa el proveedor de barras de Twelve Data:
// fallback para stocks e índices, primario para forex y crypto.
package twelvedata

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/alejandrodnm/dailyideas/internal/adapters/httpclient"
	"github.com/alejandrodnm/dailyideas/internal/domain"
)

// Plan gratuito: 8 créditos/minuto. Un request cada 12s lo respeta incluso
// con el profile opcional de los stocks.
const requestInterval = 12 * time.Second

const outputSize = 30

// Client es el adapter de Twelve Data.
type Client struct {
	api  *httpclient.Client
	base string
	key  string
}

// NewClient crea el adapter. base vacío usa la API de producción.
func NewClient(base, key string) *Client {
	if base == "" {
		base = "https://api.twelvedata.com"
	}
	return &Client{
		api:  httpclient.New(rate.NewLimiter(rate.Every(requestInterval), 1)),
		base: base,
		key:  key,
	}
}

func (c *Client) Name() string { return "twelvedata" }

// Twelve Data devuelve los valores numéricos como strings.
type timeSeriesResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Values  []struct {
		Datetime string `json:"datetime"`
		Open     string `json:"open"`
		High     string `json:"high"`
		Low      string `json:"low"`
		Close    string `json:"close"`
		Volume   string `json:"volume"`
	} `json:"values"`
}

type profileResponse struct {
	Name     string `json:"name"`
	Sector   string `json:"sector"`
	Industry string `json:"industry"`
}

// FetchBars obtiene el histórico diario de cada símbolo. Acepta símbolos en
// notación Yahoo (EURUSD=X) y los traduce a la notación de Twelve Data.
func (c *Client) FetchBars(ctx context.Context, symbols []string) (map[string]domain.Instrument, error) {
	if c.key == "" {
		return nil, fmt.Errorf("twelvedata.FetchBars: missing API key")
	}

	out := make(map[string]domain.Instrument, len(symbols))
	for _, symbol := range symbols {
		inst, err := c.fetchOne(ctx, symbol)
		if err != nil {
			slog.Warn("twelvedata fetch failed", "symbol", symbol, "error", err)
			continue
		}
		out[symbol] = inst
	}
	return out, nil
}

func (c *Client) fetchOne(ctx context.Context, symbol string) (domain.Instrument, error) {
	mapped := translateSymbol(symbol)

	u := fmt.Sprintf("%s/time_series?symbol=%s&interval=1day&outputsize=%d&apikey=%s",
		c.base, url.QueryEscape(mapped), outputSize, url.QueryEscape(c.key))

	var resp timeSeriesResponse
	if err := c.api.GetJSON(ctx, u, &resp); err != nil {
		return domain.Instrument{}, err
	}
	if resp.Status == "error" {
		return domain.Instrument{}, fmt.Errorf("api error: %s", resp.Message)
	}
	if len(resp.Values) == 0 {
		return domain.Instrument{}, fmt.Errorf("empty history")
	}

	// Los valores llegan en orden descendente.
	history := make([]domain.Bar, 0, len(resp.Values))
	for i := len(resp.Values) - 1; i >= 0; i-- {
		v := resp.Values[i]
		bar, err := parseBar(v.Datetime, v.Open, v.High, v.Low, v.Close, v.Volume)
		if err != nil {
			return domain.Instrument{}, fmt.Errorf("bar %s: %w", v.Datetime, err)
		}
		history = append(history, bar)
	}
	domain.SortBars(history)

	inst := domain.Instrument{
		Info:    domain.Info{Symbol: symbol},
		History: history,
	}
	inst.Info.CurrentPrice = domain.LatestClose(history)

	// Metadatos solo para stocks; forex y crypto no tienen profile.
	if !strings.Contains(mapped, "/") {
		c.enrichProfile(ctx, mapped, &inst.Info)
	}
	return inst, nil
}

func (c *Client) enrichProfile(ctx context.Context, mapped string, info *domain.Info) {
	u := fmt.Sprintf("%s/profile?symbol=%s&apikey=%s",
		c.base, url.QueryEscape(mapped), url.QueryEscape(c.key))

	var p profileResponse
	if err := c.api.GetJSON(ctx, u, &p); err != nil {
		slog.Debug("twelvedata profile unavailable", "symbol", mapped, "error", err)
		return
	}
	info.ShortName = p.Name
	info.LongName = p.Name
	info.Sector = p.Sector
	info.Industry = p.Industry
}

func parseBar(date, open, high, low, closePx, volume string) (domain.Bar, error) {
	bar := domain.Bar{Date: date}
	if len(date) > 10 {
		bar.Date = date[:10]
	}

	var err error
	if bar.Open, err = strconv.ParseFloat(open, 64); err != nil {
		return bar, fmt.Errorf("open: %w", err)
	}
	if bar.High, err = strconv.ParseFloat(high, 64); err != nil {
		return bar, fmt.Errorf("high: %w", err)
	}
	if bar.Low, err = strconv.ParseFloat(low, 64); err != nil {
		return bar, fmt.Errorf("low: %w", err)
	}
	if bar.Close, err = strconv.ParseFloat(closePx, 64); err != nil {
		return bar, fmt.Errorf("close: %w", err)
	}
	// Forex y crypto no traen volumen.
	if volume != "" {
		if bar.Volume, err = strconv.ParseFloat(volume, 64); err != nil {
			return bar, fmt.Errorf("volume: %w", err)
		}
	}
	return bar, nil
}

// translateSymbol convierte la notación Yahoo de pares forex (EURUSD=X)
// a la notación con barra de Twelve Data (EUR/USD). Los pares crypto ya
// vienen con barra y los stocks pasan tal cual.
func translateSymbol(symbol string) string {
	if base, ok := strings.CutSuffix(symbol, "=X"); ok && len(base) == 6 {
		return base[:3] + "/" + base[3:]
	}
	return symbol
}
