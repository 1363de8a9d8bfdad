// Package collector ejecuta la etapa de recolección diaria: cada tipo de
// dato se pide a su cadena de proveedores en orden y lo que ningún
// proveedor resuelve cae al generador sintético (barras) o queda
// registrado como fallo (noticias, macro, datos alternativos). Un fallo
// nunca aborta el run.
package collector

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/alejandrodnm/dailyideas/config"
	"github.com/alejandrodnm/dailyideas/internal/adapters/rawstore"
	"github.com/alejandrodnm/dailyideas/internal/domain"
	"github.com/alejandrodnm/dailyideas/internal/ports"
)

// FailedItem registra un ítem que ningún proveedor real resolvió.
type FailedItem struct {
	Type       string   `json:"type"`
	Item       string   `json:"item"`
	Providers  []string `json:"providers_tried"`
	Resolution string   `json:"resolution"` // synthetic | missing
}

// Summary es el resultado de un run de recolección.
type Summary struct {
	Date        string       `json:"date"`
	Items       int          `json:"items"`
	FailedItems []FailedItem `json:"failed_items"`
}

// Failures cuenta los ítems no resueltos por proveedores reales.
func (s Summary) Failures() int { return len(s.FailedItems) }

// Collector orquesta la recolección. Las cadenas de barras terminan en el
// generador sintético; news/econ/altdata no tienen sintético.
type Collector struct {
	cfg   *config.Config
	store *rawstore.Store

	stocks []ports.BarProvider
	forex  []ports.BarProvider
	bonds  []ports.BarProvider
	crypto []ports.BarProvider

	news ports.NewsProvider    // nil si no hay API key
	econ ports.EconProvider    // nil si no hay API key
	alt  ports.AltDataProvider // nil si no hay API key

	now func() time.Time
}

// New crea el Collector con las cadenas de proveedores ya ordenadas.
func New(cfg *config.Config, store *rawstore.Store, stocks, forex, bonds, crypto []ports.BarProvider, news ports.NewsProvider, econ ports.EconProvider, alt ports.AltDataProvider) *Collector {
	return &Collector{
		cfg:    cfg,
		store:  store,
		stocks: stocks,
		forex:  forex,
		bonds:  bonds,
		crypto: crypto,
		news:   news,
		econ:   econ,
		alt:    alt,
		now:    time.Now,
	}
}

// Run ejecuta la recolección completa y guarda un snapshot por tipo más el
// resumen de fallos.
func (c *Collector) Run(ctx context.Context) (Summary, error) {
	date := c.now().Format("2006-01-02")
	summary := Summary{Date: date}

	for _, market := range c.cfg.Markets {
		c.collectBars(ctx, &summary, "index_"+market.Name, c.stocks, []string{market.Index})
		c.collectBars(ctx, &summary, "stocks_"+market.Name, c.stocks, market.Stocks)
	}
	c.collectBars(ctx, &summary, "forex", c.forex, c.cfg.Collector.ForexPairs)
	c.collectBars(ctx, &summary, "bonds", c.bonds, c.cfg.Collector.Bonds)
	c.collectBars(ctx, &summary, "crypto", c.crypto, c.cfg.Collector.CryptoPairs)

	c.collectNews(ctx, &summary)
	c.collectEcon(ctx, &summary)
	c.collectAltData(ctx, &summary)

	if err := c.store.SaveDocument("failed_items", date, summary.FailedItems); err != nil {
		slog.Error("failed to save failure summary", "error", err)
	}

	slog.Info("collection finished",
		"date", date, "items", summary.Items, "failures", summary.Failures())
	return summary, nil
}

// collectBars recorre la cadena de proveedores: cada proveedor recibe solo
// los símbolos que los anteriores no resolvieron.
func (c *Collector) collectBars(ctx context.Context, summary *Summary, dataType string, chain []ports.BarProvider, symbols []string) {
	if len(symbols) == 0 {
		return
	}

	collected := make(map[string]domain.Instrument, len(symbols))
	pending := symbols
	var tried []string

	for _, provider := range chain {
		if len(pending) == 0 {
			break
		}

		got, err := provider.FetchBars(ctx, pending)
		if err != nil {
			slog.Warn("provider unavailable",
				"type", dataType, "provider", provider.Name(), "error", err)
			if provider.Name() != "synthetic" {
				tried = append(tried, provider.Name())
			}
			continue
		}

		var still []string
		for _, symbol := range pending {
			if inst, ok := got[symbol]; ok {
				collected[symbol] = inst
				if provider.Name() == "synthetic" {
					summary.FailedItems = append(summary.FailedItems, FailedItem{
						Type:       dataType,
						Item:       symbol,
						Providers:  tried,
						Resolution: "synthetic",
					})
				}
			} else {
				still = append(still, symbol)
			}
		}
		pending = still
		if provider.Name() != "synthetic" {
			tried = append(tried, provider.Name())
		}
	}

	for _, symbol := range pending {
		summary.FailedItems = append(summary.FailedItems, FailedItem{
			Type:       dataType,
			Item:       symbol,
			Providers:  tried,
			Resolution: "missing",
		})
	}

	summary.Items += len(collected)
	if err := c.store.SaveBars(dataType, summary.Date, collected); err != nil {
		slog.Error("failed to save snapshot", "type", dataType, "error", err)
	}
}

func (c *Collector) collectNews(ctx context.Context, summary *Summary) {
	if c.news == nil {
		c.recordMissing(summary, "news", c.cfg.Collector.NewsQueries, nil)
		return
	}

	var results []domain.NewsResult
	for _, query := range c.cfg.Collector.NewsQueries {
		result, err := c.news.FetchNews(ctx, query)
		if err != nil {
			slog.Warn("news fetch failed", "query", query, "error", err)
			summary.FailedItems = append(summary.FailedItems, FailedItem{
				Type: "news", Item: query, Providers: []string{c.news.Name()}, Resolution: "missing",
			})
			continue
		}
		results = append(results, result)
		summary.Items++
	}
	if err := c.store.SaveDocument("news", summary.Date, results); err != nil {
		slog.Error("failed to save snapshot", "type", "news", "error", err)
	}
}

func (c *Collector) collectEcon(ctx context.Context, summary *Summary) {
	if c.econ == nil {
		c.recordMissing(summary, "fred", c.cfg.Collector.FredSeries, nil)
		return
	}

	var series []domain.EconSeries
	for _, id := range c.cfg.Collector.FredSeries {
		s, err := c.econ.FetchSeries(ctx, id)
		if err != nil {
			slog.Warn("econ series fetch failed", "series", id, "error", err)
			summary.FailedItems = append(summary.FailedItems, FailedItem{
				Type: "fred", Item: id, Providers: []string{c.econ.Name()}, Resolution: "missing",
			})
			continue
		}
		series = append(series, s)
		summary.Items++
	}
	if err := c.store.SaveDocument("fred", summary.Date, series); err != nil {
		slog.Error("failed to save snapshot", "type", "fred", "error", err)
	}
}

// collectAltData pide datos alternativos para los primeros N stocks de
// cada mercado (deduplicados, en el orden de la config).
func (c *Collector) collectAltData(ctx context.Context, summary *Summary) {
	symbols := c.altSymbols()
	if c.alt == nil {
		c.recordMissing(summary, "finnhub", symbols, nil)
		return
	}

	quotes := map[string]domain.Quote{}
	earnings := map[string][]domain.EarningsReport{}
	insiders := map[string][]domain.InsiderTransaction{}
	sentiments := map[string]domain.Sentiment{}

	for _, symbol := range symbols {
		ok := false
		if q, err := c.alt.FetchQuote(ctx, symbol); err == nil {
			quotes[symbol] = q
			ok = true
		} else {
			slog.Warn("quote fetch failed", "symbol", symbol, "error", err)
		}
		if e, err := c.alt.FetchEarnings(ctx, symbol); err == nil && len(e) > 0 {
			earnings[symbol] = e
			ok = true
		}
		if txs, err := c.alt.FetchInsiderTransactions(ctx, symbol); err == nil && len(txs) > 0 {
			insiders[symbol] = txs
			ok = true
		}
		if s, err := c.alt.FetchSentiment(ctx, symbol); err == nil {
			sentiments[symbol] = s
			ok = true
		}

		if ok {
			summary.Items++
		} else {
			summary.FailedItems = append(summary.FailedItems, FailedItem{
				Type: "finnhub", Item: symbol, Providers: []string{c.alt.Name()}, Resolution: "missing",
			})
		}
	}

	for dataType, payload := range map[string]any{
		"finnhub_quotes":    quotes,
		"finnhub_earnings":  earnings,
		"finnhub_insider":   insiders,
		"finnhub_sentiment": sentiments,
	} {
		if err := c.store.SaveDocument(dataType, summary.Date, payload); err != nil {
			slog.Error("failed to save snapshot", "type", dataType, "error", err)
		}
	}
}

// altSymbols devuelve los primeros AltSymbolsPerMarket stocks de cada
// mercado, sin duplicados y en orden de configuración.
func (c *Collector) altSymbols() []string {
	seen := map[string]bool{}
	var out []string
	for _, market := range c.cfg.Markets {
		count := 0
		for _, symbol := range market.Stocks {
			if count >= c.cfg.Collector.AltSymbolsPerMarket {
				break
			}
			count++
			if seen[symbol] {
				continue
			}
			seen[symbol] = true
			out = append(out, symbol)
		}
	}
	return out
}

func (c *Collector) recordMissing(summary *Summary, dataType string, items []string, providers []string) {
	for _, item := range items {
		summary.FailedItems = append(summary.FailedItems, FailedItem{
			Type: dataType, Item: item, Providers: providers, Resolution: "missing",
		})
	}
	slog.Warn(fmt.Sprintf("%s collection skipped: no provider configured", dataType))
}
