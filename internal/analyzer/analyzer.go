// Package analyzer ejecuta la etapa de análisis: carga el snapshot más
// reciente de cada tipo, calcula métricas y genera el reporte de ideas.
// Cada bloque de datos y cada regla degradan por separado: lo que falte se
// loguea y el resto del análisis continúa.
package analyzer

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/alejandrodnm/dailyideas/config"
	"github.com/alejandrodnm/dailyideas/internal/adapters/rawstore"
	"github.com/alejandrodnm/dailyideas/internal/domain"
)

// Analyzer orquesta la etapa de análisis.
type Analyzer struct {
	cfg   *config.Config
	store *rawstore.Store
	now   func() time.Time
}

// New crea el Analyzer.
func New(cfg *config.Config, store *rawstore.Store) *Analyzer {
	return &Analyzer{cfg: cfg, store: store, now: time.Now}
}

// dataset agrupa los snapshots más recientes de cada tipo. Los campos que
// no se pudieron cargar quedan vacíos.
type dataset struct {
	markets map[string]marketData
	forex   map[string]domain.Instrument
	bonds   map[string]domain.Instrument
	crypto  map[string]domain.Instrument
	news    []domain.NewsResult

	econ       []domain.EconSeries
	quotes     map[string]domain.Quote
	earnings   map[string][]domain.EarningsReport
	insiders   map[string][]domain.InsiderTransaction
	sentiments map[string]domain.Sentiment
}

type marketData struct {
	index  *domain.Instrument
	stocks map[string]domain.Instrument
}

// Run carga los datos, genera las ideas y escribe el reporte del día.
func (a *Analyzer) Run(_ context.Context) (domain.Report, error) {
	data := a.loadDataset()

	window := a.cfg.Analyzer.PerformanceWindow

	// Análisis por mercado, en el orden de la config.
	var analyses []domain.MarketAnalysis
	for _, m := range a.cfg.Markets {
		md, ok := data.markets[m.Name]
		if !ok {
			continue
		}
		analyses = append(analyses, domain.AnalyzeMarket(m.Name, m.Index, md.index, md.stocks, window))
	}

	profiles := a.buildAltProfiles(data)
	a.logNewsSentiment(data.news)

	ideas := generateIdeas(analyses, profiles, data, window)

	report := buildReport(a.now(), ideas, analyses)
	if err := a.store.SaveReport(report); err != nil {
		return domain.Report{}, err
	}

	slog.Info("analysis finished",
		"date", report.Date, "ideas", len(ideas), "markets", len(analyses))
	return report, nil
}

// loadDataset carga el snapshot más reciente de cada tipo, best-effort.
func (a *Analyzer) loadDataset() dataset {
	data := dataset{markets: map[string]marketData{}}

	for _, m := range a.cfg.Markets {
		md := marketData{}
		if snap, err := a.store.LoadLatestBars("index_" + m.Name); err == nil {
			if inst, ok := snap.Instruments[m.Index]; ok {
				md.index = &inst
			}
		} else {
			slog.Warn("no index snapshot", "market", m.Name, "error", err)
		}
		if snap, err := a.store.LoadLatestBars("stocks_" + m.Name); err == nil {
			md.stocks = snap.Instruments
		} else {
			slog.Warn("no stocks snapshot", "market", m.Name, "error", err)
		}
		if md.index != nil || len(md.stocks) > 0 {
			data.markets[m.Name] = md
		}
	}

	data.forex = a.loadBars("forex")
	data.bonds = a.loadBars("bonds")
	data.crypto = a.loadBars("crypto")

	if _, err := a.store.LoadLatestDocument("news", &data.news); err != nil {
		slog.Warn("no news snapshot", "error", err)
	}
	if _, err := a.store.LoadLatestDocument("fred", &data.econ); err != nil {
		slog.Warn("no macro snapshot", "error", err)
	}
	if _, err := a.store.LoadLatestDocument("finnhub_quotes", &data.quotes); err != nil {
		slog.Debug("no quotes snapshot", "error", err)
	}
	if _, err := a.store.LoadLatestDocument("finnhub_earnings", &data.earnings); err != nil {
		slog.Debug("no earnings snapshot", "error", err)
	}
	if _, err := a.store.LoadLatestDocument("finnhub_insider", &data.insiders); err != nil {
		slog.Debug("no insider snapshot", "error", err)
	}
	if _, err := a.store.LoadLatestDocument("finnhub_sentiment", &data.sentiments); err != nil {
		slog.Debug("no sentiment snapshot", "error", err)
	}

	return data
}

func (a *Analyzer) loadBars(dataType string) map[string]domain.Instrument {
	snap, err := a.store.LoadLatestBars(dataType)
	if err != nil {
		slog.Warn("no snapshot", "type", dataType, "error", err)
		return nil
	}
	return snap.Instruments
}

// buildAltProfiles combina los cuatro snapshots de Finnhub por símbolo, en
// orden alfabético.
func (a *Analyzer) buildAltProfiles(data dataset) []domain.AltDataProfile {
	symbols := map[string]bool{}
	for s := range data.quotes {
		symbols[s] = true
	}
	for s := range data.earnings {
		symbols[s] = true
	}
	for s := range data.insiders {
		symbols[s] = true
	}
	for s := range data.sentiments {
		symbols[s] = true
	}
	if len(symbols) == 0 {
		return nil
	}

	ordered := make([]string, 0, len(symbols))
	for s := range symbols {
		ordered = append(ordered, s)
	}
	sort.Strings(ordered)

	now := a.now()
	profiles := make([]domain.AltDataProfile, 0, len(ordered))
	for _, symbol := range ordered {
		var quote *domain.Quote
		if q, ok := data.quotes[symbol]; ok {
			quote = &q
		}
		var sentiment *domain.Sentiment
		if s, ok := data.sentiments[symbol]; ok {
			sentiment = &s
		}
		profiles = append(profiles, domain.BuildAltProfile(
			symbol, quote, sentiment, data.earnings[symbol], data.insiders[symbol], now))
	}
	return profiles
}

// logNewsSentiment calcula y loguea el sentimiento por tema. El detalle no
// entra en el reporte; sirve al operador para leer el contexto del día.
func (a *Analyzer) logNewsSentiment(news []domain.NewsResult) {
	for _, topic := range news {
		score, count := TopicSentiment(topic)
		if count == 0 {
			continue
		}
		slog.Info("news sentiment",
			"topic", topic.Query, "avg_sentiment", score, "articles", count)
	}
}
