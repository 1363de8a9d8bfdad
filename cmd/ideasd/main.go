// Command ideasd ejecuta el pipeline diario de ideas de inversión:
// recolección de datos de mercado, análisis y sincronización opcional
// con object storage y redis. Sin flags de etapa ejecuta el pipeline
// completo.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/alejandrodnm/dailyideas/config"
	"github.com/alejandrodnm/dailyideas/internal/adapters/cache"
	"github.com/alejandrodnm/dailyideas/internal/adapters/eodhd"
	"github.com/alejandrodnm/dailyideas/internal/adapters/finnhub"
	"github.com/alejandrodnm/dailyideas/internal/adapters/fred"
	"github.com/alejandrodnm/dailyideas/internal/adapters/newsapi"
	"github.com/alejandrodnm/dailyideas/internal/adapters/notify"
	"github.com/alejandrodnm/dailyideas/internal/adapters/objectstore"
	"github.com/alejandrodnm/dailyideas/internal/adapters/rawstore"
	"github.com/alejandrodnm/dailyideas/internal/adapters/storage"
	"github.com/alejandrodnm/dailyideas/internal/adapters/synthetic"
	"github.com/alejandrodnm/dailyideas/internal/adapters/twelvedata"
	"github.com/alejandrodnm/dailyideas/internal/analyzer"
	"github.com/alejandrodnm/dailyideas/internal/collector"
	"github.com/alejandrodnm/dailyideas/internal/domain"
	"github.com/alejandrodnm/dailyideas/internal/ports"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Ruta al archivo de configuración")
	collectOnly := flag.Bool("collect", false, "Ejecutar solo la etapa de recolección")
	analyzeOnly := flag.Bool("analyze", false, "Ejecutar solo la etapa de análisis")
	syncOnly := flag.Bool("sync", false, "Ejecutar solo la sincronización con cloud")
	offline := flag.Bool("offline", false, "No llamar APIs externas: usar solo datos sintéticos")
	table := flag.Bool("table", false, "Mostrar el reporte como tabla completa")
	history := flag.Int("history", 0, "Mostrar las últimas N ejecuciones y salir")
	verbose := flag.Bool("verbose", false, "Activar logging debug")
	logFormat := flag.String("format", "", "Formato de logs: text o json")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error cargando configuración: %v\n", err)
		os.Exit(1)
	}

	if *verbose {
		cfg.Log.Level = "debug"
	}
	if *logFormat != "" {
		cfg.Log.Format = *logFormat
	}
	setupLogger(cfg.Log)

	slog.Info("starting ideasd",
		"markets", len(cfg.Markets),
		"data_dir", cfg.Storage.DataDir,
		"offline", *offline,
		"cloud", cfg.Cloud.Active())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := newApp(ctx, cfg, *offline, *table)
	if err != nil {
		slog.Error("initialization failed", "error", err)
		os.Exit(1)
	}
	defer app.close()

	if *history > 0 {
		if err := app.printHistory(ctx, *history); err != nil {
			slog.Error("history listing failed", "error", err)
			os.Exit(1)
		}
		return
	}

	full := !*collectOnly && !*analyzeOnly && !*syncOnly
	if *collectOnly || full {
		if err := app.runCollect(ctx); err != nil {
			slog.Error("collection failed", "error", err)
			os.Exit(1)
		}
	}
	if *analyzeOnly || full {
		if err := app.runAnalyze(ctx); err != nil {
			slog.Error("analysis failed", "error", err)
			os.Exit(1)
		}
	}
	if *syncOnly || full {
		if err := app.runSync(ctx); err != nil {
			slog.Error("sync failed", "error", err)
			os.Exit(1)
		}
	}

	slog.Info("ideasd stopped cleanly")
}

// loadConfig lee el YAML si existe; si no, arranca con la configuración
// por defecto (suficiente para el modo offline y los primeros runs).
func loadConfig(path string) (*config.Config, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return config.Default(), nil
	}
	return config.Load(path)
}

func setupLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}

// app agrupa las dependencias compartidas por las etapas del pipeline.
type app struct {
	cfg      *config.Config
	store    *rawstore.Store
	runs     ports.RunStore    // nil si no hay DSN configurado
	objects  ports.ObjectStore // nil si cloud no está activo
	notifier ports.Notifier
	offline  bool
}

func newApp(ctx context.Context, cfg *config.Config, offline, table bool) (*app, error) {
	store, err := rawstore.New(cfg.Storage.DataDir)
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:      cfg,
		store:    store,
		notifier: notify.NewConsole(table),
		offline:  offline,
	}

	if cfg.Storage.DSN != "" {
		runs, err := storage.NewSQLiteStore(cfg.Storage.DSN)
		if err != nil {
			return nil, err
		}
		a.runs = runs
	}

	if cfg.Cloud.Active() {
		objects, err := objectstore.New(ctx, cfg.Cloud.Endpoint,
			cfg.Cloud.AccessKey, cfg.Cloud.SecretKey, cfg.Cloud.Bucket, cfg.Cloud.UseSSL)
		if err != nil {
			return nil, err
		}
		a.objects = objects
	}

	return a, nil
}

func (a *app) close() {
	if a.runs != nil {
		if err := a.runs.Close(); err != nil {
			slog.Warn("closing run store", "error", err)
		}
	}
}

// runCollect arma las cadenas de proveedores y ejecuta la recolección.
// En modo offline todas las cadenas se reducen al generador sintético.
func (a *app) runCollect(ctx context.Context) error {
	c := collector.New(a.cfg, a.store,
		a.stockChain(), a.forexChain(), a.bondChain(), a.cryptoChain(),
		a.newsProvider(), a.econProvider(), a.altProvider())

	started := time.Now()
	summary, err := c.Run(ctx)
	if err != nil {
		return err
	}
	a.recordRun(ctx, "collect", started, summary.Items, summary.Failures())
	return nil
}

// runAnalyze genera el reporte de ideas desde los últimos snapshots,
// lo persiste en el historial y lo muestra por consola.
func (a *app) runAnalyze(ctx context.Context) error {
	started := time.Now()
	report, err := analyzer.New(a.cfg, a.store).Run(ctx)
	if err != nil {
		return err
	}
	a.recordRun(ctx, "analyze", started, len(report.Ideas), 0)
	a.recordIdeas(ctx, report)

	return a.notifier.NotifyReport(report)
}

// runSync replica los snapshots al object storage y publica el último
// reporte en redis. Ambos destinos son opcionales y best-effort.
func (a *app) runSync(ctx context.Context) error {
	if a.objects == nil && a.cfg.Cache.RedisURL == "" {
		slog.Debug("sync skipped: no cloud storage or cache configured")
		return nil
	}

	started := time.Now()
	uploaded, failures := 0, 0

	if a.objects != nil {
		raw, err := a.store.RawFiles()
		if err != nil {
			return err
		}
		processed, err := a.store.ProcessedFiles()
		if err != nil {
			return err
		}

		for _, path := range raw {
			if err := a.objects.UploadFile(ctx, path, "raw/"+filepath.Base(path)); err != nil {
				slog.Warn("upload failed", "file", path, "error", err)
				failures++
				continue
			}
			uploaded++
		}
		for _, path := range processed {
			if err := a.objects.UploadFile(ctx, path, "processed/"+filepath.Base(path)); err != nil {
				slog.Warn("upload failed", "file", path, "error", err)
				failures++
				continue
			}
			uploaded++
		}
		slog.Info("cloud sync finished", "uploaded", uploaded, "failures", failures)
	}

	if a.cfg.Cache.RedisURL != "" {
		if err := a.cacheLatestReport(ctx); err != nil {
			slog.Warn("cache publish failed", "error", err)
			failures++
		}
	}

	a.recordRun(ctx, "sync", started, uploaded, failures)
	return nil
}

func (a *app) cacheLatestReport(ctx context.Context) error {
	report, err := a.store.LoadReport("")
	if err != nil {
		return err
	}

	rc, err := cache.NewRedis(ctx, a.cfg.Cache.RedisURL, a.cfg.CacheTTL())
	if err != nil {
		return err
	}
	defer rc.Close()

	if err := rc.StoreReport(ctx, report); err != nil {
		return err
	}
	slog.Info("report cached", "date", report.Date, "ttl", a.cfg.CacheTTL())
	return nil
}

func (a *app) printHistory(ctx context.Context, limit int) error {
	if a.runs == nil {
		return errors.New("run history disabled: set storage.dsn in the config")
	}
	runs, err := a.runs.RecentRuns(ctx, limit)
	if err != nil {
		return err
	}
	for _, run := range runs {
		fmt.Printf("%s  %-8s %8s  items=%d failures=%d\n",
			run.StartedAt.Format("2006-01-02 15:04:05"),
			run.Kind, run.Duration.Round(time.Millisecond), run.Items, run.Failures)
	}
	return nil
}

// recordRun guarda la ejecución en el historial si está habilitado.
func (a *app) recordRun(ctx context.Context, kind string, started time.Time, items, failures int) {
	if a.runs == nil {
		return
	}
	err := a.runs.SaveRun(ctx, ports.RunRecord{
		ID:        uuid.NewString(),
		Kind:      kind,
		StartedAt: started,
		Duration:  time.Since(started),
		Items:     items,
		Failures:  failures,
	})
	if err != nil {
		slog.Warn("failed to record run", "kind", kind, "error", err)
	}
}

func (a *app) recordIdeas(ctx context.Context, report domain.Report) {
	if a.runs == nil || len(report.Ideas) == 0 {
		return
	}
	records := make([]ports.IdeaRecord, len(report.Ideas))
	for i, idea := range report.Ideas {
		records[i] = ports.IdeaRecord{
			Date:      report.Date,
			Seq:       i,
			Title:     idea.Title,
			Type:      idea.Type,
			Asset:     idea.Asset,
			Market:    idea.Market,
			Sector:    idea.Sector,
			RiskLevel: idea.RiskLevel,
		}
	}
	if err := a.runs.SaveIdeas(ctx, records); err != nil {
		slog.Warn("failed to record ideas", "error", err)
	}
}

// stockChain: EODHD primero, Twelve Data de respaldo, sintético al final.
func (a *app) stockChain() []ports.BarProvider {
	var chain []ports.BarProvider
	if !a.offline {
		if a.cfg.API.EODHDKey != "" {
			chain = append(chain, eodhd.NewClient(a.cfg.API.EODHDBase, a.cfg.API.EODHDKey))
		}
		if a.cfg.API.TwelveDataKey != "" {
			chain = append(chain, twelvedata.NewClient(a.cfg.API.TwelveDataBase, a.cfg.API.TwelveDataKey))
		}
	}
	return append(chain, synthetic.NewGenerator(synthetic.Stocks))
}

func (a *app) forexChain() []ports.BarProvider {
	var chain []ports.BarProvider
	if !a.offline && a.cfg.API.TwelveDataKey != "" {
		chain = append(chain, twelvedata.NewClient(a.cfg.API.TwelveDataBase, a.cfg.API.TwelveDataKey))
	}
	return append(chain, synthetic.NewGenerator(synthetic.Forex))
}

func (a *app) bondChain() []ports.BarProvider {
	var chain []ports.BarProvider
	if !a.offline && a.cfg.API.FREDKey != "" {
		chain = append(chain, fred.NewClient(a.cfg.API.FREDBase, a.cfg.API.FREDKey))
	}
	return append(chain, synthetic.NewGenerator(synthetic.Bonds))
}

func (a *app) cryptoChain() []ports.BarProvider {
	var chain []ports.BarProvider
	if !a.offline && a.cfg.API.TwelveDataKey != "" {
		chain = append(chain, twelvedata.NewClient(a.cfg.API.TwelveDataBase, a.cfg.API.TwelveDataKey))
	}
	return append(chain, synthetic.NewGenerator(synthetic.Crypto))
}

func (a *app) newsProvider() ports.NewsProvider {
	if a.offline || a.cfg.API.NewsAPIKey == "" {
		return nil
	}
	return newsapi.NewClient(a.cfg.API.NewsAPIBase, a.cfg.API.NewsAPIKey)
}

func (a *app) econProvider() ports.EconProvider {
	if a.offline || a.cfg.API.FREDKey == "" {
		return nil
	}
	return fred.NewClient(a.cfg.API.FREDBase, a.cfg.API.FREDKey)
}

func (a *app) altProvider() ports.AltDataProvider {
	if a.offline || a.cfg.API.FinnhubKey == "" {
		return nil
	}
	return finnhub.NewClient(a.cfg.API.FinnhubBase, a.cfg.API.FinnhubKey)
}
