package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config es la configuración completa del pipeline diario.
type Config struct {
	Markets   []MarketConfig  `yaml:"markets"`
	Collector CollectorConfig `yaml:"collector"`
	Analyzer  AnalyzerConfig  `yaml:"analyzer"`
	API       APIConfig       `yaml:"api"`
	Storage   StorageConfig   `yaml:"storage"`
	Cloud     CloudConfig     `yaml:"cloud"`
	Cache     CacheConfig     `yaml:"cache"`
	Log       LogConfig       `yaml:"log"`
}

// MarketConfig describe un mercado: su índice y los stocks que lo representan.
type MarketConfig struct {
	Name   string   `yaml:"name"`
	Index  string   `yaml:"index"`
	Stocks []string `yaml:"stocks"`
}

// CollectorConfig controla qué se recolecta fuera de los mercados.
type CollectorConfig struct {
	ForexPairs  []string `yaml:"forex_pairs"`
	Bonds       []string `yaml:"bonds"`
	CryptoPairs []string `yaml:"crypto_pairs"`
	NewsQueries []string `yaml:"news_queries"`
	FredSeries  []string `yaml:"fred_series"`
	// AltSymbolsPerMarket: cuántos stocks por mercado reciben datos
	// alternativos (quotes/earnings/insider). Mantiene bajo el consumo
	// de rate limit de Finnhub.
	AltSymbolsPerMarket int `yaml:"alt_symbols_per_market"`
}

// AnalyzerConfig controla los parámetros del análisis.
type AnalyzerConfig struct {
	// PerformanceWindow: ventana en barras para las métricas de rendimiento.
	PerformanceWindow int `yaml:"performance_window"`
}

// APIConfig contiene base URLs y API keys de los proveedores externos.
// Las keys se cargan de variables de entorno (.env), nunca del YAML.
type APIConfig struct {
	EODHDBase      string `yaml:"eodhd_base"`
	TwelveDataBase string `yaml:"twelvedata_base"`
	FREDBase       string `yaml:"fred_base"`
	FinnhubBase    string `yaml:"finnhub_base"`
	NewsAPIBase    string `yaml:"newsapi_base"`

	EODHDKey      string `yaml:"-"`
	TwelveDataKey string `yaml:"-"`
	FREDKey       string `yaml:"-"`
	FinnhubKey    string `yaml:"-"`
	NewsAPIKey    string `yaml:"-"`
}

// StorageConfig controla dónde se persisten los datos.
type StorageConfig struct {
	// DataDir contiene raw/ y processed/ con los snapshots JSON.
	DataDir string `yaml:"data_dir"`
	// DSN es la ruta al archivo SQLite del historial de ejecuciones,
	// o ":memory:". Vacío desactiva el historial.
	DSN string `yaml:"dsn"`
}

// CloudConfig controla el mirror opcional a object storage S3-compatible.
type CloudConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Endpoint  string `yaml:"endpoint"`
	Bucket    string `yaml:"bucket"`
	AccessKey string `yaml:"-"`
	SecretKey string `yaml:"-"`
	UseSSL    bool   `yaml:"use_ssl"`
}

// CacheConfig controla la caché redis opcional para la capa de presentación.
type CacheConfig struct {
	RedisURL string `yaml:"redis_url"`
	TTLHours int    `yaml:"ttl_hours"`
}

// LogConfig controla el formato y nivel de logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// Load carga la configuración desde el archivo YAML y el archivo .env si existe.
// Las variables de entorno sobreescriben keys y ajustes de logging/cloud.
func Load(path string) (*Config, error) {
	// Cargar .env si existe (silencia error si no hay archivo)
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config.Load: read %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config.Load: parse YAML: %w", err)
	}

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	return &cfg, nil
}

// Default devuelve la configuración por defecto completa, sin leer archivos.
// Útil para el modo offline y para tests.
func Default() *Config {
	cfg := &Config{}
	applyEnvOverrides(cfg)
	setDefaults(cfg)
	return cfg
}

// CacheTTL devuelve el TTL de la caché como time.Duration.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLHours) * time.Hour
}

// Active indica si el mirror cloud debe ejecutarse. Además del flag de
// config, la variable K_SERVICE (presente en Cloud Run) lo activa.
func (c CloudConfig) Active() bool {
	if c.Bucket == "" {
		return false
	}
	return c.Enabled || os.Getenv("K_SERVICE") != ""
}

// applyEnvOverrides sobreescribe valores con variables de entorno si están presentes.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("EODHD_API_KEY"); v != "" {
		cfg.API.EODHDKey = v
	}
	if v := os.Getenv("TWELVE_DATA_API_KEY"); v != "" {
		cfg.API.TwelveDataKey = v
	}
	if v := os.Getenv("FRED_API_KEY"); v != "" {
		cfg.API.FREDKey = v
	}
	if v := os.Getenv("FINNHUB_API_KEY"); v != "" {
		cfg.API.FinnhubKey = v
	}
	if v := os.Getenv("NEWS_API_KEY"); v != "" {
		cfg.API.NewsAPIKey = v
	}
	if v := os.Getenv("STORAGE_BUCKET"); v != "" {
		cfg.Cloud.Bucket = v
	}
	if v := os.Getenv("STORAGE_ENDPOINT"); v != "" {
		cfg.Cloud.Endpoint = v
	}
	if v := os.Getenv("STORAGE_ACCESS_KEY"); v != "" {
		cfg.Cloud.AccessKey = v
	}
	if v := os.Getenv("STORAGE_SECRET_KEY"); v != "" {
		cfg.Cloud.SecretKey = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		cfg.Cache.RedisURL = v
	}
}

// setDefaults asegura que los valores requeridos tengan valores sensatos.
func setDefaults(cfg *Config) {
	if len(cfg.Markets) == 0 {
		cfg.Markets = defaultMarkets()
	}
	if len(cfg.Collector.ForexPairs) == 0 {
		cfg.Collector.ForexPairs = []string{"EURUSD=X", "GBPUSD=X", "USDJPY=X"}
	}
	if len(cfg.Collector.Bonds) == 0 {
		cfg.Collector.Bonds = []string{"^TNX", "^TYX"}
	}
	if len(cfg.Collector.CryptoPairs) == 0 {
		cfg.Collector.CryptoPairs = []string{"BTC/USD", "ETH/USD"}
	}
	if len(cfg.Collector.NewsQueries) == 0 {
		cfg.Collector.NewsQueries = []string{
			"stock market",
			"interest rates",
			"inflation",
			"federal reserve",
		}
	}
	if len(cfg.Collector.FredSeries) == 0 {
		cfg.Collector.FredSeries = []string{"UNRATE", "CPIAUCSL", "FEDFUNDS"}
	}
	if cfg.Collector.AltSymbolsPerMarket <= 0 {
		cfg.Collector.AltSymbolsPerMarket = 2
	}
	if cfg.Analyzer.PerformanceWindow <= 0 {
		cfg.Analyzer.PerformanceWindow = 7
	}
	if cfg.API.EODHDBase == "" {
		cfg.API.EODHDBase = "https://eodhd.com/api"
	}
	if cfg.API.TwelveDataBase == "" {
		cfg.API.TwelveDataBase = "https://api.twelvedata.com"
	}
	if cfg.API.FREDBase == "" {
		cfg.API.FREDBase = "https://api.stlouisfed.org"
	}
	if cfg.API.FinnhubBase == "" {
		cfg.API.FinnhubBase = "https://finnhub.io/api/v1"
	}
	if cfg.API.NewsAPIBase == "" {
		cfg.API.NewsAPIBase = "https://newsapi.org/v2"
	}
	if cfg.Storage.DataDir == "" {
		cfg.Storage.DataDir = "data"
	}
	if cfg.Cache.TTLHours <= 0 {
		cfg.Cache.TTLHours = 48
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}

// defaultMarkets replica la selección de mercados e instrumentos de producción.
func defaultMarkets() []MarketConfig {
	return []MarketConfig{
		{
			Name:  "S&P500",
			Index: "^GSPC",
			Stocks: []string{
				// Tech
				"AAPL", "MSFT", "GOOGL", "AMZN", "META", "NVDA", "TSLA", "ADBE", "CRM", "INTC",
				// Finance
				"JPM", "BAC", "GS", "MS", "WFC", "C", "BLK", "AXP", "V", "MA",
				// Healthcare
				"JNJ", "UNH", "PFE", "MRK", "ABBV", "LLY", "TMO", "ABT", "BMY", "AMGN",
			},
		},
		{
			Name:  "NASDAQ",
			Index: "^IXIC",
			Stocks: []string{
				"AAPL", "MSFT", "GOOGL", "AMZN", "META", "NVDA", "TSLA", "ADBE", "PYPL", "INTC",
				"GILD", "REGN", "BIIB", "VRTX", "ILMN", "MRNA", "BNTX", "ISRG", "ZTS", "IDXX",
			},
		},
		{
			Name:  "FTSE100",
			Index: "^FTSE",
			Stocks: []string{
				"AZN.L", "SHEL.L", "HSBA.L", "GSK.L", "BP.L", "ULVR.L", "RIO.L", "LGEN.L", "BATS.L", "DGE.L",
				"VOD.L", "LLOY.L", "REL.L", "IMB.L", "NWG.L", "AAL.L", "PRU.L", "NG.L", "STAN.L", "BARC.L",
			},
		},
	}
}
