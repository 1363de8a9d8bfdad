package domain

// Niveles de riesgo de una idea.
const (
	RiskLow        = "Low"
	RiskMedium     = "Medium"
	RiskMediumHigh = "Medium-High"
	RiskHigh       = "High"
	RiskVeryHigh   = "Very High"
)

// Idea es una recomendación de inversión generada por las reglas heurísticas.
// Metrics lleva las cifras que la justifican, con claves estables por regla.
type Idea struct {
	Title       string         `json:"title"`
	Type        string         `json:"type"`
	Asset       string         `json:"asset"`
	Market      string         `json:"market,omitempty"`
	Sector      string         `json:"sector,omitempty"`
	Direction   string         `json:"direction,omitempty"`
	Rationale   string         `json:"rationale"`
	RiskLevel   string         `json:"risk_level"`
	TimeHorizon string         `json:"time_horizon"`
	Metrics     map[string]any `json:"metrics"`
}

// Report es el archivo de salida del análisis diario.
type Report struct {
	Date            string            `json:"date"`
	Ideas           []Idea            `json:"ideas"`
	DataSources     map[string]string `json:"data_sources"`
	MarketsAnalyzed []string          `json:"markets_analyzed"`
	DataTypesUsed   []string          `json:"data_types_used"`
	GeneratedAt     string            `json:"generated_at"`
}
