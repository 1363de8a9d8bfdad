package domain

// Article es un artículo de noticias tal como lo devuelve el proveedor.
type Article struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Source      string `json:"source,omitempty"`
	URL         string `json:"url,omitempty"`
	PublishedAt string `json:"publishedAt,omitempty"`
}

// NewsResult agrupa los artículos recuperados para una query.
type NewsResult struct {
	Query    string    `json:"query"`
	Articles []Article `json:"articles"`
}

// EconObservation es un punto de una serie económica (FRED).
type EconObservation struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// EconSeries es una serie económica completa.
type EconSeries struct {
	SeriesID     string            `json:"series_id"`
	Observations []EconObservation `json:"observations"`
}
