package ports

import (
	"context"

	"github.com/alejandrodnm/dailyideas/internal/domain"
)

// EconProvider obtiene series macroeconómicas (FRED).
type EconProvider interface {
	// FetchSeries devuelve las observaciones recientes de una serie,
	// ordenadas por fecha ascendente.
	FetchSeries(ctx context.Context, seriesID string) (domain.EconSeries, error)

	Name() string
}
