package ports

import (
	"context"

	"github.com/alejandrodnm/dailyideas/internal/domain"
)

// ReportCache cachea el último reporte para lecturas rápidas del dashboard.
// Todas las operaciones son best-effort: un fallo se loguea y se sigue.
type ReportCache interface {
	StoreReport(ctx context.Context, report domain.Report) error
	LatestReport(ctx context.Context) (domain.Report, error)
	Close() error
}
