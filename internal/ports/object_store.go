package ports

import (
	"context"

	"github.com/alejandrodnm/dailyideas/internal/domain"
)

// ObjectStore replica los archivos locales en un bucket S3-compatible y
// sirve de fuente para la capa de presentación.
type ObjectStore interface {
	// UploadFile sube un archivo local bajo la key dada.
	UploadFile(ctx context.Context, localPath, key string) error

	// DownloadReport descarga el reporte de ideas de una fecha. date vacío
	// significa el más reciente disponible.
	DownloadReport(ctx context.Context, date string) (domain.Report, error)

	// AvailableDates lista las fechas con reporte, descendente.
	AvailableDates(ctx context.Context) ([]string, error)
}
