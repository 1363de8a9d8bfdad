package ports

import (
	"github.com/alejandrodnm/dailyideas/internal/domain"
)

// Notifier presenta el reporte de ideas al operador.
type Notifier interface {
	// NotifyReport muestra el reporte completo (tabla de ideas).
	NotifyReport(report domain.Report) error

	// NotifySummary muestra una línea compacta con los totales del día.
	NotifySummary(report domain.Report) error
}
