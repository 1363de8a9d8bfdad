package ports

import (
	"context"

	"github.com/alejandrodnm/dailyideas/internal/domain"
)

// BarProvider obtiene históricos de barras diarias para un conjunto de
// símbolos. Las implementaciones serializan y limitan sus requests.
type BarProvider interface {
	// FetchBars devuelve un instrumento por símbolo. Los símbolos que el
	// proveedor no pueda resolver simplemente no aparecen en el mapa; el
	// error se reserva para fallos que invalidan la llamada completa.
	FetchBars(ctx context.Context, symbols []string) (map[string]domain.Instrument, error)

	// Name identifica al proveedor en logs y en el resumen de fallos.
	Name() string
}
