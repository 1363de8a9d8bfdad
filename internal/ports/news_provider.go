package ports

import (
	"context"

	"github.com/alejandrodnm/dailyideas/internal/domain"
)

// NewsProvider obtiene artículos de noticias por query.
type NewsProvider interface {
	// FetchNews devuelve los artículos más relevantes de los últimos días
	// para la query dada.
	FetchNews(ctx context.Context, query string) (domain.NewsResult, error)

	Name() string
}
