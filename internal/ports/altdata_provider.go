package ports

import (
	"context"

	"github.com/alejandrodnm/dailyideas/internal/domain"
)

// AltDataProvider obtiene datos alternativos por símbolo (Finnhub).
type AltDataProvider interface {
	FetchQuote(ctx context.Context, symbol string) (domain.Quote, error)
	FetchEarnings(ctx context.Context, symbol string) ([]domain.EarningsReport, error)
	// FetchInsiderTransactions cubre los últimos 90 días.
	FetchInsiderTransactions(ctx context.Context, symbol string) ([]domain.InsiderTransaction, error)
	FetchSentiment(ctx context.Context, symbol string) (domain.Sentiment, error)

	Name() string
}
