// Package finnhub implementa el proveedor de datos alternativos:
// cotizaciones, earnings, transacciones de insiders y sentimiento.
package finnhub

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/alejandrodnm/dailyideas/internal/adapters/httpclient"
	"github.com/alejandrodnm/dailyideas/internal/domain"
)

// Plan gratuito: 60 requests/minuto.
const requestInterval = 1100 * time.Millisecond

// insiderLookbackDays: ventana de transacciones de insiders.
const insiderLookbackDays = 90

// Client es el adapter de Finnhub.
type Client struct {
	api  *httpclient.Client
	base string
	key  string
	now  func() time.Time
}

// NewClient crea el adapter. base vacío usa la API de producción.
func NewClient(base, key string) *Client {
	if base == "" {
		base = "https://finnhub.io/api/v1"
	}
	return &Client{
		api:  httpclient.New(rate.NewLimiter(rate.Every(requestInterval), 1)),
		base: base,
		key:  key,
		now:  time.Now,
	}
}

func (c *Client) Name() string { return "finnhub" }

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	if c.key == "" {
		return fmt.Errorf("finnhub: missing API key")
	}
	params.Set("token", c.key)
	return c.api.GetJSON(ctx, c.base+path+"?"+params.Encode(), out)
}

type quoteResponse struct {
	Current       float64 `json:"c"`
	ChangePct     float64 `json:"dp"`
	PreviousClose float64 `json:"pc"`
}

// FetchQuote obtiene la cotización actual de un símbolo.
func (c *Client) FetchQuote(ctx context.Context, symbol string) (domain.Quote, error) {
	var resp quoteResponse
	if err := c.get(ctx, "/quote", url.Values{"symbol": {symbol}}, &resp); err != nil {
		return domain.Quote{}, fmt.Errorf("finnhub.FetchQuote %s: %w", symbol, err)
	}
	if resp.Current == 0 {
		return domain.Quote{}, fmt.Errorf("finnhub.FetchQuote %s: no data", symbol)
	}
	return domain.Quote{
		Price:         resp.Current,
		ChangePct:     resp.ChangePct,
		PreviousClose: resp.PreviousClose,
	}, nil
}

type earningsEntry struct {
	Period      string  `json:"period"`
	Actual      float64 `json:"actual"`
	Estimate    float64 `json:"estimate"`
	Surprise    float64 `json:"surprise"`
	SurprisePct float64 `json:"surprisePercent"`
}

// FetchEarnings devuelve los resultados trimestrales en el orden del
// proveedor (el más reciente primero).
func (c *Client) FetchEarnings(ctx context.Context, symbol string) ([]domain.EarningsReport, error) {
	var resp []earningsEntry
	if err := c.get(ctx, "/stock/earnings", url.Values{"symbol": {symbol}}, &resp); err != nil {
		return nil, fmt.Errorf("finnhub.FetchEarnings %s: %w", symbol, err)
	}

	reports := make([]domain.EarningsReport, len(resp))
	for i, e := range resp {
		reports[i] = domain.EarningsReport{
			Period:      e.Period,
			Actual:      e.Actual,
			Estimate:    e.Estimate,
			Surprise:    e.Surprise,
			SurprisePct: e.SurprisePct,
		}
	}
	return reports, nil
}

type insiderResponse struct {
	Data []struct {
		Name            string  `json:"name"`
		Change          float64 `json:"change"`
		TransactionDate string  `json:"transactionDate"`
	} `json:"data"`
}

// FetchInsiderTransactions devuelve las transacciones de insiders de los
// últimos 90 días.
func (c *Client) FetchInsiderTransactions(ctx context.Context, symbol string) ([]domain.InsiderTransaction, error) {
	to := c.now().Format("2006-01-02")
	from := c.now().AddDate(0, 0, -insiderLookbackDays).Format("2006-01-02")

	params := url.Values{"symbol": {symbol}, "from": {from}, "to": {to}}
	var resp insiderResponse
	if err := c.get(ctx, "/stock/insider-transactions", params, &resp); err != nil {
		return nil, fmt.Errorf("finnhub.FetchInsiderTransactions %s: %w", symbol, err)
	}

	txs := make([]domain.InsiderTransaction, len(resp.Data))
	for i, d := range resp.Data {
		txs[i] = domain.InsiderTransaction{
			Name:   d.Name,
			Change: d.Change,
			Date:   d.TransactionDate,
		}
	}
	return txs, nil
}

type sentimentResponse struct {
	CompanyNewsScore float64 `json:"companyNewsScore"`
	Buzz             struct {
		Buzz float64 `json:"buzz"`
	} `json:"buzz"`
	Sentiment struct {
		BullishPercent float64 `json:"bullishPercent"`
		BearishPercent float64 `json:"bearishPercent"`
	} `json:"sentiment"`
}

// FetchSentiment obtiene el sentimiento de noticias agregado de un símbolo.
func (c *Client) FetchSentiment(ctx context.Context, symbol string) (domain.Sentiment, error) {
	var resp sentimentResponse
	if err := c.get(ctx, "/news-sentiment", url.Values{"symbol": {symbol}}, &resp); err != nil {
		return domain.Sentiment{}, fmt.Errorf("finnhub.FetchSentiment %s: %w", symbol, err)
	}
	return domain.Sentiment{
		NewsScore:       resp.CompanyNewsScore,
		Buzz:            resp.Buzz.Buzz,
		SentimentChange: resp.Sentiment.BullishPercent - resp.Sentiment.BearishPercent,
	}, nil
}
