// Package newsapi implementa el proveedor de noticias sobre NewsAPI.org.
package newsapi

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/alejandrodnm/dailyideas/internal/adapters/httpclient"
	"github.com/alejandrodnm/dailyideas/internal/domain"
)

const requestInterval = 1 * time.Second

const (
	lookbackDays = 7
	pageSize     = 10
)

// Client es el adapter de NewsAPI.
type Client struct {
	api  *httpclient.Client
	base string
	key  string
	now  func() time.Time
}

// NewClient crea el adapter. base vacío usa la API de producción.
func NewClient(base, key string) *Client {
	if base == "" {
		base = "https://newsapi.org/v2"
	}
	return &Client{
		api:  httpclient.New(rate.NewLimiter(rate.Every(requestInterval), 1)),
		base: base,
		key:  key,
		now:  time.Now,
	}
}

func (c *Client) Name() string { return "newsapi" }

type everythingResponse struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	Articles []struct {
		Source struct {
			Name string `json:"name"`
		} `json:"source"`
		Title       string `json:"title"`
		Description string `json:"description"`
		URL         string `json:"url"`
		PublishedAt string `json:"publishedAt"`
	} `json:"articles"`
}

// FetchNews devuelve los artículos más relevantes de la última semana para
// la query dada.
func (c *Client) FetchNews(ctx context.Context, query string) (domain.NewsResult, error) {
	if c.key == "" {
		return domain.NewsResult{}, fmt.Errorf("newsapi.FetchNews: missing API key")
	}

	from := c.now().AddDate(0, 0, -lookbackDays).Format("2006-01-02")
	params := url.Values{
		"q":        {query},
		"from":     {from},
		"language": {"en"},
		"sortBy":   {"relevancy"},
		"pageSize": {fmt.Sprint(pageSize)},
		"apiKey":   {c.key},
	}

	var resp everythingResponse
	if err := c.api.GetJSON(ctx, c.base+"/everything?"+params.Encode(), &resp); err != nil {
		return domain.NewsResult{}, fmt.Errorf("newsapi.FetchNews %q: %w", query, err)
	}
	if resp.Status != "ok" {
		return domain.NewsResult{}, fmt.Errorf("newsapi.FetchNews %q: %s", query, resp.Message)
	}

	result := domain.NewsResult{Query: query}
	for _, a := range resp.Articles {
		result.Articles = append(result.Articles, domain.Article{
			Title:       a.Title,
			Description: a.Description,
			Source:      a.Source.Name,
			URL:         a.URL,
			PublishedAt: a.PublishedAt,
		})
	}
	return result, nil
}
