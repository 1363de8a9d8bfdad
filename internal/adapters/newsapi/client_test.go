package newsapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchNews(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/everything", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "interest rates", q.Get("q"))
		assert.Equal(t, "2025-07-08", q.Get("from"))
		assert.Equal(t, "en", q.Get("language"))
		assert.Equal(t, "relevancy", q.Get("sortBy"))
		assert.Equal(t, "10", q.Get("pageSize"))
		w.Write([]byte(`{
			"status": "ok",
			"articles": [
				{"source":{"name":"Reuters"},"title":"Fed holds rates","description":"...","url":"https://example.com/1","publishedAt":"2025-07-10T12:00:00Z"},
				{"source":{"name":"Bloomberg"},"title":"Markets rally","description":"...","url":"https://example.com/2","publishedAt":"2025-07-11T09:00:00Z"}
			]
		}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key")
	c.now = func() time.Time { return time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC) }

	result, err := c.FetchNews(context.Background(), "interest rates")
	require.NoError(t, err)

	assert.Equal(t, "interest rates", result.Query)
	require.Len(t, result.Articles, 2)
	assert.Equal(t, "Fed holds rates", result.Articles[0].Title)
	assert.Equal(t, "Reuters", result.Articles[0].Source)
}

func TestFetchNews_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"error","message":"apiKey invalid"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "bad")
	_, err := c.FetchNews(context.Background(), "inflation")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "apiKey invalid")
}

func TestFetchNews_MissingKey(t *testing.T) {
	c := NewClient("http://unused", "")
	_, err := c.FetchNews(context.Background(), "inflation")
	assert.Error(t, err)
}
