// Package cache guarda el último reporte de ideas en redis para que la
// capa de presentación lo sirva sin tocar disco ni bucket. Best-effort:
// el pipeline funciona igual sin redis configurado.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/alejandrodnm/dailyideas/internal/domain"
)

const (
	latestKey = "ideas:latest"
	dateKey   = "ideas:%s"
)

// Redis implementa ports.ReportCache.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis conecta con el redis de la URL dada y verifica la conexión.
func NewRedis(ctx context.Context, redisURL string, ttl time.Duration) (*Redis, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("cache.NewRedis: parse url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("cache.NewRedis: ping: %w", err)
	}
	return &Redis{client: client, ttl: ttl}, nil
}

// StoreReport guarda el reporte bajo su fecha y como "latest".
func (r *Redis) StoreReport(ctx context.Context, report domain.Report) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("cache.StoreReport: marshal: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, fmt.Sprintf(dateKey, report.Date), payload, r.ttl)
	pipe.Set(ctx, latestKey, payload, r.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("cache.StoreReport: %w", err)
	}
	return nil
}

// LatestReport devuelve el último reporte cacheado.
func (r *Redis) LatestReport(ctx context.Context) (domain.Report, error) {
	payload, err := r.client.Get(ctx, latestKey).Bytes()
	if err != nil {
		return domain.Report{}, fmt.Errorf("cache.LatestReport: %w", err)
	}
	var report domain.Report
	if err := json.Unmarshal(payload, &report); err != nil {
		return domain.Report{}, fmt.Errorf("cache.LatestReport: unmarshal: %w", err)
	}
	return report, nil
}

// Close cierra la conexión.
func (r *Redis) Close() error {
	return r.client.Close()
}
