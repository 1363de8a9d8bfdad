package ports

import (
	"context"
	"time"
)

// RunRecord es una ejecución de una etapa del pipeline.
type RunRecord struct {
	ID        string
	Kind      string // collect | analyze | sync
	StartedAt time.Time
	Duration  time.Duration
	Items     int
	Failures  int
}

// IdeaRecord es una idea emitida, indexada por día y posición.
type IdeaRecord struct {
	Date      string
	Seq       int
	Title     string
	Type      string
	Asset     string
	Market    string
	Sector    string
	RiskLevel string
}

// RunStore persiste el historial de ejecuciones e ideas emitidas.
type RunStore interface {
	ApplySchema(ctx context.Context) error
	SaveRun(ctx context.Context, run RunRecord) error
	SaveIdeas(ctx context.Context, ideas []IdeaRecord) error
	RecentRuns(ctx context.Context, limit int) ([]RunRecord, error)
	// PruneOlderThan borra runs e ideas anteriores al corte.
	PruneOlderThan(ctx context.Context, cutoff time.Time) error
	Close() error
}
