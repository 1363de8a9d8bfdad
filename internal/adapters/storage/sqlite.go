// Package storage guarda el historial de ejecuciones del pipeline en
// SQLite. Los archivos JSON siguen siendo la fuente de verdad de los
// datos; esto da visibilidad entre días al operador.
//
//   - `runs`: una fila por etapa ejecutada (collect/analyze/sync).
//   - `ideas`: UNA fila por (fecha, posición) con UPSERT — reanalizar el
//     mismo día reemplaza las ideas, no las duplica.
//   - Prune automático al arrancar: todo lo anterior a 90 días.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alejandrodnm/dailyideas/internal/ports"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id          TEXT PRIMARY KEY,
    kind        TEXT     NOT NULL,
    started_at  DATETIME NOT NULL,
    duration_ms INTEGER  NOT NULL DEFAULT 0,
    items       INTEGER  NOT NULL DEFAULT 0,
    failures    INTEGER  NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS ideas (
    date       TEXT NOT NULL,
    seq        INTEGER NOT NULL,
    title      TEXT NOT NULL,
    type       TEXT NOT NULL,
    asset      TEXT NOT NULL,
    market     TEXT,
    sector     TEXT,
    risk_level TEXT NOT NULL,
    PRIMARY KEY (date, seq)
);

CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at DESC);
CREATE INDEX IF NOT EXISTS idx_ideas_date   ON ideas(date DESC);
`

const retention = 90 * 24 * time.Hour

// SQLiteStore implementa ports.RunStore usando SQLite (pure Go, sin CGo).
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore abre (o crea) la base de datos en la ruta dada, aplica el
// schema y limpia datos antiguos.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage.NewSQLiteStore: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1) // SQLite es single-writer
	db.SetMaxIdleConns(1)

	s := &SQLiteStore{db: db}
	if err := s.ApplySchema(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	if err := s.PruneOlderThan(context.Background(), time.Now().UTC().Add(-retention)); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// ApplySchema crea las tablas si no existen.
func (s *SQLiteStore) ApplySchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("storage.ApplySchema: %w", err)
	}
	return nil
}

// SaveRun persiste el resultado de una etapa.
func (s *SQLiteStore) SaveRun(ctx context.Context, run ports.RunRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, kind, started_at, duration_ms, items, failures)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, run.Kind, run.StartedAt.UTC(), run.Duration.Milliseconds(), run.Items, run.Failures)
	if err != nil {
		return fmt.Errorf("storage.SaveRun: %w", err)
	}
	return nil
}

// SaveIdeas hace upsert de las ideas de un día por (date, seq).
func (s *SQLiteStore) SaveIdeas(ctx context.Context, ideas []ports.IdeaRecord) error {
	if len(ideas) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage.SaveIdeas: begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO ideas (date, seq, title, type, asset, market, sector, risk_level)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(date, seq) DO UPDATE SET
		   title      = excluded.title,
		   type       = excluded.type,
		   asset      = excluded.asset,
		   market     = excluded.market,
		   sector     = excluded.sector,
		   risk_level = excluded.risk_level`)
	if err != nil {
		return fmt.Errorf("storage.SaveIdeas: prepare: %w", err)
	}
	defer stmt.Close()

	for _, idea := range ideas {
		if _, err := stmt.ExecContext(ctx,
			idea.Date, idea.Seq, idea.Title, idea.Type, idea.Asset,
			idea.Market, idea.Sector, idea.RiskLevel); err != nil {
			return fmt.Errorf("storage.SaveIdeas: %s/%d: %w", idea.Date, idea.Seq, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage.SaveIdeas: commit: %w", err)
	}
	return nil
}

// RecentRuns devuelve las últimas ejecuciones, más recientes primero.
func (s *SQLiteStore) RecentRuns(ctx context.Context, limit int) ([]ports.RunRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, kind, started_at, duration_ms, items, failures
		 FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("storage.RecentRuns: %w", err)
	}
	defer rows.Close()

	var runs []ports.RunRecord
	for rows.Next() {
		var r ports.RunRecord
		var durationMs int64
		if err := rows.Scan(&r.ID, &r.Kind, &r.StartedAt, &durationMs, &r.Items, &r.Failures); err != nil {
			return nil, fmt.Errorf("storage.RecentRuns: scan: %w", err)
		}
		r.Duration = time.Duration(durationMs) * time.Millisecond
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// PruneOlderThan borra runs e ideas anteriores al corte.
func (s *SQLiteStore) PruneOlderThan(ctx context.Context, cutoff time.Time) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM runs WHERE started_at < ?`, cutoff.UTC()); err != nil {
		return fmt.Errorf("storage.PruneOlderThan: runs: %w", err)
	}
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM ideas WHERE date < ?`, cutoff.UTC().Format("2006-01-02")); err != nil {
		return fmt.Errorf("storage.PruneOlderThan: ideas: %w", err)
	}
	return nil
}

// Close cierra la base de datos.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
