// Package store persists characterization matrix exports in PostgreSQL so
// other services can query the index tables and entries with SQL.
package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JonMunkholm/refdata/internal/config"
	"github.com/JonMunkholm/refdata/internal/matrix"
)

// DB is the part of a connection pool the store uses.
type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Store writes exports to PostgreSQL.
type Store struct {
	db   DB
	pool *pgxpool.Pool
}

// Open connects to the database described by cfg and verifies the
// connection.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*Store, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}
	poolConfig.MaxConns = int32(cfg.MaxConns)
	poolConfig.MinConns = int32(cfg.MinConns)
	poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Store{db: pool, pool: pool}, nil
}

// New wraps an existing connection.
func New(db DB) *Store {
	return &Store{db: db}
}

// Close releases the pool when the store opened it.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Schema creates the export tables. Every table is keyed by the build run.
var Schema = []string{
	`CREATE TABLE IF NOT EXISTS refdata_runs (
		run_id     uuid PRIMARY KEY,
		version    text NOT NULL,
		created_at timestamptz NOT NULL DEFAULT now(),
		row_count  integer NOT NULL,
		col_count  integer NOT NULL,
		nonzeros   integer NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS refdata_impact_index (
		run_id    uuid NOT NULL REFERENCES refdata_runs (run_id) ON DELETE CASCADE,
		idx       integer NOT NULL,
		impact_id text NOT NULL,
		name      text,
		unit      text,
		PRIMARY KEY (run_id, idx)
	)`,
	`CREATE TABLE IF NOT EXISTS refdata_flow_index (
		run_id        uuid NOT NULL REFERENCES refdata_runs (run_id) ON DELETE CASCADE,
		idx           integer NOT NULL,
		is_input      boolean NOT NULL,
		flow_id       text NOT NULL,
		name          text,
		category      text,
		unit          text,
		flow_type     text NOT NULL,
		location_id   text,
		location_name text,
		location_code text,
		PRIMARY KEY (run_id, idx)
	)`,
	`CREATE TABLE IF NOT EXISTS refdata_matrix_entries (
		run_id  uuid NOT NULL REFERENCES refdata_runs (run_id) ON DELETE CASCADE,
		row_idx integer NOT NULL,
		col_idx integer NOT NULL,
		value   double precision NOT NULL,
		PRIMARY KEY (run_id, row_idx, col_idx)
	)`,
}

// EnsureSchema creates the export tables if they do not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	for _, stmt := range Schema {
		if _, err := s.db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// Run identifies a build.
type Run struct {
	ID      uuid.UUID
	Version string
}

var (
	impactColumns = []string{"run_id", "idx", "impact_id", "name", "unit"}
	flowColumns   = []string{
		"run_id", "idx", "is_input", "flow_id", "name", "category", "unit",
		"flow_type", "location_id", "location_name", "location_code",
	}
	entryColumns = []string{"run_id", "row_idx", "col_idx", "value"}
)

// SaveExport writes the run, both index tables and the non-zero entries in
// one transaction.
func (s *Store) SaveExport(ctx context.Context, run Run, export *matrix.Export) error {
	if export == nil {
		return fmt.Errorf("save export: no matrix")
	}
	if run.ID == uuid.Nil {
		return fmt.Errorf("save export: run id required")
	}
	id := toPgUUID(run.ID)
	rows, cols := export.Shape()

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) // no-op after commit

	_, err = tx.Exec(ctx,
		`INSERT INTO refdata_runs (run_id, version, row_count, col_count, nonzeros) VALUES ($1, $2, $3, $4, $5)`,
		id, run.Version, rows, cols, export.Matrix.NNZ())
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	copies := []struct {
		table   string
		columns []string
		rows    [][]any
	}{
		{"refdata_impact_index", impactColumns, impactRecords(id, export.Impacts)},
		{"refdata_flow_index", flowColumns, flowRecords(id, export.Flows)},
		{"refdata_matrix_entries", entryColumns, entryRecords(id, export.Matrix)},
	}
	for _, c := range copies {
		n, err := tx.CopyFrom(ctx, pgx.Identifier{c.table}, c.columns, pgx.CopyFromRows(c.rows))
		if err != nil {
			return fmt.Errorf("copy into %s: %w", c.table, err)
		}
		if int(n) != len(c.rows) {
			return fmt.Errorf("copy into %s: wrote %d of %d rows", c.table, n, len(c.rows))
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func impactRecords(run pgtype.UUID, rows []matrix.ImpactRow) [][]any {
	out := make([][]any, 0, len(rows))
	for _, r := range rows {
		out = append(out, []any{run, int32(r.Index), r.ID, toPgText(r.Name), toPgText(r.Unit)})
	}
	return out
}

func flowRecords(run pgtype.UUID, rows []matrix.FlowRow) [][]any {
	out := make([][]any, 0, len(rows))
	for _, r := range rows {
		out = append(out, []any{
			run, int32(r.Index), r.IsInput, r.ID,
			toPgText(r.Name), toPgText(r.Category), toPgText(r.Unit), r.Type,
			toPgText(r.LocationID), toPgText(r.LocationName), toPgText(r.LocationCode),
		})
	}
	return out
}

func entryRecords(run pgtype.UUID, m *matrix.CSC) [][]any {
	triplets := m.Triplets()
	out := make([][]any, 0, len(triplets))
	for _, t := range triplets {
		out = append(out, []any{run, int32(t.Row), int32(t.Col), t.Value})
	}
	return out
}

// toPgText returns an invalid (NULL) value for blank strings.
func toPgText(s string) pgtype.Text {
	s = strings.TrimSpace(s)
	if s == "" {
		return pgtype.Text{Valid: false}
	}
	return pgtype.Text{String: s, Valid: true}
}

func toPgUUID(id uuid.UUID) pgtype.UUID {
	if id == uuid.Nil {
		return pgtype.UUID{Valid: false}
	}
	return pgtype.UUID{Bytes: id, Valid: true}
}
