package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/flowgraph/flowsave/internal/core/savedata"
	"github.com/flowgraph/flowsave/internal/core/savepoint"
	"github.com/flowgraph/flowsave/pkg/serialization"
)

// Saver implements savepoint.Saver for PostgreSQL
type Saver struct {
	pool       *pgxpool.Pool
	serializer *serialization.Serializer
	tableName  string
}

// NewSaver creates a new PostgreSQL save point saver
func NewSaver(pool *pgxpool.Pool, serializer *serialization.Serializer) *Saver {
	if serializer == nil {
		serializer = serialization.DefaultSerializer()
	}
	return &Saver{
		pool:       pool,
		serializer: serializer,
		tableName:  "save_points",
	}
}

// Open connects to dsn and creates the tables.
func Open(ctx context.Context, dsn string, serializer *serialization.Serializer) (*Saver, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	s := NewSaver(pool, serializer)
	if err := s.CreateTables(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// Save stores a save point in PostgreSQL
func (s *Saver) Save(ctx context.Context, sp *savepoint.SavePoint) error {
	if sp == nil {
		return savepoint.ErrInvalidSavePointID
	}
	if err := sp.Validate(); err != nil {
		return fmt.Errorf("save point validation failed: %w", err)
	}

	items, err := s.serializer.Serialize(sp.Items)
	if err != nil {
		return fmt.Errorf("failed to serialize save data items: %w", err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, slot, description, progress_marker, items, timestamp, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			slot = EXCLUDED.slot,
			description = EXCLUDED.description,
			progress_marker = EXCLUDED.progress_marker,
			items = EXCLUDED.items,
			timestamp = EXCLUDED.timestamp,
			version = EXCLUDED.version
	`, s.tableName)

	_, err = s.pool.Exec(ctx, query,
		sp.ID, sp.Slot, sp.Description, sp.ProgressMarkerKey, items, sp.Timestamp, sp.Version)
	if err != nil {
		return fmt.Errorf("failed to save save point: %w", err)
	}
	return nil
}

// Load retrieves a save point by ID
func (s *Saver) Load(ctx context.Context, id string) (*savepoint.SavePoint, error) {
	if id == "" {
		return nil, savepoint.ErrInvalidSavePointID
	}

	query := fmt.Sprintf(`
		SELECT id, slot, description, progress_marker, items, timestamp, version
		FROM %s
		WHERE id = $1
	`, s.tableName)

	sp, err := s.scan(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, savepoint.ErrSavePointNotFound
		}
		return nil, fmt.Errorf("failed to load save point: %w", err)
	}
	return sp, nil
}

// List retrieves save points based on filter criteria
func (s *Saver) List(ctx context.Context, filter savepoint.Filter) ([]*savepoint.SavePoint, error) {
	if err := filter.Validate(); err != nil {
		return nil, fmt.Errorf("filter validation failed: %w", err)
	}

	query, args := s.buildListQuery(filter)
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list save points: %w", err)
	}
	defer rows.Close()

	var out []*savepoint.SavePoint
	for rows.Next() {
		sp, err := s.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan save point row: %w", err)
		}
		out = append(out, sp)
	}
	return out, rows.Err()
}

// Delete removes a save point by ID
func (s *Saver) Delete(ctx context.Context, id string) error {
	if id == "" {
		return savepoint.ErrInvalidSavePointID
	}

	query := fmt.Sprintf("DELETE FROM %s WHERE id = $1", s.tableName)
	result, err := s.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete save point: %w", err)
	}
	if result.RowsAffected() == 0 {
		return savepoint.ErrSavePointNotFound
	}
	return nil
}

// CreateTables creates the necessary database tables
func (s *Saver) CreateTables(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			slot TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			progress_marker TEXT NOT NULL DEFAULT '',
			items BYTEA NOT NULL,
			timestamp TIMESTAMPTZ NOT NULL,
			version TEXT NOT NULL DEFAULT '1.0'
		);

		CREATE INDEX IF NOT EXISTS idx_%s_slot ON %s (slot);
		CREATE INDEX IF NOT EXISTS idx_%s_timestamp ON %s (timestamp);
	`, s.tableName, s.tableName, s.tableName, s.tableName, s.tableName)

	if _, err := s.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}
	return nil
}

// Close releases the pool.
func (s *Saver) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}

func (s *Saver) scan(row pgx.Row) (*savepoint.SavePoint, error) {
	var sp savepoint.SavePoint
	var items []byte
	var ts time.Time

	if err := row.Scan(&sp.ID, &sp.Slot, &sp.Description, &sp.ProgressMarkerKey, &items, &ts, &sp.Version); err != nil {
		return nil, err
	}
	sp.Timestamp = ts

	sp.Items = []savedata.Item{}
	if err := s.serializer.Deserialize(items, &sp.Items); err != nil {
		return nil, fmt.Errorf("failed to deserialize save data items: %w", err)
	}
	return &sp, nil
}

// buildListQuery constructs the SQL query for listing save points
func (s *Saver) buildListQuery(filter savepoint.Filter) (string, []interface{}) {
	query := fmt.Sprintf("SELECT id, slot, description, progress_marker, items, timestamp, version FROM %s WHERE 1=1", s.tableName)
	args := make([]interface{}, 0)
	argNum := 1

	if filter.Slot != "" {
		query += fmt.Sprintf(" AND slot = $%d", argNum)
		args = append(args, filter.Slot)
		argNum++
	}
	if filter.Since != nil {
		query += fmt.Sprintf(" AND timestamp >= $%d", argNum)
		args = append(args, *filter.Since)
		argNum++
	}
	if filter.Before != nil {
		query += fmt.Sprintf(" AND timestamp < $%d", argNum)
		args = append(args, *filter.Before)
		argNum++
	}

	query += " ORDER BY timestamp DESC, id ASC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argNum)
		args = append(args, filter.Limit)
		argNum++
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argNum)
		args = append(args, filter.Offset)
	}

	return query, args
}
