package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/flowgraph/flowsave/internal/core/savedata"
	"github.com/flowgraph/flowsave/internal/core/savepoint"
	"github.com/flowgraph/flowsave/pkg/serialization"
	_ "modernc.org/sqlite"
)

// Saver implements savepoint.Saver for SQLite
type Saver struct {
	db         *sql.DB
	serializer *serialization.Serializer
	tableName  string
}

// NewSaver creates a new SQLite save point saver
func NewSaver(db *sql.DB, serializer *serialization.Serializer) *Saver {
	if serializer == nil {
		serializer = serialization.DefaultSerializer()
	}
	return &Saver{
		db:         db,
		serializer: serializer,
		tableName:  "save_points",
	}
}

// Open opens a SQLite database at dsn and creates the tables.
func Open(ctx context.Context, dsn string, serializer *serialization.Serializer) (*Saver, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	s := NewSaver(db, serializer)
	if err := s.CreateTables(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// WithTableName overrides the table name. Only alphanumeric and underscore
// are permitted.
func (s *Saver) WithTableName(name string) *Saver {
	if isSafeIdent(name) {
		s.tableName = name
	}
	return s
}

func isSafeIdent(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_' {
			continue
		}
		return false
	}
	return true
}

// Save stores a save point in SQLite
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
		INSERT OR REPLACE INTO %s (id, slot, description, progress_marker, items, timestamp, version)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, s.tableName)

	_, err = s.db.ExecContext(ctx, query,
		sp.ID, sp.Slot, sp.Description, sp.ProgressMarkerKey, items, sp.Timestamp.UnixNano(), sp.Version)
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
		WHERE id = ?
	`, s.tableName)

	sp, err := s.scan(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
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
	rows, err := s.db.QueryContext(ctx, query, args...)
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

	query := fmt.Sprintf("DELETE FROM %s WHERE id = ?", s.tableName)
	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete save point: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
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
			items BLOB NOT NULL,
			timestamp INTEGER NOT NULL,
			version TEXT NOT NULL DEFAULT '1.0'
		);

		CREATE INDEX IF NOT EXISTS idx_%s_slot ON %s (slot);
		CREATE INDEX IF NOT EXISTS idx_%s_timestamp ON %s (timestamp);
	`, s.tableName, s.tableName, s.tableName, s.tableName, s.tableName)

	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}
	return nil
}

// Close closes the database connection
func (s *Saver) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *Saver) scan(row rowScanner) (*savepoint.SavePoint, error) {
	var sp savepoint.SavePoint
	var items []byte
	var ts int64

	if err := row.Scan(&sp.ID, &sp.Slot, &sp.Description, &sp.ProgressMarkerKey, &items, &ts, &sp.Version); err != nil {
		return nil, err
	}
	sp.Timestamp = time.Unix(0, ts)

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

	if filter.Slot != "" {
		query += " AND slot = ?"
		args = append(args, filter.Slot)
	}
	if filter.Since != nil {
		query += " AND timestamp >= ?"
		args = append(args, filter.Since.UnixNano())
	}
	if filter.Before != nil {
		query += " AND timestamp < ?"
		args = append(args, filter.Before.UnixNano())
	}

	query += " ORDER BY timestamp DESC, id ASC"

	// SQLite requires LIMIT when OFFSET is present.
	if filter.Limit > 0 || filter.Offset > 0 {
		limit := filter.Limit
		if limit == 0 {
			limit = -1
		}
		query += " LIMIT ?"
		args = append(args, limit)
	}
	if filter.Offset > 0 {
		query += " OFFSET ?"
		args = append(args, filter.Offset)
	}

	return query, args
}
