package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
)

var tableName = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// PostgresStore keeps records in a two-column key/value table with a JSONB value.
type PostgresStore struct {
	db        *sql.DB
	getSQL    string
	setSQL    string
	existsSQL string
}

// NewPostgresStore uses table, which must already exist:
//
//	CREATE TABLE kv_store (key TEXT PRIMARY KEY, value JSONB NOT NULL);
func NewPostgresStore(db *sql.DB, table string) (*PostgresStore, error) {
	if !tableName.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	return &PostgresStore{
		db:        db,
		getSQL:    fmt.Sprintf(`SELECT value FROM %s WHERE key = $1`, table),
		setSQL:    fmt.Sprintf(`INSERT INTO %s (key, value) VALUES ($1, $2) ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`, table),
		existsSQL: fmt.Sprintf(`SELECT EXISTS(SELECT 1 FROM %s WHERE key = $1)`, table),
	}, nil
}

func (s *PostgresStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, s.getSQL, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("postgres get %s: %w", key, err)
	}
	return value, nil
}

func (s *PostgresStore) Set(ctx context.Context, key string, value []byte) error {
	if _, err := s.db.ExecContext(ctx, s.setSQL, key, value); err != nil {
		return fmt.Errorf("postgres set %s: %w", key, err)
	}
	return nil
}

func (s *PostgresStore) Exists(ctx context.Context, key string) (bool, error) {
	var exists bool
	if err := s.db.QueryRowContext(ctx, s.existsSQL, key).Scan(&exists); err != nil {
		return false, fmt.Errorf("postgres exists %s: %w", key, err)
	}
	return exists, nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}
