package storage

import (
	"context"
	"database/sql"
	"fmt"

	// import the SQLite driver to register it with the database/sql package.
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// Storage is the SQLite archive backing the replay repository.
type Storage struct {
	Connection *sql.DB
}

func NewSQLiteStorage(path string) (*Storage, error) {
	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("can't open database: %w", err)
	}

	if err = conn.Ping(); err != nil {
		return nil, fmt.Errorf("can't connect to database: %w", err)
	}

	return &Storage{Connection: conn}, nil
}

// Init creates the replay archive schema. Moves and players are stored as
// JSON text; started_at is RFC3339 so the recency ordering is lexical.
func (that *Storage) Init(ctx context.Context) error {
	query := `CREATE TABLE IF NOT EXISTS replays (
		id TEXT PRIMARY KEY,
		difficulty TEXT,
		first_mover TEXT NOT NULL,
		players TEXT NOT NULL,
		outcome TEXT NOT NULL,
		moves TEXT NOT NULL,
		started_at TEXT NOT NULL
	)`

	if _, err := that.Connection.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("can't create table: %w", err)
	}

	indexQuery := `CREATE INDEX IF NOT EXISTS idx_replays_started_at ON replays (started_at)`
	if _, err := that.Connection.ExecContext(ctx, indexQuery); err != nil {
		return fmt.Errorf("can't create index: %w", err)
	}

	return nil
}

func (that *Storage) Close() error {
	return that.Connection.Close()
}
