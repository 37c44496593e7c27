package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/arcadelab/tictactoe-arena/internal/apperror"
	"github.com/arcadelab/tictactoe-arena/internal/entity"
)

const defaultReplayLimit = 10

var ErrReplayNotFound = errors.New("replay not found")

// ReplayRepository archives frozen replays in SQLite.
type ReplayRepository interface {
	Save(ctx context.Context, record *entity.ReplayRecord) error
	GetByID(ctx context.Context, id string) (*entity.ReplayRecord, error)
	ListRecent(ctx context.Context, limit int) ([]*entity.ReplayRecord, error)
}

type replayRepository struct {
	conn *sql.DB
}

func NewReplayRepository(conn *sql.DB) ReplayRepository {
	return &replayRepository{
		conn: conn,
	}
}

func (that *replayRepository) Save(ctx context.Context, record *entity.ReplayRecord) error {
	movesJSON, err := json.Marshal(record.Moves)
	if err != nil {
		return fmt.Errorf("could not marshal moves: %w", err)
	}

	playersJSON, err := json.Marshal(record.Metadata.Players)
	if err != nil {
		return fmt.Errorf("could not marshal players: %w", err)
	}

	query := `INSERT INTO replays (id, difficulty, first_mover, players, outcome, moves, started_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err = that.conn.ExecContext(ctx, query,
		record.ID,
		record.Metadata.Difficulty,
		record.Metadata.FirstMover,
		string(playersJSON),
		record.Outcome,
		string(movesJSON),
		record.Metadata.StartedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("%w: can't save replay: %v", apperror.ErrStorageUnavailable, err)
	}

	return nil
}

func (that *replayRepository) GetByID(ctx context.Context, id string) (*entity.ReplayRecord, error) {
	query := `SELECT id, difficulty, first_mover, players, outcome, moves, started_at
	FROM replays WHERE id = ?`

	record, err := scanReplay(that.conn.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReplayNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("%w: can't find replay: %v", apperror.ErrStorageUnavailable, err)
	}

	return record, nil
}

// ListRecent returns up to limit replays, newest first. A non-positive
// limit falls back to a small default.
func (that *replayRepository) ListRecent(ctx context.Context, limit int) ([]*entity.ReplayRecord, error) {
	if limit <= 0 {
		limit = defaultReplayLimit
	}

	query := `SELECT id, difficulty, first_mover, players, outcome, moves, started_at
	FROM replays ORDER BY started_at DESC, id LIMIT ?`

	rows, err := that.conn.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: can't list replays: %v", apperror.ErrStorageUnavailable, err)
	}
	defer rows.Close()

	var records []*entity.ReplayRecord

	for rows.Next() {
		record, err := scanReplay(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: can't read replay row: %v", apperror.ErrStorageUnavailable, err)
		}

		records = append(records, record)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: can't iterate replays: %v", apperror.ErrStorageUnavailable, err)
	}

	return records, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReplay(row rowScanner) (*entity.ReplayRecord, error) {
	var (
		record      entity.ReplayRecord
		playersJSON string
		movesJSON   string
		startedAt   string
	)

	if err := row.Scan(&record.ID, &record.Metadata.Difficulty, &record.Metadata.FirstMover,
		&playersJSON, &record.Outcome, &movesJSON, &startedAt); err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(playersJSON), &record.Metadata.Players); err != nil {
		return nil, fmt.Errorf("failed to unmarshal players: %w", err)
	}

	if err := json.Unmarshal([]byte(movesJSON), &record.Moves); err != nil {
		return nil, fmt.Errorf("failed to unmarshal moves: %w", err)
	}

	parsed, err := time.Parse(time.RFC3339, startedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse started_at: %w", err)
	}
	record.Metadata.StartedAt = parsed

	return &record, nil
}
