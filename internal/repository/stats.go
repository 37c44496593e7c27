package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/arcadelab/tictactoe-arena/internal/apperror"
	"github.com/arcadelab/tictactoe-arena/internal/entity"
)

var ErrStatsNotFound = errors.New("stats not found")

// StatsRepository persists ledger snapshots per player profile.
type StatsRepository interface {
	Save(ctx context.Context, profile string, record *entity.StatsRecord) error
	Get(ctx context.Context, profile string) (*entity.StatsRecord, error)
}

type dbStats struct {
	client *redis.Client
}

func NewStatsRepository(client *redis.Client) StatsRepository {
	return &dbStats{
		client: client,
	}
}

func (that *dbStats) Save(ctx context.Context, profile string, record *entity.StatsRecord) error {
	recordJSON, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("could not marshal stats: %w", err)
	}

	statsKey := "stats:" + profile
	if err = that.client.Set(ctx, statsKey, recordJSON, 0).Err(); err != nil {
		return fmt.Errorf("%w: failed to set stats: %v", apperror.ErrStorageUnavailable, err)
	}

	return nil
}

func (that *dbStats) Get(ctx context.Context, profile string) (*entity.StatsRecord, error) {
	statsKey := "stats:" + profile

	response, err := that.client.Get(ctx, statsKey).Result()

	if errors.Is(err, redis.Nil) {
		return nil, ErrStatsNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("%w: failed to get stats: %v", apperror.ErrStorageUnavailable, err)
	}

	var record entity.StatsRecord
	if err = json.Unmarshal([]byte(response), &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal stats: %w", err)
	}

	return &record, nil
}
