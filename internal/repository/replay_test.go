package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcadelab/tictactoe-arena/internal/apperror"
	"github.com/arcadelab/tictactoe-arena/internal/entity"
	"github.com/arcadelab/tictactoe-arena/testing/suite"
)

func sampleReplay(id string, startedAt time.Time) *entity.ReplayRecord {
	return &entity.ReplayRecord{
		ID: id,
		Metadata: entity.ReplayMetadata{
			Difficulty: entity.DifficultyHard,
			FirstMover: entity.PlayerX,
			Players:    []string{"alice", "bot:hard"},
			StartedAt:  startedAt,
		},
		Moves: []entity.Move{
			{Index: 0, Position: 1, Mark: entity.PlayerX},
			{Index: 1, Position: 4, Mark: entity.PlayerO},
			{Index: 2, Position: 2, Mark: entity.PlayerX},
			{Index: 3, Position: 5, Mark: entity.PlayerO},
			{Index: 4, Position: 3, Mark: entity.PlayerX, Rationale: "Going for the win!"},
		},
		Outcome: entity.PlayerX,
	}
}

func TestReplayRepository_Save(t *testing.T) {
	t.Run("Save_Success", func(t *testing.T) {
		ctx, st := suite.NewSQLite(t)

		replayRepo := NewReplayRepository(st.Connection)

		// Given: a frozen replay
		record := sampleReplay("r1", time.Date(2025, time.March, 9, 12, 0, 0, 0, time.UTC))

		// When: the replay is archived
		err := replayRepo.Save(ctx, record)

		// Then: no error should be returned
		require.NoError(t, err)
	})

	t.Run("Save_DuplicateID", func(t *testing.T) {
		ctx, st := suite.NewSQLite(t)

		replayRepo := NewReplayRepository(st.Connection)

		// Given: a replay already archived under its id
		record := sampleReplay("r1", time.Date(2025, time.March, 9, 12, 0, 0, 0, time.UTC))
		require.NoError(t, replayRepo.Save(ctx, record))

		// When: the same id is archived again
		err := replayRepo.Save(ctx, record)

		// Then: the primary key rejects it
		require.Error(t, err)
	})
}

func TestReplayRepository_GetByID(t *testing.T) {
	t.Run("GetByID_Success", func(t *testing.T) {
		ctx, st := suite.NewSQLite(t)

		replayRepo := NewReplayRepository(st.Connection)

		// Given: an archived replay
		record := sampleReplay("r1", time.Date(2025, time.March, 9, 12, 0, 0, 0, time.UTC))
		require.NoError(t, replayRepo.Save(ctx, record))

		// When: it is read back by id
		loaded, err := replayRepo.GetByID(ctx, "r1")

		// Then: metadata, moves and outcome survive the round trip
		require.NoError(t, err)
		require.Equal(t, record, loaded)
	})

	t.Run("GetByID_NotFound", func(t *testing.T) {
		ctx, st := suite.NewSQLite(t)

		replayRepo := NewReplayRepository(st.Connection)

		// When: an id nobody archived is requested
		_, err := replayRepo.GetByID(ctx, "missing")

		// Then: an ErrReplayNotFound error should be returned
		require.ErrorIs(t, err, ErrReplayNotFound)
	})
}

func TestReplayRepository_ListRecent(t *testing.T) {
	t.Run("Orders newest first and honors the limit", func(t *testing.T) {
		ctx, st := suite.NewSQLite(t)

		replayRepo := NewReplayRepository(st.Connection)

		// Given: three replays archived over three days
		base := time.Date(2025, time.March, 9, 12, 0, 0, 0, time.UTC)
		for i, id := range []string{"old", "middle", "new"} {
			record := sampleReplay(id, base.AddDate(0, 0, i))
			require.NoError(t, replayRepo.Save(ctx, record))
		}

		// When: the two most recent are listed
		records, err := replayRepo.ListRecent(ctx, 2)

		// Then: the newest comes first and the oldest is cut off
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, "new", records[0].ID)
		assert.Equal(t, "middle", records[1].ID)
	})

	t.Run("Falls back to a default limit", func(t *testing.T) {
		ctx, st := suite.NewSQLite(t)

		replayRepo := NewReplayRepository(st.Connection)

		base := time.Date(2025, time.March, 9, 12, 0, 0, 0, time.UTC)
		for i, id := range []string{"a", "b", "c"} {
			require.NoError(t, replayRepo.Save(ctx, sampleReplay(id, base.Add(time.Duration(i)*time.Hour))))
		}

		// When: no limit is given
		records, err := replayRepo.ListRecent(ctx, 0)

		// Then: everything within the default window comes back
		require.NoError(t, err)
		assert.Len(t, records, 3)
	})

	t.Run("Empty archive lists nothing", func(t *testing.T) {
		ctx, st := suite.NewSQLite(t)

		replayRepo := NewReplayRepository(st.Connection)

		records, err := replayRepo.ListRecent(ctx, 5)
		require.NoError(t, err)
		assert.Empty(t, records)
	})
}

func TestReplayRepository_StorageUnavailable(t *testing.T) {
	t.Run("Wears the storage sentinel once the archive is gone", func(t *testing.T) {
		ctx, st := suite.NewSQLite(t)

		replayRepo := NewReplayRepository(st.Connection)

		// Given: an archive whose connection was closed under the repository
		require.NoError(t, st.Close())

		// When: every operation runs against the dead connection
		saveErr := replayRepo.Save(ctx, sampleReplay("r1", time.Date(2025, time.March, 9, 12, 0, 0, 0, time.UTC)))
		_, getErr := replayRepo.GetByID(ctx, "r1")
		_, listErr := replayRepo.ListRecent(ctx, 5)

		// Then: every failure carries apperror.ErrStorageUnavailable
		require.ErrorIs(t, saveErr, apperror.ErrStorageUnavailable)
		require.ErrorIs(t, getErr, apperror.ErrStorageUnavailable)
		require.ErrorIs(t, listErr, apperror.ErrStorageUnavailable)
	})
}
