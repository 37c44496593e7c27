package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcadelab/tictactoe-arena/internal/apperror"
	"github.com/arcadelab/tictactoe-arena/internal/entity"
	"github.com/arcadelab/tictactoe-arena/testing/suite"
)

func TestStatsRepository_Save(t *testing.T) {
	ctx, st := suite.New(t)

	statsRepo := NewStatsRepository(st.Storage)

	// Given: a snapshot with a bit of everything in it
	record := entity.NewStatsRecord()
	record.PerDifficulty[entity.DifficultyHard] = &entity.DifficultyStats{Wins: 3, Losses: 1, Ties: 2}
	record.TwoPlayer = entity.TwoPlayerStats{WinsX: 1, Ties: 1}
	record.CurrentStreak = 2
	record.BestStreak = 4
	record.UnlockedAchievements = []string{"first_win"}
	record.RecentResults[entity.DifficultyHard] = []string{entity.ResultWin, entity.ResultLoss}

	// When: the snapshot is saved
	err := statsRepo.Save(ctx, "default", record)

	// Then: no error should be returned
	require.NoError(t, err)
}

func TestStatsRepository_Get(t *testing.T) {
	t.Run("Get_Success", func(t *testing.T) {
		ctx, st := suite.New(t)

		statsRepo := NewStatsRepository(st.Storage)

		// Given: a saved snapshot
		record := entity.NewStatsRecord()
		record.PerDifficulty[entity.DifficultyEasy] = &entity.DifficultyStats{Wins: 5}
		record.BestStreak = 5
		record.RecentResults[entity.DifficultyEasy] = []string{entity.ResultWin, entity.ResultWin}

		err := statsRepo.Save(ctx, "default", record)
		require.NoError(t, err)

		// When: the profile is read back
		loaded, err := statsRepo.Get(ctx, "default")

		// Then: the loaded record matches field for field
		require.NoError(t, err)
		require.Equal(t, record, loaded)
	})

	t.Run("Get_NotFound", func(t *testing.T) {
		ctx, st := suite.New(t)

		statsRepo := NewStatsRepository(st.Storage)

		// When: a profile nobody ever saved is requested
		_, err := statsRepo.Get(ctx, "nobody")

		// Then: an ErrStatsNotFound error should be returned
		require.ErrorIs(t, err, ErrStatsNotFound)
	})

	t.Run("Get_AfterOverwrite", func(t *testing.T) {
		ctx, st := suite.New(t)

		statsRepo := NewStatsRepository(st.Storage)

		// Given: two saves of the same profile
		record := entity.NewStatsRecord()
		record.CurrentStreak = 1
		require.NoError(t, statsRepo.Save(ctx, "default", record))

		record.CurrentStreak = 2
		require.NoError(t, statsRepo.Save(ctx, "default", record))

		// When: the profile is read back
		loaded, err := statsRepo.Get(ctx, "default")

		// Then: the later snapshot won
		require.NoError(t, err)
		assert.Equal(t, 2, loaded.CurrentStreak)
	})
}

func TestStatsRepository_StorageUnavailable(t *testing.T) {
	t.Run("Wears the storage sentinel once redis is gone", func(t *testing.T) {
		ctx, st := suite.New(t)

		statsRepo := NewStatsRepository(st.Storage)

		// Given: a redis client closed under the repository
		require.NoError(t, st.Storage.Close())

		// When: saving and reading run against the dead client
		saveErr := statsRepo.Save(ctx, "default", entity.NewStatsRecord())
		_, getErr := statsRepo.Get(ctx, "default")

		// Then: both failures carry apperror.ErrStorageUnavailable
		require.ErrorIs(t, saveErr, apperror.ErrStorageUnavailable)
		require.ErrorIs(t, getErr, apperror.ErrStorageUnavailable)
	})
}
