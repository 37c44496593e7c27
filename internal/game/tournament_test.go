package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTournament(t *testing.T) {
	t.Run("Accepts the supported series lengths", func(t *testing.T) {
		// When: a series of each supported length is created
		for length, needed := range map[int]int{3: 2, 5: 3, 7: 4} {
			tournament, err := NewTournament("alice", "bob", length)

			// Then: the win target is one more than half
			require.NoError(t, err)
			assert.Equal(t, needed, tournament.WinsNeeded())
			assert.Equal(t, length, tournament.SeriesLength())
		}
	})

	t.Run("Rejects other series lengths", func(t *testing.T) {
		for _, length := range []int{0, 1, 2, 4, 6, 9} {
			// When: an unsupported length is requested
			_, err := NewTournament("alice", "bob", length)

			// Then: the series is refused
			require.ErrorIs(t, err, ErrInvalidSeriesLength)
		}
	})

	t.Run("Rejects missing or equal contenders", func(t *testing.T) {
		_, err := NewTournament("", "bob", 3)
		require.ErrorIs(t, err, ErrInvalidContenders)

		_, err = NewTournament("alice", "alice", 3)
		require.ErrorIs(t, err, ErrInvalidContenders)
	})
}

func TestTournament_Record(t *testing.T) {
	t.Run("Decides once wins pass half the series", func(t *testing.T) {
		// Given: a best of three
		tournament, err := NewTournament("alice", "bob", 3)
		require.NoError(t, err)

		// When: alice takes two straight games
		require.NoError(t, tournament.Record("alice"))
		assert.False(t, tournament.Decided())
		require.NoError(t, tournament.Record("alice"))

		// Then: the series is over at two games
		assert.True(t, tournament.Decided())
		winner, ok := tournament.Winner()
		require.True(t, ok)
		assert.Equal(t, "alice", winner)
		assert.Equal(t, 2, tournament.GamesPlayed())

		winsA, winsB := tournament.Score()
		assert.Equal(t, 2, winsA)
		assert.Equal(t, 0, winsB)

		// Then: a further game cannot be recorded
		require.ErrorIs(t, tournament.Record("bob"), ErrSeriesDecided)
	})

	t.Run("Draws advance only the game count", func(t *testing.T) {
		// Given: a best of three full of draws
		tournament, err := NewTournament("alice", "bob", 3)
		require.NoError(t, err)

		// When: three straight games end drawn
		for i := 0; i < 3; i++ {
			require.NoError(t, tournament.Record(""))
		}

		// Then: nobody is closer to the title and the series stays open
		assert.False(t, tournament.Decided())
		assert.Equal(t, 3, tournament.GamesPlayed())

		winsA, winsB := tournament.Score()
		assert.Zero(t, winsA)
		assert.Zero(t, winsB)

		_, ok := tournament.Winner()
		assert.False(t, ok)

		// When: real results finally arrive
		require.NoError(t, tournament.Record("bob"))
		require.NoError(t, tournament.Record("bob"))

		// Then: the series is decided past its nominal length
		assert.True(t, tournament.Decided())
		winner, ok := tournament.Winner()
		require.True(t, ok)
		assert.Equal(t, "bob", winner)
		assert.Equal(t, 5, tournament.GamesPlayed())
	})

	t.Run("Best of five goes the distance", func(t *testing.T) {
		// Given: a best of five traded game for game
		tournament, err := NewTournament("alice", "bob", 5)
		require.NoError(t, err)

		// When: the contenders alternate wins with alice one ahead
		for _, winner := range []string{"alice", "bob", "alice", "bob", "alice"} {
			require.NoError(t, tournament.Record(winner))
		}

		// Then: alice takes it three games to two
		assert.True(t, tournament.Decided())
		winner, ok := tournament.Winner()
		require.True(t, ok)
		assert.Equal(t, "alice", winner)

		winsA, winsB := tournament.Score()
		assert.Equal(t, 3, winsA)
		assert.Equal(t, 2, winsB)
	})

	t.Run("Rejects an unknown contender", func(t *testing.T) {
		// Given: a fresh series
		tournament, err := NewTournament("alice", "bob", 3)
		require.NoError(t, err)

		// When: a result names somebody else
		err = tournament.Record("mallory")

		// Then: the result is refused and not counted
		require.ErrorIs(t, err, ErrUnknownContender)
		assert.Zero(t, tournament.GamesPlayed())
	})
}
