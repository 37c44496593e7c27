package bot

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/arcadelab/tictactoe-arena/internal/entity"
)

var ErrNoAvailableMoves = errors.New("no available moves")

// Player-facing explanations for chosen moves.
const (
	RationaleRandom          = "Picking a random spot"
	RationaleWin             = "Going for the win!"
	RationaleBlock           = "Blocking your winning move"
	RationaleCenter          = "Taking the center"
	RationaleCorner          = "Taking a corner"
	RationaleOpenSpot        = "Taking an open spot"
	RationaleStrategicCorner = "Taking a strategic corner"
	RationaleOptimal         = "Playing the optimal move"
)

// Selector picks moves for the computer opponent. The random source is
// injected so tests can seed it; nil falls back to a time-seeded source.
type Selector struct {
	rng *rand.Rand
}

func NewSelector(rng *rand.Rand) *Selector {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano())) //nolint: gosec // game moves, not secrets
	}

	return &Selector{rng: rng}
}

// Select returns the chosen position and a short explanation for the given
// difficulty. Callers must only ask on a live board: a full or already
// decided board is a contract breach and returns ErrNoAvailableMoves.
func (that *Selector) Select(board *entity.Board, mark, level string) (int, string, error) {
	if board.Winner() != entity.EmptyCell || board.IsFull() {
		return 0, "", ErrNoAvailableMoves
	}

	switch level {
	case entity.DifficultyEasy:
		position, rationale := that.selectEasy(board)
		return position, rationale, nil
	case entity.DifficultyMedium:
		position, rationale := that.selectMedium(board, mark)
		return position, rationale, nil
	case entity.DifficultyHard:
		position, rationale := that.selectHard(board, mark)
		return position, rationale, nil
	case entity.DifficultyImpossible:
		position, rationale := selectImpossible(board, mark)
		return position, rationale, nil
	default:
		return 0, "", fmt.Errorf("%w: %q", entity.ErrUnknownDifficulty, level)
	}
}

// selectEasy picks uniformly among the open positions.
func (that *Selector) selectEasy(board *entity.Board) (int, string) {
	available := board.AvailablePositions()

	return available[that.rng.Intn(len(available))], RationaleRandom
}

// selectMedium flips a fair coin: heads runs the hard ladder, tails plays
// like easy. The explanation follows whichever branch executed.
func (that *Selector) selectMedium(board *entity.Board, mark string) (int, string) {
	if that.rng.Intn(2) == 0 {
		return that.selectHard(board, mark)
	}

	return that.selectEasy(board)
}

// selectHard runs the priority ladder: win, block, center, corner, first
// open spot. Corner and fallback picks take the lowest open position, so
// equal boards always produce the same move.
func (that *Selector) selectHard(board *entity.Board, mark string) (int, string) {
	if position, ok := findWinningMove(board, mark); ok {
		return position, RationaleWin
	}

	if position, ok := findWinningMove(board, entity.Opponent(mark)); ok {
		return position, RationaleBlock
	}

	if cell, err := board.CellAt(entity.CenterPosition); err == nil && cell == entity.EmptyCell {
		return entity.CenterPosition, RationaleCenter
	}

	for _, corner := range entity.CornerPositions {
		if cell, err := board.CellAt(corner); err == nil && cell == entity.EmptyCell {
			return corner, RationaleCorner
		}
	}

	return board.AvailablePositions()[0], RationaleOpenSpot
}

// findWinningMove returns the position completing three in a row for the
// mark, or false when no single move wins.
func findWinningMove(board *entity.Board, mark string) (int, bool) {
	for _, position := range board.AvailablePositions() {
		trial := board.Copy()
		if err := trial.Place(position, mark); err != nil {
			continue
		}

		if trial.Winner() == mark {
			return position, true
		}
	}

	return 0, false
}
