package replay

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/arcadelab/tictactoe-arena/internal/entity"
)

var (
	ErrAlreadyFrozen = errors.New("replay already frozen")
	ErrGameNotOver   = errors.New("game is not over yet")
	ErrCorruptReplay = errors.New("corrupt replay")
)

// Recorder collects the moves of one running game and freezes them into an
// immutable ReplayRecord once the game ends. A recorder serves exactly one
// game; freezing twice is an error.
type Recorder struct {
	metadata entity.ReplayMetadata
	moves    []entity.Move
	frozen   bool
}

func NewRecorder(metadata entity.ReplayMetadata) *Recorder {
	return &Recorder{metadata: metadata}
}

// Record appends one move in play order. Appends after Freeze are dropped,
// so a stale event cannot grow a finished replay.
func (that *Recorder) Record(move entity.Move) {
	if that.frozen {
		return
	}

	that.moves = append(that.moves, move)
}

// Freeze - closes the recorder into a ReplayRecord carrying the outcome.
func (that *Recorder) Freeze(outcome string) (*entity.ReplayRecord, error) {
	if that.frozen {
		return nil, ErrAlreadyFrozen
	}

	if outcome == "" {
		return nil, ErrGameNotOver
	}

	that.frozen = true

	moves := make([]entity.Move, len(that.moves))
	copy(moves, that.moves)

	return &entity.ReplayRecord{
		ID:       uuid.NewString(),
		Metadata: that.metadata,
		Moves:    moves,
		Outcome:  outcome,
	}, nil
}

// Rebuild folds a replay's moves onto a fresh board and returns the
// terminal position. Every entry is validated the way a live game would
// have: bad positions, occupied cells or moves past the end mean the log
// is corrupt, not that the game was illegal.
func Rebuild(record *entity.ReplayRecord) (*entity.Board, error) {
	if record == nil {
		return nil, fmt.Errorf("%w: no record", ErrCorruptReplay)
	}

	board := entity.NewBoard()
	expected := ""

	for i, move := range record.Moves {
		if move.Mark != entity.PlayerX && move.Mark != entity.PlayerO {
			return nil, fmt.Errorf("%w: move %d has mark %q", ErrCorruptReplay, i, move.Mark)
		}

		if expected != "" && move.Mark != expected {
			return nil, fmt.Errorf("%w: move %d breaks the turn order", ErrCorruptReplay, i)
		}

		if _, over := entity.OutcomeOf(board); over {
			return nil, fmt.Errorf("%w: move %d after the game ended", ErrCorruptReplay, i)
		}

		if err := board.Place(move.Position, move.Mark); err != nil {
			return nil, fmt.Errorf("%w: move %d: %v", ErrCorruptReplay, i, err)
		}

		expected = entity.Opponent(move.Mark)
	}

	outcome, over := entity.OutcomeOf(board)
	if !over || outcome != record.Outcome {
		return nil, fmt.Errorf("%w: moves do not reach the recorded outcome %q", ErrCorruptReplay, record.Outcome)
	}

	return board, nil
}
