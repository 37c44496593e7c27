package bot

import (
	"math"

	"github.com/arcadelab/tictactoe-arena/internal/entity"
)

// Terminal scores before depth adjustment. A win found at depth d is worth
// winScore-d and a loss lossScore+d, so the search prefers faster wins and
// slower losses.
const (
	winScore  = 10
	lossScore = -10
)

// selectImpossible searches the whole remaining game tree and plays the
// move with the best minimax score. Positions are scanned ascending and
// only a strictly better score replaces the current best, so ties resolve
// to the lowest position and the choice is fully deterministic.
func selectImpossible(board *entity.Board, mark string) (int, string) {
	bestScore := math.MinInt
	bestPosition := 0

	for _, position := range board.AvailablePositions() {
		trial := board.Copy()
		if err := trial.Place(position, mark); err != nil {
			continue
		}

		if score := minimax(trial, mark, false, 0); score > bestScore {
			bestScore = score
			bestPosition = position
		}
	}

	return bestPosition, explainImpossible(board, bestPosition, mark)
}

// minimax scores a board from the bot's point of view. maximizing is true
// when it is the bot's turn to move in the simulated continuation.
func minimax(board *entity.Board, mark string, maximizing bool, depth int) int {
	opponent := entity.Opponent(mark)

	switch winner := board.Winner(); {
	case winner == mark:
		return winScore - depth
	case winner == opponent:
		return lossScore + depth
	case board.IsFull():
		return 0
	}

	if maximizing {
		best := math.MinInt

		for _, position := range board.AvailablePositions() {
			trial := board.Copy()
			if err := trial.Place(position, mark); err != nil {
				continue
			}

			if score := minimax(trial, mark, false, depth+1); score > best {
				best = score
			}
		}

		return best
	}

	best := math.MaxInt

	for _, position := range board.AvailablePositions() {
		trial := board.Copy()
		if err := trial.Place(position, opponent); err != nil {
			continue
		}

		if score := minimax(trial, mark, true, depth+1); score < best {
			best = score
		}
	}

	return best
}

// explainImpossible labels the chosen move by its tactical role rather
// than its raw score.
func explainImpossible(board *entity.Board, position int, mark string) string {
	trial := board.Copy()
	if err := trial.Place(position, mark); err == nil && trial.Winner() == mark {
		return RationaleWin
	}

	opponent := entity.Opponent(mark)

	trial = board.Copy()
	if err := trial.Place(position, opponent); err == nil && trial.Winner() == opponent {
		return RationaleBlock
	}

	if position == entity.CenterPosition {
		return RationaleCenter
	}

	for _, corner := range entity.CornerPositions {
		if position == corner {
			return RationaleStrategicCorner
		}
	}

	return RationaleOptimal
}
