package entity

// Game results from the tracked player's point of view.
const (
	ResultWin  = "win"
	ResultLoss = "loss"
	ResultTie  = "tie"
)

// OutcomeOf derives the terminal result of a board: the winning mark,
// PlayerTie for a full board without a winner, or false while the game is
// still open. Outcomes are recomputed on demand, never cached, so board and
// outcome cannot drift apart.
func OutcomeOf(board *Board) (string, bool) {
	if winner := board.Winner(); winner != EmptyCell {
		return winner, true
	}

	if board.IsFull() {
		return PlayerTie, true
	}

	return "", false
}

// ResultFor translates an outcome into win/loss/tie as seen by one mark.
func ResultFor(outcome, mark string) string {
	switch outcome {
	case mark:
		return ResultWin
	case PlayerTie:
		return ResultTie
	default:
		return ResultLoss
	}
}

// Opponent returns the other mark.
func Opponent(mark string) string {
	if mark == PlayerX {
		return PlayerO
	}

	return PlayerX
}
