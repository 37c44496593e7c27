package entity

import (
	"errors"
	"fmt"

	"github.com/arcadelab/tictactoe-arena/internal/apperror"
)

const (
	PlayerX   = "X"
	PlayerO   = "O"
	PlayerTie = "-"

	EmptyCell = ""
)

const (
	BoardSize      = 9
	CenterPosition = 5
)

var (
	ErrInvalidCell = errors.New("invalid cell position")

	// WinLines is the full win-line table in board positions 1-9:
	// three rows, three columns, two diagonals.
	WinLines = [8][3]int{
		{1, 2, 3},
		{4, 5, 6},
		{7, 8, 9},
		{1, 4, 7},
		{2, 5, 8},
		{3, 6, 9},
		{1, 5, 9},
		{3, 5, 7},
	}

	// CornerPositions in ascending order.
	CornerPositions = [4]int{1, 3, 7, 9}
)

// Board is a 3x3 grid addressed by positions 1-9, row by row, center at 5.
// Cells change only through Place.
type Board struct {
	cells [BoardSize]string
}

func NewBoard() *Board {
	return &Board{}
}

// Place puts a mark on a position. It rejects positions outside 1-9 and
// occupied cells without touching the grid; turn order is enforced by the
// session, not here.
func (that *Board) Place(position int, mark string) error {
	if position < 1 || position > BoardSize {
		return fmt.Errorf("%w: %d", ErrInvalidCell, position)
	}

	if that.cells[position-1] != EmptyCell {
		return apperror.ErrCellOccupied
	}

	that.cells[position-1] = mark

	return nil
}

// CellAt returns the mark occupying a position, or EmptyCell.
func (that *Board) CellAt(position int) (string, error) {
	if position < 1 || position > BoardSize {
		return "", fmt.Errorf("%w: %d", ErrInvalidCell, position)
	}

	return that.cells[position-1], nil
}

// Winner returns the mark fully occupying any win line, or EmptyCell while
// nobody has won. A legal game can never fill two lines for different marks.
func (that *Board) Winner() string {
	for _, line := range WinLines {
		a, b, c := that.cells[line[0]-1], that.cells[line[1]-1], that.cells[line[2]-1]
		if a != EmptyCell && a == b && b == c {
			return a
		}
	}

	return EmptyCell
}

// WinningLine returns the three positions forming the winning line, for
// highlighting. The second value is false while there is no winner.
func (that *Board) WinningLine() ([3]int, bool) {
	for _, line := range WinLines {
		a, b, c := that.cells[line[0]-1], that.cells[line[1]-1], that.cells[line[2]-1]
		if a != EmptyCell && a == b && b == c {
			return line, true
		}
	}

	return [3]int{}, false
}

// IsFull reports whether no empty cell remains.
func (that *Board) IsFull() bool {
	for _, cell := range that.cells {
		if cell == EmptyCell {
			return false
		}
	}

	return true
}

// AvailablePositions lists the open positions in ascending order. Both the
// heuristic ladder and the minimax search scan this order, so ties always
// resolve to the lowest position.
func (that *Board) AvailablePositions() []int {
	positions := make([]int, 0, BoardSize)
	for i, cell := range that.cells {
		if cell == EmptyCell {
			positions = append(positions, i+1)
		}
	}

	return positions
}

// Copy returns an independent board for AI simulations.
func (that *Board) Copy() *Board {
	clone := *that
	return &clone
}
