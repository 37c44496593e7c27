package game

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidSeriesLength = errors.New("series length must be 3, 5 or 7")
	ErrInvalidContenders   = errors.New("contenders must be two distinct names")
	ErrUnknownContender    = errors.New("unknown contender")
	ErrSeriesDecided       = errors.New("series already decided")
)

// Tournament tracks a best-of-N series between two named contenders. Draws
// advance the game count but score nothing, so a series is decided only
// when one side's wins strictly exceed half the length. An all-draw series
// never decides itself; whoever schedules the games has to stop it.
type Tournament struct {
	playerA string
	playerB string
	length  int

	winsA  int
	winsB  int
	played int
}

func NewTournament(playerA, playerB string, seriesLength int) (*Tournament, error) {
	switch seriesLength {
	case 3, 5, 7:
	default:
		return nil, fmt.Errorf("%w: got %d", ErrInvalidSeriesLength, seriesLength)
	}

	if playerA == "" || playerB == "" || playerA == playerB {
		return nil, ErrInvalidContenders
	}

	return &Tournament{playerA: playerA, playerB: playerB, length: seriesLength}, nil
}

// Record adds one finished game to the series. An empty winner records a
// draw.
func (that *Tournament) Record(winner string) error {
	if that.Decided() {
		return ErrSeriesDecided
	}

	switch winner {
	case "":
	case that.playerA:
		that.winsA++
	case that.playerB:
		that.winsB++
	default:
		return fmt.Errorf("%w: %q", ErrUnknownContender, winner)
	}

	that.played++

	return nil
}

// WinsNeeded returns the win count that clinches the series.
func (that *Tournament) WinsNeeded() int {
	return that.length/2 + 1
}

func (that *Tournament) Decided() bool {
	return that.winsA >= that.WinsNeeded() || that.winsB >= that.WinsNeeded()
}

// Winner names the series champion once the series is decided.
func (that *Tournament) Winner() (string, bool) {
	switch {
	case that.winsA >= that.WinsNeeded():
		return that.playerA, true
	case that.winsB >= that.WinsNeeded():
		return that.playerB, true
	default:
		return "", false
	}
}

// Score returns the wins of each contender in constructor order.
func (that *Tournament) Score() (int, int) {
	return that.winsA, that.winsB
}

func (that *Tournament) GamesPlayed() int {
	return that.played
}

func (that *Tournament) SeriesLength() int {
	return that.length
}
