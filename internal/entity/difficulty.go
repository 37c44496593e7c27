package entity

import (
	"errors"
	"fmt"
)

// Difficulty levels of the computer opponent, weakest first.
const (
	DifficultyEasy       = "easy"
	DifficultyMedium     = "medium"
	DifficultyHard       = "hard"
	DifficultyImpossible = "impossible"
)

var ErrUnknownDifficulty = errors.New("unknown difficulty")

// Difficulties lists every level in ascending strength order.
var Difficulties = []string{DifficultyEasy, DifficultyMedium, DifficultyHard, DifficultyImpossible}

// ParseDifficulty validates a difficulty name.
func ParseDifficulty(name string) (string, error) {
	for _, level := range Difficulties {
		if level == name {
			return level, nil
		}
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownDifficulty, name)
}

// NextHarder returns the level above, or false at the top.
func NextHarder(level string) (string, bool) {
	for i, candidate := range Difficulties {
		if candidate == level && i+1 < len(Difficulties) {
			return Difficulties[i+1], true
		}
	}

	return "", false
}

// NextEasier returns the level below, or false at the bottom.
func NextEasier(level string) (string, bool) {
	for i, candidate := range Difficulties {
		if candidate == level && i > 0 {
			return Difficulties[i-1], true
		}
	}

	return "", false
}
