package entity

import "time"

// ReplayMetadata describes the game a replay belongs to.
type ReplayMetadata struct {
	Difficulty string    `json:"difficulty,omitempty"`
	FirstMover string    `json:"first_mover"`
	Players    []string  `json:"players,omitempty"`
	StartedAt  time.Time `json:"timestamp"`
}

// ReplayRecord freezes a finished game: metadata, the ordered move log and
// the final outcome. Written once; read back only to rebuild the board state,
// never replayed into a live session.
type ReplayRecord struct {
	ID       string         `json:"id"`
	Metadata ReplayMetadata `json:"metadata"`
	Moves    []Move         `json:"moves"`
	Outcome  string         `json:"outcome"`
}
