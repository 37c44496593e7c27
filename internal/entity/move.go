package entity

// Move is one placement in a session's append-only move log. Index is the
// zero-based sequence number within the game; Rationale is set for bot moves
// and for deadline-forced moves.
type Move struct {
	Index     int    `json:"index"`
	Position  int    `json:"position"`
	Mark      string `json:"mark"`
	Rationale string `json:"rationale,omitempty"`
}
