package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/arcadelab/tictactoe-arena/internal/entity"
	"github.com/arcadelab/tictactoe-arena/internal/repository"
)

type statsReader interface {
	Snapshot() *entity.StatsRecord
	Suggestion(difficulty string) (string, bool)
}

type replayReader interface {
	GetByID(ctx context.Context, id string) (*entity.ReplayRecord, error)
	ListRecent(ctx context.Context, limit int) ([]*entity.ReplayRecord, error)
}

// Handlers - the read-only HTTP surface over the ledger and the replay archive.
type Handlers struct {
	logger  *slog.Logger
	stats   statsReader
	replays replayReader
}

// NewHandlers - creates a new Handlers.
func NewHandlers(logger *slog.Logger, stats statsReader, replays replayReader) *Handlers {
	return &Handlers{
		logger:  logger.With("component", "rest"),
		stats:   stats,
		replays: replays,
	}
}

// Ping - responds "pong" to requests.
func (that *Handlers) Ping(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)

	if _, err := w.Write([]byte("pong")); err != nil {
		that.logger.Error("failed to write response", "error", err)
	}
}

// Stats - returns the current stats snapshot.
func (that *Handlers) Stats(w http.ResponseWriter, _ *http.Request) {
	that.writeJSON(w, http.StatusOK, that.stats.Snapshot())
}

type suggestionResponse struct {
	Difficulty string  `json:"difficulty"`
	Suggestion *string `json:"suggestion"`
}

// Suggestion - returns the difficulty change suggested by recent results, if any.
func (that *Handlers) Suggestion(w http.ResponseWriter, r *http.Request) {
	difficulty := r.URL.Query().Get("difficulty")
	if _, err := entity.ParseDifficulty(difficulty); err != nil {
		http.Error(w, "unknown difficulty", http.StatusBadRequest)
		return
	}

	response := suggestionResponse{Difficulty: difficulty}
	if suggested, ok := that.stats.Suggestion(difficulty); ok {
		response.Suggestion = &suggested
	}

	that.writeJSON(w, http.StatusOK, response)
}

type replaySummary struct {
	ID         string    `json:"id"`
	Difficulty string    `json:"difficulty,omitempty"`
	FirstMover string    `json:"first_mover"`
	Players    []string  `json:"players"`
	StartedAt  time.Time `json:"timestamp"`
	Outcome    string    `json:"outcome"`
	Moves      int       `json:"moves"`
}

// Replays - returns metadata for the most recent replays.
func (that *Handlers) Replays(w http.ResponseWriter, r *http.Request) {
	var limit int

	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			http.Error(w, "limit must be a positive number", http.StatusBadRequest)
			return
		}

		limit = parsed
	}

	records, err := that.replays.ListRecent(r.Context(), limit)
	if err != nil {
		that.logger.Error("failed to list replays", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)

		return
	}

	summaries := make([]replaySummary, 0, len(records))
	for _, record := range records {
		summaries = append(summaries, replaySummary{
			ID:         record.ID,
			Difficulty: record.Metadata.Difficulty,
			FirstMover: record.Metadata.FirstMover,
			Players:    record.Metadata.Players,
			StartedAt:  record.Metadata.StartedAt,
			Outcome:    record.Outcome,
			Moves:      len(record.Moves),
		})
	}

	that.writeJSON(w, http.StatusOK, summaries)
}

// ReplayByID - returns the full replay record for the given id.
func (that *Handlers) ReplayByID(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	record, err := that.replays.GetByID(r.Context(), id)
	if errors.Is(err, repository.ErrReplayNotFound) {
		http.Error(w, "replay not found", http.StatusNotFound)
		return
	}

	if err != nil {
		that.logger.Error("failed to get replay", "error", err, "replay", id)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)

		return
	}

	that.writeJSON(w, http.StatusOK, record)
}

func (that *Handlers) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		that.logger.Error("failed to encode response", "error", err)
	}
}
