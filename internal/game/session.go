package game

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/arcadelab/tictactoe-arena/internal/apperror"
	"github.com/arcadelab/tictactoe-arena/internal/entity"
)

// Event types published to session subscribers.
const (
	EventMove     = "game:move"
	EventFinished = "game:finished"
)

// First mover choices for a new session.
const (
	FirstMoverX      = entity.PlayerX
	FirstMoverO      = entity.PlayerO
	FirstMoverRandom = "random"
)

// RationaleTimeout marks moves the session played itself because the turn
// deadline passed.
const RationaleTimeout = "Out of time, picking a random spot"

var (
	ErrMissingPlayer     = errors.New("session needs two players")
	ErrUnknownFirstMover = errors.New("unknown first mover")
	ErrNotBotTurn        = errors.New("current player is not a bot")
	ErrNoSelector        = errors.New("no move selector configured")
	ErrNoPendingTurn     = errors.New("no pending turn")
	ErrTurnExpired       = errors.New("turn already resolved")
	ErrTurnPending       = errors.New("a turn is already awaited")
)

// MoveSelector picks a position and an explanation for a bot player.
type MoveSelector interface {
	Select(board *entity.Board, mark, level string) (int, string, error)
}

// Event describes one state change of a session.
type Event struct {
	Type      string       `json:"type"`
	SessionID string       `json:"session_id"`
	Move      *entity.Move `json:"move,omitempty"`
	Outcome   string       `json:"outcome,omitempty"`
}

// Session runs a single game between two seated players. Every transition
// happens under one mutex; finished state and outcome are derived from the
// board on demand, never cached.
type Session struct {
	mu sync.Mutex

	id       string
	board    *entity.Board
	players  map[string]*entity.Player
	selector MoveSelector
	rng      *rand.Rand

	firstMover string
	turn       string
	moves      []entity.Move
	handlers   []func(Event)

	turnTimeout time.Duration
	pending     *turnWindow
}

type Option func(*Session)

// WithTurnTimeout arms a deadline on every awaited human turn. Zero keeps
// turns untimed.
func WithTurnTimeout(timeout time.Duration) Option {
	return func(that *Session) { that.turnTimeout = timeout }
}

// WithFirstMover controls which mark opens the game: FirstMoverX (the
// default), FirstMoverO, or FirstMoverRandom.
func WithFirstMover(mover string) Option {
	return func(that *Session) { that.firstMover = mover }
}

// WithRand injects the random source used for the random first mover and
// for deadline-forced moves.
func WithRand(rng *rand.Rand) Option {
	return func(that *Session) { that.rng = rng }
}

// NewSession seats the players, assigning X and O marks, and prepares an
// empty board. The selector may be nil for sessions without bot players.
func NewSession(playerX, playerO *entity.Player, selector MoveSelector, opts ...Option) (*Session, error) {
	if playerX == nil || playerO == nil {
		return nil, ErrMissingPlayer
	}

	that := &Session{
		id:         uuid.NewString(),
		board:      entity.NewBoard(),
		players:    make(map[string]*entity.Player, 2),
		selector:   selector,
		firstMover: FirstMoverX,
	}

	for _, opt := range opts {
		opt(that)
	}

	if that.rng == nil {
		that.rng = rand.New(rand.NewSource(time.Now().UnixNano())) //nolint: gosec // game moves, not secrets
	}

	playerX.Mark = entity.PlayerX
	playerO.Mark = entity.PlayerO
	that.players[entity.PlayerX] = playerX
	that.players[entity.PlayerO] = playerO

	switch that.firstMover {
	case FirstMoverX:
		that.turn = entity.PlayerX
	case FirstMoverO:
		that.turn = entity.PlayerO
	case FirstMoverRandom:
		if that.rng.Intn(2) == 0 {
			that.turn = entity.PlayerX
		} else {
			that.turn = entity.PlayerO
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFirstMover, that.firstMover)
	}

	return that, nil
}

// OnEvent subscribes a handler to session events. Handlers run after the
// move that produced the event has been committed, outside the session lock.
func (that *Session) OnEvent(handler func(Event)) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.handlers = append(that.handlers, handler)
}

// MakeTurn - applies a direct human placement for the given mark.
func (that *Session) MakeTurn(mark string, position int) error {
	that.mu.Lock()

	if that.pending != nil && !that.pending.resolved {
		that.mu.Unlock()
		return ErrTurnPending
	}

	events, err := that.applyMove(mark, position, "")
	that.mu.Unlock()

	that.emit(events)

	return err
}

// PlayBotTurn - asks the selector for the current bot player's move and
// applies it, recording the selector's explanation on the move.
func (that *Session) PlayBotTurn() (entity.Move, error) {
	that.mu.Lock()

	player := that.players[that.turn]
	if !player.IsBot() {
		that.mu.Unlock()
		return entity.Move{}, ErrNotBotTurn
	}

	if that.selector == nil {
		that.mu.Unlock()
		return entity.Move{}, ErrNoSelector
	}

	position, rationale, err := that.selector.Select(that.board, player.Mark, player.Level)
	if err != nil {
		that.mu.Unlock()
		return entity.Move{}, fmt.Errorf("failed to select bot move: %w", err)
	}

	events, err := that.applyMove(player.Mark, position, rationale)
	that.mu.Unlock()
	if err != nil {
		return entity.Move{}, err
	}

	move := *events[0].Move
	that.emit(events)

	return move, nil
}

// turnWindow arbitrates one timed human turn. The first of submit, deadline
// or cancellation resolves it; once resolved it only serves stale callers
// an error.
type turnWindow struct {
	mark     string
	timer    *time.Timer
	resolved bool
	done     chan struct{}
	move     entity.Move
	err      error
}

// AwaitHumanMove opens a turn window for the current human player and
// blocks until it resolves: a valid SubmitMove, the deadline forcing a
// random move, or the context cancelling the turn. Exactly one of those
// wins; a move is never applied twice. The window is forgotten on return,
// so a submission landing after that reports ErrNoPendingTurn.
func (that *Session) AwaitHumanMove(ctx context.Context) (entity.Move, error) {
	that.mu.Lock()

	if _, over := entity.OutcomeOf(that.board); over {
		that.mu.Unlock()
		return entity.Move{}, apperror.ErrGameFinished
	}

	if that.players[that.turn].IsBot() {
		that.mu.Unlock()
		return entity.Move{}, apperror.ErrNotYourTurn
	}

	if that.pending != nil && !that.pending.resolved {
		that.mu.Unlock()
		return entity.Move{}, ErrTurnPending
	}

	window := &turnWindow{
		mark: that.turn,
		done: make(chan struct{}),
	}
	that.pending = window

	if that.turnTimeout > 0 {
		window.timer = time.AfterFunc(that.turnTimeout, func() { that.expireTurn(window) })
	}

	that.mu.Unlock()

	select {
	case <-window.done:
	case <-ctx.Done():
		that.cancelTurn(window, ctx.Err())
		<-window.done
	}

	that.mu.Lock()
	if that.pending == window {
		that.pending = nil
	}
	that.mu.Unlock()

	return window.move, window.err
}

// SubmitMove resolves the open turn window with the player's chosen
// position. An invalid position is rejected without consuming the window,
// so the caller can prompt again while the deadline keeps running.
func (that *Session) SubmitMove(position int) error {
	that.mu.Lock()

	window := that.pending
	if window == nil {
		that.mu.Unlock()
		return ErrNoPendingTurn
	}

	if window.resolved {
		that.mu.Unlock()
		return ErrTurnExpired
	}

	events, err := that.applyMove(window.mark, position, "")
	if err != nil {
		that.mu.Unlock()
		return err
	}

	window.resolved = true
	window.move = *events[0].Move
	if window.timer != nil {
		window.timer.Stop()
	}
	close(window.done)
	that.mu.Unlock()

	that.emit(events)

	return nil
}

// expireTurn fires when the turn deadline passes: it plays a uniformly
// random available position on the mover's behalf, unless the window was
// already resolved.
func (that *Session) expireTurn(window *turnWindow) {
	that.mu.Lock()

	if window.resolved {
		that.mu.Unlock()
		return
	}

	available := that.board.AvailablePositions()
	if len(available) == 0 {
		window.resolved = true
		window.err = apperror.ErrGameFinished
		close(window.done)
		that.mu.Unlock()

		return
	}

	position := available[that.rng.Intn(len(available))]
	events, err := that.applyMove(window.mark, position, RationaleTimeout)

	window.resolved = true
	window.err = err
	if err == nil {
		window.move = *events[0].Move
	}
	close(window.done)
	that.mu.Unlock()

	that.emit(events)
}

// cancelTurn poisons the window without applying any move, so a stale
// submit can never land on a later turn or session.
func (that *Session) cancelTurn(window *turnWindow, cause error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if window.resolved {
		return
	}

	window.resolved = true
	window.err = cause
	if window.timer != nil {
		window.timer.Stop()
	}
	close(window.done)
}

// applyMove validates and commits one placement. Callers hold the mutex;
// the returned events are emitted after it is released.
func (that *Session) applyMove(mark string, position int, rationale string) ([]Event, error) {
	if _, over := entity.OutcomeOf(that.board); over {
		return nil, apperror.ErrGameFinished
	}

	if mark != that.turn {
		return nil, apperror.ErrNotYourTurn
	}

	if err := that.board.Place(position, mark); err != nil {
		return nil, err
	}

	move := entity.Move{
		Index:     len(that.moves),
		Position:  position,
		Mark:      mark,
		Rationale: rationale,
	}
	that.moves = append(that.moves, move)
	that.turn = entity.Opponent(mark)

	events := []Event{{Type: EventMove, SessionID: that.id, Move: &move}}
	if outcome, over := entity.OutcomeOf(that.board); over {
		events = append(events, Event{Type: EventFinished, SessionID: that.id, Outcome: outcome})
	}

	return events, nil
}

func (that *Session) emit(events []Event) {
	if len(events) == 0 {
		return
	}

	that.mu.Lock()
	handlers := make([]func(Event), len(that.handlers))
	copy(handlers, that.handlers)
	that.mu.Unlock()

	for _, event := range events {
		for _, handler := range handlers {
			handler(event)
		}
	}
}

func (that *Session) ID() string {
	return that.id
}

// Board returns a copy, so callers can inspect cells without racing the
// session.
func (that *Session) Board() *entity.Board {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.board.Copy()
}

// Turn returns the mark to move next.
func (that *Session) Turn() string {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.turn
}

// Finished reports whether the game reached a terminal board.
func (that *Session) Finished() bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	_, over := entity.OutcomeOf(that.board)

	return over
}

// Outcome derives the terminal outcome: the winning mark or PlayerTie. The
// second value is false while the game is still running.
func (that *Session) Outcome() (string, bool) {
	that.mu.Lock()
	defer that.mu.Unlock()

	return entity.OutcomeOf(that.board)
}

// Moves returns a copy of the move log in play order.
func (that *Session) Moves() []entity.Move {
	that.mu.Lock()
	defer that.mu.Unlock()

	moves := make([]entity.Move, len(that.moves))
	copy(moves, that.moves)

	return moves
}

func (that *Session) PlayerByMark(mark string) (*entity.Player, bool) {
	player, ok := that.players[mark]

	return player, ok
}
