package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/arcadelab/tictactoe-arena/internal/entity"
	"github.com/arcadelab/tictactoe-arena/internal/game"
	"github.com/arcadelab/tictactoe-arena/internal/ledger"
	"github.com/arcadelab/tictactoe-arena/internal/replay"
	"github.com/arcadelab/tictactoe-arena/internal/repository"
)

// Contender names shown in series standings and replay metadata. The
// challenger is the tracked side; its results feed the ledger.
const (
	ChallengerName = "challenger"
	HouseName      = "house"
)

// drawCapFactor bounds an all-draw series: the runner gives up after
// seriesLength times this many games without a decision.
const drawCapFactor = 3

type statsRepo interface {
	Save(ctx context.Context, profile string, record *entity.StatsRecord) error
	Get(ctx context.Context, profile string) (*entity.StatsRecord, error)
}

type replayRepo interface {
	Save(ctx context.Context, record *entity.ReplayRecord) error
}

type moveSelector interface {
	Select(board *entity.Board, mark, level string) (int, string, error)
}

// Settings configure one exhibition series.
type Settings struct {
	ChallengerLevel string
	HouseLevel      string
	SeriesLength    int
	FirstMover      string
	TurnTimeout     time.Duration
	Profile         string
}

// Arena runs bot versus bot exhibition series: it plays the sessions one at
// a time, archives every replay, and commits each result to the ledger from
// the challenger's side.
type Arena struct {
	logger     *slog.Logger
	selector   moveSelector
	tracker    *ledger.Ledger
	statsRepo  statsRepo
	replayRepo replayRepo
	rng        *rand.Rand
	settings   Settings
}

func NewArena(logger *slog.Logger, selector moveSelector, tracker *ledger.Ledger,
	statsRepo statsRepo, replayRepo replayRepo, rng *rand.Rand, settings Settings,
) *Arena {
	return &Arena{
		logger:     logger,
		selector:   selector,
		tracker:    tracker,
		statsRepo:  statsRepo,
		replayRepo: replayRepo,
		rng:        rng,
		settings:   settings,
	}
}

// RestoreLedger loads the profile's stats and builds the ledger over them.
// A missing record starts fresh; an unreachable store also starts fresh,
// with a warning, instead of blocking play.
func RestoreLedger(ctx context.Context, logger *slog.Logger, repo statsRepo, profile string, params ledger.Params) *ledger.Ledger {
	log := logger.With("component", "arena")

	record, err := repo.Get(ctx, profile)

	switch {
	case err == nil:
		log.Info("stats restored", "profile", profile, "games", record.TotalGames())
		return ledger.NewLedgerFromRecord(record, params)
	case errors.Is(err, repository.ErrStatsNotFound):
		log.Info("no stats yet, starting fresh", "profile", profile)
	default:
		log.Warn("could not restore stats, starting fresh", "profile", profile, "error", err)
	}

	return ledger.NewLedger(params)
}

// RunSeries - plays a best-of-N series between the challenger and house
// bots until it is decided, the draw cap trips, or the context ends. Every
// finished game is archived and committed before the next one starts.
func (that *Arena) RunSeries(ctx context.Context) (*game.Tournament, error) {
	challenger, house := that.contenders()

	tournament, err := game.NewTournament(challenger.Name, house.Name, that.settings.SeriesLength)
	if err != nil {
		return nil, fmt.Errorf("failed to create tournament: %w", err)
	}

	log := that.logger.With("component", "arena")
	log.Info("series starting",
		"challenger", challenger.Level, "house", house.Level,
		"series-length", tournament.SeriesLength(), "wins-needed", tournament.WinsNeeded())

	drawCap := that.settings.SeriesLength * drawCapFactor

	for !tournament.Decided() {
		if ctx.Err() != nil {
			log.Info("series interrupted", "games", tournament.GamesPlayed())
			return tournament, nil
		}

		if tournament.GamesPlayed() >= drawCap {
			log.Warn("series abandoned, nobody can win this", "games", tournament.GamesPlayed())
			return tournament, nil
		}

		record, err := that.playGame(ctx, challenger, house)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("series interrupted", "games", tournament.GamesPlayed())
				return tournament, nil
			}

			return tournament, fmt.Errorf("failed to play game: %w", err)
		}

		that.archiveReplay(ctx, log, record)

		result := entity.ResultFor(record.Outcome, challenger.Mark)

		delta, err := that.tracker.Commit(result, house.Level)
		if err != nil {
			return tournament, fmt.Errorf("failed to commit result: %w", err)
		}

		log.Info("game recorded", "result", result, "difficulty", house.Level,
			"streak", delta.CurrentStreak, "game", tournament.GamesPlayed()+1)

		for _, id := range delta.Unlocked {
			log.Info("achievement unlocked", "achievement", id)
		}

		that.persistStats(ctx, log)

		if suggested, ok := that.tracker.Suggestion(house.Level); ok {
			log.Info("difficulty suggestion", "current", house.Level, "suggested", suggested)
		}

		if err = tournament.Record(seriesWinner(record.Outcome, challenger, house)); err != nil {
			return tournament, fmt.Errorf("failed to record series game: %w", err)
		}
	}

	winner, _ := tournament.Winner()
	winsA, winsB := tournament.Score()
	log.Info("series decided", "winner", winner,
		"score", fmt.Sprintf("%d:%d", winsA, winsB), "games", tournament.GamesPlayed())

	return tournament, nil
}

// PlaySession - runs a single exhibition game outside any series and
// archives its replay.
func (that *Arena) PlaySession(ctx context.Context) (*entity.ReplayRecord, error) {
	challenger, house := that.contenders()

	record, err := that.playGame(ctx, challenger, house)
	if err != nil {
		return nil, err
	}

	that.archiveReplay(ctx, that.logger.With("component", "arena"), record)

	return record, nil
}

// contenders seats the challenger at X and the house at O.
func (that *Arena) contenders() (*entity.Player, *entity.Player) {
	challenger := entity.NewBotPlayer(that.settings.ChallengerLevel)
	challenger.Name = ChallengerName

	house := entity.NewBotPlayer(that.settings.HouseLevel)
	house.Name = HouseName

	return challenger, house
}

// playGame runs one session to its end, feeding every move to a recorder,
// and returns the frozen replay.
func (that *Arena) playGame(ctx context.Context, challenger, house *entity.Player) (*entity.ReplayRecord, error) {
	session, err := game.NewSession(challenger, house, that.selector,
		game.WithFirstMover(that.settings.FirstMover),
		game.WithTurnTimeout(that.settings.TurnTimeout),
		game.WithRand(that.rng),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	log := that.logger.With("component", "arena").With("session", session.ID())

	recorder := replay.NewRecorder(entity.ReplayMetadata{
		Difficulty: house.Level,
		FirstMover: session.Turn(),
		Players:    []string{challenger.Name, house.Name},
		StartedAt:  time.Now().UTC(),
	})

	session.OnEvent(func(event game.Event) {
		switch event.Type {
		case game.EventMove:
			recorder.Record(*event.Move)
			log.Debug("move played", "mark", event.Move.Mark,
				"position", event.Move.Position, "rationale", event.Move.Rationale)
		case game.EventFinished:
			log.Info("game finished", "outcome", event.Outcome)
		}
	})

	for !session.Finished() {
		if err = ctx.Err(); err != nil {
			return nil, fmt.Errorf("game interrupted: %w", err)
		}

		if _, err = session.PlayBotTurn(); err != nil {
			return nil, fmt.Errorf("failed to play bot turn: %w", err)
		}
	}

	outcome, _ := session.Outcome()

	record, err := recorder.Freeze(outcome)
	if err != nil {
		return nil, fmt.Errorf("failed to freeze replay: %w", err)
	}

	return record, nil
}

// archiveReplay saves the record, logging instead of failing: a dead
// archive must not stop the series.
func (that *Arena) archiveReplay(ctx context.Context, log *slog.Logger, record *entity.ReplayRecord) {
	if err := that.replayRepo.Save(ctx, record); err != nil {
		log.Warn("could not archive replay", "replay", record.ID, "error", err)
		return
	}

	log.Debug("replay archived", "replay", record.ID, "outcome", record.Outcome)
}

// persistStats saves a ledger snapshot, logging instead of failing: the
// in-memory ledger keeps counting when the store is down.
func (that *Arena) persistStats(ctx context.Context, log *slog.Logger) {
	if err := that.statsRepo.Save(ctx, that.settings.Profile, that.tracker.Snapshot()); err != nil {
		log.Warn("could not persist stats", "error", err)
	}
}

// seriesWinner maps a game outcome to the contender's name, or "" on a tie.
func seriesWinner(outcome string, challenger, house *entity.Player) string {
	switch outcome {
	case challenger.Mark:
		return challenger.Name
	case house.Mark:
		return house.Name
	default:
		return ""
	}
}
