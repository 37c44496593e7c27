package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/arcadelab/tictactoe-arena/internal/bot"
	"github.com/arcadelab/tictactoe-arena/internal/config"
	"github.com/arcadelab/tictactoe-arena/internal/ledger"
	"github.com/arcadelab/tictactoe-arena/internal/repository"
	"github.com/arcadelab/tictactoe-arena/internal/repository/storage"
	"github.com/arcadelab/tictactoe-arena/internal/usecase"
	"github.com/arcadelab/tictactoe-arena/transport/rest"
)

var ErrAddrNotFound = errors.New("redis address string is empty")

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	redisAddrString := conf.Redis.GetRedisAddr()
	if redisAddrString == "" {
		return ErrAddrNotFound
	}

	redisStorage, err := storage.NewRedisStorage(ctx, redisAddrString)
	if err != nil {
		return fmt.Errorf("could not connect to redis storage: %w", err)
	}

	defer func() {
		if err = redisStorage.Close(); err != nil {
			log.Error("could not close redis storage", "error", err)
		}
	}()

	sqliteStorage, err := storage.NewSQLiteStorage(conf.SQLiteStoragePath)
	if err != nil {
		return fmt.Errorf("could not open sqlite storage: %w", err)
	}

	defer func() {
		if err = sqliteStorage.Close(); err != nil {
			log.Error("could not close sqlite storage", "error", err)
		}
	}()

	if err = sqliteStorage.Init(ctx); err != nil {
		return fmt.Errorf("could not init sqlite storage: %w", err)
	}

	statsRepo := repository.NewStatsRepository(redisStorage.Connection)
	replayRepo := repository.NewReplayRepository(sqliteStorage.Connection)

	rng := newRand(conf.Arena.Seed)
	selector := bot.NewSelector(rng)

	params := ledger.Params{
		SuggestAfterGames: conf.Stats.SuggestAfterGames,
		HarderThreshold:   conf.Stats.HarderThreshold,
		EasierThreshold:   conf.Stats.EasierThreshold,
	}
	tracker := usecase.RestoreLedger(ctx, logger, statsRepo, conf.Arena.Profile, params)

	arena := usecase.NewArena(logger, selector, tracker, statsRepo, replayRepo, rng, usecase.Settings{
		ChallengerLevel: conf.Arena.ChallengerLevel,
		HouseLevel:      conf.Arena.HouseLevel,
		SeriesLength:    conf.Arena.SeriesLength,
		FirstMover:      conf.Arena.FirstMover,
		TurnTimeout:     time.Duration(conf.Arena.TurnSeconds) * time.Second,
		Profile:         conf.Arena.Profile,
	})

	handlers := rest.NewHandlers(logger, tracker, replayRepo)

	// run HTTP server
	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		if httpErr := rest.Start(ctx, conf.HTTPPort, handlers); httpErr != nil {
			log.Error("HTTP server error", "error", httpErr)
			httpErrCh <- httpErr
		}
	}()

	// play the series; the readout keeps serving after it ends
	seriesErrCh := make(chan error, 1)
	go func() {
		tournament, seriesErr := arena.RunSeries(ctx)
		if seriesErr != nil {
			log.Error("Series error", "error", seriesErr)
			seriesErrCh <- seriesErr

			return
		}

		if winner, ok := tournament.Winner(); ok {
			challengerWins, houseWins := tournament.Score()
			log.Info("Series finished", "winner", winner, "challenger_wins", challengerWins, "house_wins", houseWins, "games", tournament.GamesPlayed())
		}
	}()

	select {
	case err = <-httpErrCh:
		return fmt.Errorf("HTTP server error: %w", err)
	case err = <-seriesErrCh:
		return fmt.Errorf("series error: %w", err)
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
		return nil
	}
}

func newRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return rand.New(rand.NewSource(seed)) //nolint: gosec // game moves, not secrets
}
