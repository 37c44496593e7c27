package ledger

import (
	"errors"
	"fmt"
	"sync"

	"github.com/arcadelab/tictactoe-arena/internal/entity"
)

// Achievement ids. Each unlocks once and is kept forever.
const (
	AchievementFirstWin        = "first_win"
	AchievementWinStreak5      = "win_streak_5"
	AchievementImpossibleWin   = "impossible_win"
	AchievementAllDifficulties = "all_difficulties"
	AchievementVeteran         = "veteran"
)

const (
	recentWindowCap = 10
	winStreakTarget = 5
	veteranGames    = 25
)

var ErrUnknownResult = errors.New("unknown game result")

// Params tune the difficulty suggestion.
type Params struct {
	SuggestAfterGames int
	HarderThreshold   float64
	EasierThreshold   float64
}

func DefaultParams() Params {
	return Params{
		SuggestAfterGames: 5,
		HarderThreshold:   0.70,
		EasierThreshold:   0.20,
	}
}

// Delta reports what one committed game changed.
type Delta struct {
	Result        string   `json:"result"`
	Difficulty    string   `json:"difficulty"`
	CurrentStreak int      `json:"current_streak"`
	BestStreak    int      `json:"best_streak"`
	Unlocked      []string `json:"unlocked,omitempty"`
}

// Ledger is the single writer over a StatsRecord. Commits are serialized by
// a mutex, so readers can snapshot while a series is running.
type Ledger struct {
	mu     sync.Mutex
	record *entity.StatsRecord
	params Params
}

func NewLedger(params Params) *Ledger {
	return NewLedgerFromRecord(entity.NewStatsRecord(), params)
}

// NewLedgerFromRecord restores a ledger from a persisted snapshot, filling
// in whatever an older or hand-edited record is missing.
func NewLedgerFromRecord(record *entity.StatsRecord, params Params) *Ledger {
	if record == nil {
		record = entity.NewStatsRecord()
	}

	if record.PerDifficulty == nil {
		record.PerDifficulty = make(map[string]*entity.DifficultyStats)
	}

	if record.RecentResults == nil {
		record.RecentResults = make(map[string][]string)
	}

	if params.SuggestAfterGames <= 0 {
		params = DefaultParams()
	}

	return &Ledger{record: record, params: params}
}

// achievementChecks run in a fixed order, so unlock lists read the same
// from run to run.
var achievementChecks = []struct {
	id    string
	check func(record *entity.StatsRecord, result, level string) bool
}{
	{AchievementFirstWin, func(_ *entity.StatsRecord, result, _ string) bool {
		return result == entity.ResultWin
	}},
	{AchievementWinStreak5, func(record *entity.StatsRecord, _, _ string) bool {
		return record.CurrentStreak >= winStreakTarget
	}},
	{AchievementImpossibleWin, func(_ *entity.StatsRecord, result, level string) bool {
		return result == entity.ResultWin && level == entity.DifficultyImpossible
	}},
	{AchievementAllDifficulties, func(record *entity.StatsRecord, _, _ string) bool {
		for _, level := range entity.Difficulties {
			bucket := record.PerDifficulty[level]
			if bucket == nil || bucket.Wins+bucket.Losses+bucket.Ties == 0 {
				return false
			}
		}

		return true
	}},
	{AchievementVeteran, func(record *entity.StatsRecord, _, _ string) bool {
		return record.TotalGames() >= veteranGames
	}},
}

// Commit - records one finished solo game from the tracked player's side.
// It updates the difficulty bucket, the streaks and the trailing window,
// then evaluates achievements against the new state.
func (that *Ledger) Commit(result, difficulty string) (*Delta, error) {
	level, err := entity.ParseDifficulty(difficulty)
	if err != nil {
		return nil, err
	}

	switch result {
	case entity.ResultWin, entity.ResultLoss, entity.ResultTie:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownResult, result)
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	bucket := that.record.PerDifficulty[level]
	if bucket == nil {
		bucket = &entity.DifficultyStats{}
		that.record.PerDifficulty[level] = bucket
	}

	switch result {
	case entity.ResultWin:
		bucket.Wins++
		that.record.CurrentStreak++

		if that.record.CurrentStreak > that.record.BestStreak {
			that.record.BestStreak = that.record.CurrentStreak
		}
	case entity.ResultLoss:
		bucket.Losses++
		that.record.CurrentStreak = 0
	case entity.ResultTie:
		bucket.Ties++
		that.record.CurrentStreak = 0
	}

	window := append(that.record.RecentResults[level], result)
	if len(window) > recentWindowCap {
		window = window[len(window)-recentWindowCap:]
	}
	that.record.RecentResults[level] = window

	return &Delta{
		Result:        result,
		Difficulty:    level,
		CurrentStreak: that.record.CurrentStreak,
		BestStreak:    that.record.BestStreak,
		Unlocked:      that.unlockAchievements(result, level),
	}, nil
}

// unlockAchievements appends every newly earned achievement exactly once.
// Callers hold the mutex.
func (that *Ledger) unlockAchievements(result, level string) []string {
	var unlocked []string

	for _, achievement := range achievementChecks {
		if that.record.HasAchievement(achievement.id) {
			continue
		}

		if achievement.check(that.record, result, level) {
			that.record.UnlockedAchievements = append(that.record.UnlockedAchievements, achievement.id)
			unlocked = append(unlocked, achievement.id)
		}
	}

	return unlocked
}

// CommitTwoPlayer - records a human versus human game by its outcome mark.
// Streaks, achievements and suggestions track solo play only.
func (that *Ledger) CommitTwoPlayer(outcome string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	switch outcome {
	case entity.PlayerX:
		that.record.TwoPlayer.WinsX++
	case entity.PlayerO:
		that.record.TwoPlayer.WinsO++
	case entity.PlayerTie:
		that.record.TwoPlayer.Ties++
	default:
		return fmt.Errorf("%w: %q", ErrUnknownResult, outcome)
	}

	return nil
}

// Suggestion recommends a neighbouring difficulty once enough recent games
// at the level exist: a high win rate points harder, a low one easier. The
// boolean is false when the sample is short, the rate is unremarkable, or
// no level lies in the pointed direction.
func (that *Ledger) Suggestion(difficulty string) (string, bool) {
	level, err := entity.ParseDifficulty(difficulty)
	if err != nil {
		return "", false
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	window := that.record.RecentResults[level]
	if len(window) < that.params.SuggestAfterGames {
		return "", false
	}

	wins := 0
	for _, result := range window {
		if result == entity.ResultWin {
			wins++
		}
	}

	rate := float64(wins) / float64(len(window))

	switch {
	case rate > that.params.HarderThreshold:
		return entity.NextHarder(level)
	case rate < that.params.EasierThreshold:
		return entity.NextEasier(level)
	default:
		return "", false
	}
}

// Snapshot returns a deep copy for readers.
func (that *Ledger) Snapshot() *entity.StatsRecord {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.record.Clone()
}

func (that *Ledger) TotalGames() int {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.record.TotalGames()
}
