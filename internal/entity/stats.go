package entity

// DifficultyStats is one per-difficulty counter bucket, counted from the
// tracked player's side.
type DifficultyStats struct {
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
	Ties   int `json:"ties"`
}

// TwoPlayerStats counts human-vs-human games, keyed by mark.
type TwoPlayerStats struct {
	WinsX int `json:"wins_x"`
	WinsO int `json:"wins_o"`
	Ties  int `json:"ties"`
}

// StatsRecord is the persisted ledger snapshot. RecentResults keeps a short
// trailing window per difficulty (newest last) feeding the difficulty
// suggestion; lifetime counters are not suitable for a "last N games" rate.
type StatsRecord struct {
	PerDifficulty        map[string]*DifficultyStats `json:"per_difficulty"`
	TwoPlayer            TwoPlayerStats              `json:"two_player"`
	CurrentStreak        int                         `json:"current_streak"`
	BestStreak           int                         `json:"best_streak"`
	UnlockedAchievements []string                    `json:"unlocked_achievements"`
	RecentResults        map[string][]string         `json:"recent_results,omitempty"`
}

func NewStatsRecord() *StatsRecord {
	return &StatsRecord{
		PerDifficulty:        make(map[string]*DifficultyStats),
		UnlockedAchievements: []string{},
		RecentResults:        make(map[string][]string),
	}
}

// HasAchievement reports whether an achievement is already unlocked.
func (that *StatsRecord) HasAchievement(id string) bool {
	for _, unlocked := range that.UnlockedAchievements {
		if unlocked == id {
			return true
		}
	}

	return false
}

// TotalGames sums every recorded game across all modes.
func (that *StatsRecord) TotalGames() int {
	total := that.TwoPlayer.WinsX + that.TwoPlayer.WinsO + that.TwoPlayer.Ties
	for _, bucket := range that.PerDifficulty {
		total += bucket.Wins + bucket.Losses + bucket.Ties
	}

	return total
}

// Clone returns a deep copy, so snapshots handed to readers cannot alias the
// live record.
func (that *StatsRecord) Clone() *StatsRecord {
	clone := &StatsRecord{
		TwoPlayer:            that.TwoPlayer,
		CurrentStreak:        that.CurrentStreak,
		BestStreak:           that.BestStreak,
		PerDifficulty:        make(map[string]*DifficultyStats, len(that.PerDifficulty)),
		UnlockedAchievements: append([]string(nil), that.UnlockedAchievements...),
		RecentResults:        make(map[string][]string, len(that.RecentResults)),
	}

	for level, bucket := range that.PerDifficulty {
		copied := *bucket
		clone.PerDifficulty[level] = &copied
	}

	for level, window := range that.RecentResults {
		clone.RecentResults[level] = append([]string(nil), window...)
	}

	return clone
}
