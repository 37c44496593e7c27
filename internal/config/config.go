package config

import (
	"errors"
	"fmt"
	"slices"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/arcadelab/tictactoe-arena/internal/entity"
)

var (
	ErrBadSeriesLength = errors.New("series length must be 3, 5 or 7")
	ErrBadTurnSeconds  = errors.New("turn seconds must be 5, 10 or 15")
	ErrBadFirstMover   = errors.New("first mover must be X, O or random")
)

type Config struct {
	LogLevel          string `yaml:"log-level" env-default:"info"`
	HTTPPort          string `yaml:"http-port" env-default:"9090"`
	Redis             Redis  `yaml:"redis"`
	SQLiteStoragePath string `yaml:"sqlite-storage-path" env-default:"arena.db"`
	Arena             Arena  `yaml:"arena"`
	Stats             Stats  `yaml:"stats"`
}

type Redis struct {
	Host string `yaml:"host" env-default:"localhost"`
	Port string `yaml:"port" env-default:"6379"`
}

// Arena describes the exhibition series the application plays on start.
type Arena struct {
	ChallengerLevel string `yaml:"challenger-level" env-default:"impossible"`
	HouseLevel      string `yaml:"house-level" env-default:"medium"`
	SeriesLength    int    `yaml:"series-length" env-default:"3"`
	FirstMover      string `yaml:"first-mover" env-default:"X"`
	TurnSeconds     int    `yaml:"turn-seconds" env-default:"10"`
	Profile         string `yaml:"profile" env-default:"arena"`
	Seed            int64  `yaml:"seed" env-default:"0"`
}

// Stats tunes the difficulty suggestion thresholds.
type Stats struct {
	SuggestAfterGames int     `yaml:"suggest-after-games" env-default:"5"`
	HarderThreshold   float64 `yaml:"harder-threshold" env-default:"0.7"`
	EasierThreshold   float64 `yaml:"easier-threshold" env-default:"0.2"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	if err := config.Validate(); err != nil {
		panic(fmt.Errorf("invalid config: %w", err))
	}

	return config
}

// Validate - checks the arena settings against the values the engine accepts.
func (that *Config) Validate() error {
	if _, err := entity.ParseDifficulty(that.Arena.ChallengerLevel); err != nil {
		return fmt.Errorf("challenger level: %w", err)
	}

	if _, err := entity.ParseDifficulty(that.Arena.HouseLevel); err != nil {
		return fmt.Errorf("house level: %w", err)
	}

	if !slices.Contains([]int{3, 5, 7}, that.Arena.SeriesLength) {
		return fmt.Errorf("%w: got %d", ErrBadSeriesLength, that.Arena.SeriesLength)
	}

	if !slices.Contains([]int{5, 10, 15}, that.Arena.TurnSeconds) {
		return fmt.Errorf("%w: got %d", ErrBadTurnSeconds, that.Arena.TurnSeconds)
	}

	if !slices.Contains([]string{entity.PlayerX, entity.PlayerO, "random"}, that.Arena.FirstMover) {
		return fmt.Errorf("%w: got %q", ErrBadFirstMover, that.Arena.FirstMover)
	}

	return nil
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
