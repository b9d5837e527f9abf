package config

import (
	"fmt"
	"time"

	"github.com/bellapacxx/bingo-server/game"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the process configuration, read from the environment. The
// defaults match the timings clients are built around.
type Config struct {
	Port           string   `env:"PORT" envDefault:"4000"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`

	SelectionSeconds int           `env:"SELECTION_SECONDS" envDefault:"60"`
	ReadySeconds     int           `env:"READY_SECONDS" envDefault:"3"`
	FirstCallDelay   time.Duration `env:"FIRST_CALL_DELAY" envDefault:"1s"`
	CallInterval     time.Duration `env:"CALL_INTERVAL" envDefault:"5s"`
	ResetDelay       time.Duration `env:"RESET_DELAY" envDefault:"30s"`

	MinPlayers     int     `env:"MIN_PLAYERS" envDefault:"2"`
	MaxPlayers     int     `env:"MAX_PLAYERS" envDefault:"10"`
	CardsPerPlayer int     `env:"CARDS_PER_PLAYER" envDefault:"2"`
	EntryPrice     float64 `env:"ENTRY_PRICE" envDefault:"10"`
	Commission     float64 `env:"COMMISSION" envDefault:"0.10"`

	SweepInterval time.Duration `env:"SWEEP_INTERVAL" envDefault:"1m"`
	EmptyGrace    time.Duration `env:"EMPTY_GRACE" envDefault:"5m"`
}

// Load reads .env if present, then the environment.
func Load() (Config, error) {
	_ = godotenv.Load()
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Settings maps the config onto per-session settings.
func (c Config) Settings() game.Settings {
	s := game.DefaultSettings()
	s.SelectionSeconds = c.SelectionSeconds
	s.ReadySeconds = c.ReadySeconds
	s.FirstCallDelay = c.FirstCallDelay
	s.CallInterval = c.CallInterval
	s.ResetDelay = c.ResetDelay
	s.MinPlayers = c.MinPlayers
	s.MaxPlayers = c.MaxPlayers
	s.CardsPerPlayer = c.CardsPerPlayer
	s.EntryPrice = c.EntryPrice
	s.Commission = c.Commission
	return s
}
