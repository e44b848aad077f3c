// Package config loads the simulator configuration from a YAML file and
// DUEL_ prefixed environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/elemduel/duel-server-go/internal/game/state"
)

// Replay store drivers.
const (
	DriverFile     = "file"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config is the root configuration.
type Config struct {
	Logging    LoggingConfig    `mapstructure:"logging"`
	Game       state.Mode       `mapstructure:"game"`
	Simulation SimulationConfig `mapstructure:"simulation"`
	Replay     ReplayConfig     `mapstructure:"replay"`
}

// LoggingConfig selects the log level and encoding.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// SimulationConfig drives simulated games.
type SimulationConfig struct {
	Seed     int64 `mapstructure:"seed"`
	Patience int   `mapstructure:"patience"`
	Games    int   `mapstructure:"games"`
}

// ReplayConfig selects where replays are stored.
type ReplayConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Driver  string `mapstructure:"driver"`
	Dir     string `mapstructure:"dir"`
	DSN     string `mapstructure:"dsn"`
}

func setDefaults(v *viper.Viper) {
	mode := state.DefaultMode()
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("game.max_rounds", mode.MaxRounds)
	v.SetDefault("game.initial_hand", mode.InitialHand)
	v.SetDefault("game.cards_per_round", mode.CardsPerRound)
	v.SetDefault("game.dice_per_roll", mode.DicePerRoll)
	v.SetDefault("game.reroll_chances", mode.RerollChances)
	v.SetDefault("game.max_hand", mode.MaxHand)
	v.SetDefault("game.max_dice", mode.MaxDice)
	v.SetDefault("game.max_summons", mode.MaxSummons)
	v.SetDefault("game.max_supports", mode.MaxSupports)

	v.SetDefault("simulation.seed", 1)
	v.SetDefault("simulation.patience", 3)
	v.SetDefault("simulation.games", 1)

	v.SetDefault("replay.enabled", true)
	v.SetDefault("replay.driver", DriverFile)
	v.SetDefault("replay.dir", "replays")
	v.SetDefault("replay.dsn", "")
}

// Load reads configuration from path, when given, layered under the
// environment and over the defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("DUEL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that would make a game impossible.
func (c *Config) Validate() error {
	var errs []error
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level))
	}
	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		errs = append(errs, fmt.Errorf("logging.format %q is not json or console", c.Logging.Format))
	}

	g := c.Game
	for name, n := range map[string]int{
		"game.max_rounds":    g.MaxRounds,
		"game.dice_per_roll": g.DicePerRoll,
		"game.max_hand":      g.MaxHand,
		"game.max_dice":      g.MaxDice,
		"game.max_summons":   g.MaxSummons,
		"game.max_supports":  g.MaxSupports,
	} {
		if n <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %d", name, n))
		}
	}
	for name, n := range map[string]int{
		"game.initial_hand":    g.InitialHand,
		"game.cards_per_round": g.CardsPerRound,
		"game.reroll_chances":  g.RerollChances,
	} {
		if n < 0 {
			errs = append(errs, fmt.Errorf("%s must not be negative, got %d", name, n))
		}
	}
	if g.DicePerRoll > g.MaxDice {
		errs = append(errs, fmt.Errorf("game.dice_per_roll %d exceeds game.max_dice %d", g.DicePerRoll, g.MaxDice))
	}

	if c.Simulation.Patience <= 0 {
		errs = append(errs, fmt.Errorf("simulation.patience must be positive, got %d", c.Simulation.Patience))
	}
	if c.Simulation.Games <= 0 {
		errs = append(errs, fmt.Errorf("simulation.games must be positive, got %d", c.Simulation.Games))
	}

	if c.Replay.Enabled {
		switch c.Replay.Driver {
		case DriverFile:
			if c.Replay.Dir == "" {
				errs = append(errs, errors.New("replay.dir is required for the file driver"))
			}
		case DriverSQLite, DriverPostgres:
			if c.Replay.DSN == "" {
				errs = append(errs, fmt.Errorf("replay.dsn is required for the %s driver", c.Replay.Driver))
			}
		default:
			errs = append(errs, fmt.Errorf("replay.driver %q is not file, sqlite or postgres", c.Replay.Driver))
		}
	}
	return errors.Join(errs...)
}
