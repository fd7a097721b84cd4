// Package config loads process settings from YAML. Every field has a default
// so a file only needs the values it changes.
package config

import (
	"os"
	"slices"
	"time"

	"mcts/experiments/metrics"
	"mcts/searcher"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

var (
	Games           = []string{"tictactoe", "pig", "chess"}
	ExperimentKinds = []string{"rounds", "temperature"}
)

type Config struct {
	LogLevel   string     `yaml:"log_level"`
	Search     Search     `yaml:"search"`
	Server     Server     `yaml:"server"`
	Experiment Experiment `yaml:"experiment"`
	Play       Play       `yaml:"play"`
}

type Search struct {
	Rounds   int           `yaml:"rounds"`
	Duration time.Duration `yaml:"duration"` // 0 disables the deadline
	Seed     uint64        `yaml:"seed"`     // 0 seeds from the clock
}

type Server struct {
	Addr string `yaml:"addr"`
}

type Experiment struct {
	Kind      string   `yaml:"kind"`
	Game      string   `yaml:"game"`
	Games     int      `yaml:"games"` // Per match up
	PigTarget int      `yaml:"pig_target"`
	OutputDir string   `yaml:"output_dir"`
	Formats   []string `yaml:"formats"`
}

type Play struct {
	Human string `yaml:"human"` // X or O
}

func Default() Config {
	return Config{
		LogLevel: zerolog.LevelInfoValue,
		Search: Search{
			Rounds: searcher.DefaultRounds,
		},
		Server: Server{
			Addr: ":8080",
		},
		Experiment: Experiment{
			Kind:      "rounds",
			Game:      "tictactoe",
			Games:     30,
			PigTarget: 30,
			OutputDir: "results",
			Formats:   []string{metrics.FormatCSV},
		},
		Play: Play{
			Human: "X",
		},
	}
}

// Load reads path over the defaults and validates the result.
func Load(path string) (Config, error) {
	c := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return c, errors.Wrap(err, "failed to read config")
	}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return c, errors.Wrapf(err, "failed to unmarshal config %s", path)
	}
	if err := c.Validate(); err != nil {
		return c, errors.WithMessagef(err, "invalid config %s", path)
	}
	return c, nil
}

// Validate reports every invalid field at once.
func (c Config) Validate() error {
	var result *multierror.Error

	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		result = multierror.Append(result, errors.Errorf("log_level: unknown level %q", c.LogLevel))
	}
	if c.Search.Rounds <= 0 {
		result = multierror.Append(result, errors.Errorf("search.rounds: must be positive, got %d", c.Search.Rounds))
	}
	if c.Search.Duration < 0 {
		result = multierror.Append(result, errors.Errorf("search.duration: must not be negative, got %s", c.Search.Duration))
	}
	if c.Server.Addr == "" {
		result = multierror.Append(result, errors.New("server.addr: must be set"))
	}
	if !slices.Contains(ExperimentKinds, c.Experiment.Kind) {
		result = multierror.Append(result, errors.Errorf("experiment.kind: want one of %v, got %q", ExperimentKinds, c.Experiment.Kind))
	}
	if !slices.Contains(Games, c.Experiment.Game) {
		result = multierror.Append(result, errors.Errorf("experiment.game: want one of %v, got %q", Games, c.Experiment.Game))
	}
	if c.Experiment.Games <= 0 {
		result = multierror.Append(result, errors.Errorf("experiment.games: must be positive, got %d", c.Experiment.Games))
	}
	if c.Experiment.PigTarget <= 0 {
		result = multierror.Append(result, errors.Errorf("experiment.pig_target: must be positive, got %d", c.Experiment.PigTarget))
	}
	for _, format := range c.Experiment.Formats {
		if format != metrics.FormatCSV && format != metrics.FormatParquet {
			result = multierror.Append(result, errors.Errorf("experiment.formats: unknown format %q", format))
		}
	}
	if c.Play.Human != "X" && c.Play.Human != "O" {
		result = multierror.Append(result, errors.Errorf("play.human: want X or O, got %q", c.Play.Human))
	}

	return result.ErrorOrNil()
}
