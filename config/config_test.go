package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"mcts/searcher"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefault(t *testing.T) {
	t.Run("is valid", func(t *testing.T) {
		require.NoError(t, Default().Validate())
	})

	t.Run("searches with the default rounds", func(t *testing.T) {
		require.Equal(t, searcher.DefaultRounds, Default().Search.Rounds)
	})
}

func TestLoad(t *testing.T) {
	t.Run("overrides only the given fields", func(t *testing.T) {
		path := writeConfig(t, `
log_level: debug
search:
  rounds: 250
  duration: 150ms
experiment:
  game: pig
  formats: [csv, parquet]
`)

		c, err := Load(path)

		require.NoError(t, err)
		require.Equal(t, "debug", c.LogLevel)
		require.Equal(t, 250, c.Search.Rounds)
		require.Equal(t, 150*time.Millisecond, c.Search.Duration)
		require.Equal(t, "pig", c.Experiment.Game)
		require.Equal(t, []string{"csv", "parquet"}, c.Experiment.Formats)
		require.Equal(t, Default().Server, c.Server)
		require.Equal(t, 30, c.Experiment.Games)
	})

	t.Run("fails on a missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		require.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("fails on malformed YAML", func(t *testing.T) {
		_, err := Load(writeConfig(t, "search: [rounds"))
		require.Error(t, err)
	})

	t.Run("fails on invalid values", func(t *testing.T) {
		_, err := Load(writeConfig(t, "search:\n  rounds: 0\n"))
		require.ErrorContains(t, err, "search.rounds")
	})
}

func TestValidate(t *testing.T) {
	t.Run("reports every problem", func(t *testing.T) {
		c := Default()
		c.LogLevel = "loud"
		c.Search.Rounds = -1
		c.Search.Duration = -time.Second
		c.Server.Addr = ""
		c.Experiment.Kind = "speed"
		c.Experiment.Game = "go"
		c.Experiment.Games = 0
		c.Experiment.PigTarget = 0
		c.Experiment.Formats = []string{"xml"}
		c.Play.Human = "Z"

		err := c.Validate()

		var merr *multierror.Error
		require.ErrorAs(t, err, &merr)
		require.Len(t, merr.Errors, 10)
	})

	t.Run("accepts both human marks", func(t *testing.T) {
		c := Default()
		c.Play.Human = "O"
		require.NoError(t, c.Validate())
	})
}
