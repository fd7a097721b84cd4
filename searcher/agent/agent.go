package agent

import (
	"time"

	"mcts/experiments/metrics"
	"mcts/searcher"

	"golang.org/x/exp/rand"
)

type Agent[M any, P comparable] interface {
	// FindMove searches state from the perspective of its player to move and
	// returns a move with the search metrics
	FindMove(state searcher.Game[M, P]) (M, metrics.SearchMetric, error)
}

// Config describes how an agent searches each move.
type Config struct {
	Rounds   int
	Duration time.Duration
	Seed     uint64 // 0 seeds from the clock
}

func (c Config) rand() *rand.Rand {
	seed := c.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewSource(seed))
}

func (c Config) options(rng *rand.Rand) []searcher.Option {
	options := []searcher.Option{searcher.WithRand(rng), searcher.WithMetrics()}
	if c.Rounds != 0 {
		options = append(options, searcher.WithRounds(c.Rounds))
	}
	if c.Duration > 0 {
		options = append(options, searcher.WithDuration(c.Duration))
	}
	return options
}
