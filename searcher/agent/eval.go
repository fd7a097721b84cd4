package agent

import (
	"mcts/experiments/metrics"
	"mcts/searcher"

	"golang.org/x/exp/rand"
)

type evaluationAgent[M any, P comparable] struct {
	config Config
	rng    *rand.Rand
}

// NewEvaluationAgent returns an agent that plays the most visited move of a
// fresh search.
func NewEvaluationAgent[M any, P comparable](config Config) Agent[M, P] {
	return &evaluationAgent[M, P]{config: config, rng: config.rand()}
}

func (a *evaluationAgent[M, P]) FindMove(state searcher.Game[M, P]) (M, metrics.SearchMetric, error) {
	var none M
	mcts, err := searcher.New(state, state.CurrentPlayer(), a.config.options(a.rng)...)
	if err != nil {
		return none, metrics.SearchMetric{}, err
	}

	move, err := mcts.SelectMove()
	return move, mcts.Metrics(), err
}
