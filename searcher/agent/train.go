package agent

import (
	"math"

	"mcts/experiments/metrics"
	"mcts/searcher"

	"github.com/pkg/errors"
	"golang.org/x/exp/rand"
)

type trainingAgent[M any, P comparable] struct {
	config      Config
	temperature float64
	rng         *rand.Rand
}

// NewTrainingAgent returns an agent that samples a root move with
// probability proportional to visits^(1/temperature), for varied self-play.
func NewTrainingAgent[M any, P comparable](config Config, temperature float64) (Agent[M, P], error) {
	if temperature <= 0 {
		return nil, errors.Errorf("temperature must be positive, got %v", temperature)
	}
	return &trainingAgent[M, P]{config: config, temperature: temperature, rng: config.rand()}, nil
}

func (a *trainingAgent[M, P]) FindMove(state searcher.Game[M, P]) (M, metrics.SearchMetric, error) {
	var none M
	mcts, err := searcher.New(state, state.CurrentPlayer(), a.config.options(a.rng)...)
	if err != nil {
		return none, metrics.SearchMetric{}, err
	}
	if _, err := mcts.SelectMove(); err != nil {
		return none, mcts.Metrics(), err
	}

	stats := mcts.Statistics()
	policy := adjustTemperature(mcts.Policy(), a.temperature)
	return stats[sample(policy, a.rng)].Move, mcts.Metrics(), nil
}

func adjustTemperature(policy []float64, temperature float64) []float64 {
	// Compute temperature-adjusted move probabilities
	exponent := 1.0 / temperature
	sum := 0.0
	adjusted := make([]float64, len(policy))
	for i, visit := range policy {
		adjusted[i] = math.Pow(visit, exponent)
		sum += adjusted[i]
	}
	if sum == 0 {
		return adjusted
	}
	// Normalize
	for i := range adjusted {
		adjusted[i] /= sum
	}
	return adjusted
}

func sample(policy []float64, rng *rand.Rand) int {
	sampled := rng.Float64()
	cumulative := 0.0
	for i, prob := range policy {
		cumulative += prob
		if sampled < cumulative {
			return i
		}
	}
	return len(policy) - 1 // Fallback in case of rounding errors
}
