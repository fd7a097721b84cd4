package engine

import "mcts/experiments/metrics"

// MaxMoves bounds a game so that games without a natural end still finish.
const MaxMoves = 10000

type Engine[P comparable] interface {
	// Run plays a game till there's a winner, no moves are left or a max
	// number of moves is reached
	Run() (winner P, gameMetric metrics.GameMetric, moveMetrics []metrics.MoveMetric, err error)
}
