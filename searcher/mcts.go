package searcher

import (
	"time"

	"mcts/experiments/metrics"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

type Option func(s *settings)

type settings struct {
	rounds   int
	duration time.Duration
	rng      *rand.Rand
	metrics  metrics.Collector
}

// WithRounds sets the number of search rounds. Non-positive values make New
// fail.
func WithRounds(rounds int) Option {
	return func(s *settings) {
		s.rounds = rounds
	}
}

// WithDuration stops the search at the first round boundary after duration
// has elapsed, even if rounds remain.
func WithDuration(duration time.Duration) Option {
	return func(s *settings) {
		if duration > 0 {
			s.duration = duration
		}
	}
}

func WithSeed(seed uint64) Option {
	return func(s *settings) {
		s.rng = rand.New(rand.NewSource(seed))
	}
}

func WithRand(rng *rand.Rand) Option {
	return func(s *settings) {
		if rng != nil {
			s.rng = rng
		}
	}
}

func WithMetrics() Option {
	return func(s *settings) {
		s.metrics = metrics.NewCollector()
	}
}

// MCTS searches a game with UCB1 and recommends the most visited move. The
// tree of the last search is kept for inspection and discarded by the next
// search.
type MCTS[M any, P comparable] struct {
	settings
	state  Game[M, P]
	player P
	root   *node[M, P]
	metric metrics.SearchMetric
}

// New creates a search session for state, optimizing for player. The zero
// value of P is the default player token. The state is cloned for every
// search and never mutated.
func New[M any, P comparable](state Game[M, P], player P, options ...Option) (*MCTS[M, P], error) {
	m := &MCTS[M, P]{ // Default values
		settings: settings{
			rounds:  DefaultRounds,
			metrics: metrics.NewDummyCollector(),
		},
		state:  state,
		player: player,
	}
	for _, option := range options {
		option(&m.settings)
	}
	if m.rounds <= 0 {
		return nil, errors.Wrapf(ErrInvalidRounds, "rounds=%d", m.rounds)
	}
	if m.rng == nil {
		m.rng = rand.New(rand.NewSource(uint64(time.Now().UnixNano())))
	}
	return m, nil
}

// SelectMove runs the configured rounds from a fresh tree and returns the
// incoming move of the most visited root child.
func (m *MCTS[M, P]) SelectMove() (M, error) {
	start := time.Now()
	m.root = newRoot(m.state.Clone())
	m.metrics.Start(m.rounds)

	for round := 0; round < m.rounds; round++ {
		if m.duration > 0 && time.Since(start) >= m.duration {
			log.Warn().Msgf("search deadline %s reached after %d of %d rounds", m.duration, round, m.rounds)
			m.metrics.Interrupt()
			break
		}
		m.playRound()
	}
	m.metric = m.metrics.Complete()

	best := m.mostVisited()
	if best == nil {
		var none M
		return none, ErrNoMoves
	}

	log.Debug().
		Int("rounds", m.root.visits).
		Int("visits", best.visits).
		Int("wins", best.wins[m.player]).
		Dur("elapsed", time.Since(start)).
		Msgf("selected move %v", best.move)
	return best.move, nil
}

// playRound descends to a terminal node, expanding every node on the way,
// and credits the outcome to the whole path. Visits are counted on entry so
// the exploration term already reflects the ongoing round.
func (m *MCTS[M, P]) playRound() {
	current := m.root
	current.visits++
	for len(m.expand(current)) > 0 {
		current = current.selectChild(m.rng)
		current.visits++
	}

	winner := current.winner()
	m.metrics.AddRound(current.depth)
	backup(current, winner)
}

func (m *MCTS[M, P]) expand(n *node[M, P]) []*node[M, P] {
	if n.expanded {
		return n.children
	}
	children := n.expand()
	m.metrics.AddNodes(len(children))
	return children
}

func backup[M any, P comparable](leaf *node[M, P], winner P) {
	current := leaf
	for current != nil {
		current = current.backup(winner)
	}
}

// mostVisited returns the root child with the most visits, ties broken
// uniformly at random, or nil at a terminal root.
func (m *MCTS[M, P]) mostVisited() *node[M, P] {
	children := m.expand(m.root)

	var best *node[M, P]
	for _, i := range m.rng.Perm(len(children)) {
		if child := children[i]; best == nil || child.visits > best.visits {
			best = child
		}
	}
	return best
}

// Metrics returns the statistics of the last search. Only populated when
// created WithMetrics.
func (m *MCTS[M, P]) Metrics() metrics.SearchMetric {
	return m.metric
}

func (m *MCTS[M, P]) Player() P {
	return m.player
}

func (m *MCTS[M, P]) Rounds() int {
	return m.rounds
}
