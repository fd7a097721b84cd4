package searcher

import (
	"math"

	"github.com/pkg/errors"
)

// Hyperparameters for MCTS

const CSquared = 2.0 // Exploration constant

const DefaultRounds = 1000

var (
	ErrInvalidRounds = errors.New("round budget must be positive")
	ErrNoMoves       = errors.New("no legal moves at the root position")
)

// Game is the capability set a game must provide to be searched. The engine
// never looks at the rules, it only clones states, asks them for moves and
// applies moves to them.
//
// PossibleMoves must return an empty list only at a true terminal position:
// the search cannot tell a stuck position from a finished game. Winner must
// return a comparable token for every reachable position, including a
// designated "nobody" token while the game is undecided.
type Game[M any, P comparable] interface {
	PossibleMoves() Moves[M]
	// PerformMove mutates the state in place
	PerformMove(move M)
	CurrentPlayer() P
	Winner() P
	// Clone returns an independent deep copy
	Clone() Game[M, P]
}

// Moves is a list of legal moves tagged with how one of them gets picked:
// strategically by the player to move, or uniformly at random by the game.
type Moves[M any] struct {
	list   []M
	chance bool
}

// Decision wraps moves a player chooses among.
func Decision[M any](moves ...M) Moves[M] {
	return Moves[M]{list: moves}
}

// Chance wraps moves the game picks uniformly at random (dice, card draws).
func Chance[M any](moves ...M) Moves[M] {
	return Moves[M]{list: moves, chance: true}
}

func (m Moves[M]) List() []M      { return m.list }
func (m Moves[M]) Len() int       { return len(m.list) }
func (m Moves[M]) IsChance() bool { return m.chance }

func ucb1(rewards float64, visits int, c2LnN float64) float64 {
	// Prioritize unexplored nodes
	if visits == 0 {
		return math.Inf(1)
	}

	return rewards/float64(visits) + math.Sqrt(c2LnN/float64(visits))
}
