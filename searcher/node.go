package searcher

import (
	"math"

	"golang.org/x/exp/rand"
)

type node[M any, P comparable] struct {
	state    Game[M, P]
	parent   *node[M, P] // nil for the root, never owning
	move     M           // incoming move, unset for the root
	visits   int
	wins     map[P]int
	children []*node[M, P]
	expanded bool
	chance   bool
	player   P // player to move at state, set on expansion
	depth    int
}

func newRoot[M any, P comparable](state Game[M, P]) *node[M, P] {
	return &node[M, P]{
		state: state,
		wins:  make(map[P]int),
	}
}

func newChild[M any, P comparable](parent *node[M, P], move M) *node[M, P] {
	return &node[M, P]{
		state:  parent.state.Clone(),
		parent: parent,
		move:   move,
		wins:   make(map[P]int),
		depth:  parent.depth + 1,
	}
}

func (n *node[M, P]) isRoot() bool {
	return n.parent == nil
}

// expand applies the incoming move on first call and creates one child per
// legal move. Later calls return the same children.
func (n *node[M, P]) expand() []*node[M, P] {
	if n.expanded {
		return n.children
	}
	n.expanded = true

	if !n.isRoot() {
		n.state.PerformMove(n.move)
	}

	moves := n.state.PossibleMoves()
	n.chance = moves.IsChance()
	if moves.Len() > 0 {
		n.player = n.state.CurrentPlayer()
	}

	// Children clone the state before their own move is applied
	n.children = make([]*node[M, P], 0, moves.Len())
	for _, move := range moves.List() {
		n.children = append(n.children, newChild(n, move))
	}
	return n.children
}

func (n *node[M, P]) winner() P {
	// Forces the incoming move to be performed
	n.expand()
	return n.state.Winner()
}

// selectChild picks the next node to descend into. Chance nodes pick
// uniformly at random, decision nodes pick the max UCB1 child for the player
// to move here. Iterating a random permutation and keeping the first strict
// maximum breaks ties uniformly.
func (n *node[M, P]) selectChild(rng *rand.Rand) *node[M, P] {
	children := n.expand()
	if len(children) == 0 {
		panic("cannot select a child of a terminal node")
	}
	if n.chance {
		return children[rng.Intn(len(children))]
	}

	var best *node[M, P]
	maxScore := math.Inf(-1)
	for _, i := range rng.Perm(len(children)) {
		child := children[i]
		if score := child.score(n.player); best == nil || score > maxScore {
			best = child
			maxScore = score
		}
	}
	return best
}

// score is the UCB1 value of entering n, seen by player.
func (n *node[M, P]) score(player P) float64 {
	if n.visits == 0 {
		return math.Inf(1)
	}
	if n.isRoot() {
		return 0
	}

	normalizer := CSquared * math.Log(float64(n.parent.visits))
	return ucb1(float64(n.wins[player]), n.visits, normalizer)
}

func (n *node[M, P]) backup(winner P) *node[M, P] {
	n.wins[winner]++
	return n.parent
}
