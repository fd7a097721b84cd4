package searcher

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

const nobody = ""

// mockPosition describes one position of a scripted game tree.
type mockPosition struct {
	player string
	moves  []string
	chance bool
	winner string
}

// mockGame walks a scripted tree keyed by the path of played moves.
type mockGame struct {
	tree      map[string]mockPosition
	path      string
	performed int
}

func newMockGame(tree map[string]mockPosition) *mockGame {
	return &mockGame{tree: tree}
}

func (g *mockGame) position() mockPosition {
	return g.tree[g.path]
}

func (g *mockGame) PossibleMoves() Moves[string] {
	pos := g.position()
	if pos.chance {
		return Chance(pos.moves...)
	}
	return Decision(pos.moves...)
}

func (g *mockGame) PerformMove(move string) {
	g.path += "/" + move
	g.performed++
}

func (g *mockGame) CurrentPlayer() string {
	return g.position().player
}

func (g *mockGame) Winner() string {
	return g.position().winner
}

func (g *mockGame) Clone() Game[string, string] {
	clone := *g
	return &clone
}

// forcedWinTree: "me" picks win or lose, then "opp" has two replies that
// cannot change the outcome.
func forcedWinTree() map[string]mockPosition {
	return map[string]mockPosition{
		"":        {player: "me", moves: []string{"lose", "win"}},
		"/win":    {player: "opp", moves: []string{"a", "b"}},
		"/win/a":  {winner: "me"},
		"/win/b":  {winner: "me"},
		"/lose":   {player: "opp", moves: []string{"a", "b"}},
		"/lose/a": {winner: "opp"},
		"/lose/b": {winner: "opp"},
	}
}

func chanceTree() map[string]mockPosition {
	return map[string]mockPosition{
		"":   {player: "me", moves: []string{"A", "B", "C"}, chance: true},
		"/A": {winner: "me"},
		"/B": {winner: "opp"},
		"/C": {winner: nobody},
	}
}

func TestNodeExpand(t *testing.T) {
	t.Run("expanding the root does not perform any move", func(t *testing.T) {
		game := newMockGame(forcedWinTree())
		root := newRoot[string, string](game)

		children := root.expand()

		require.Len(t, children, 2, "Root should have one child per legal move")
		require.Equal(t, 0, game.performed, "Root state should not be mutated")
		require.Equal(t, "me", root.player, "Root should record the player to move")
		require.False(t, root.chance, "Decision moves should not mark a chance node")
		for i, child := range children {
			require.Equal(t, root, child.parent, "Child should point back to its parent")
			require.Equal(t, []string{"lose", "win"}[i], child.move, "Children should follow move order")
			require.Equal(t, 1, child.depth, "Child depth should be parent depth + 1")
			require.False(t, child.expanded, "Children should expand lazily")
		}
	})

	t.Run("expanding a child applies its move exactly once", func(t *testing.T) {
		root := newRoot[string, string](newMockGame(forcedWinTree()))
		child := root.expand()[1]

		first := child.expand()
		second := child.expand()
		third := child.expand()

		state := child.state.(*mockGame)
		require.Equal(t, 1, state.performed, "Incoming move should be applied once")
		require.Equal(t, "/win", state.path)
		require.Equal(t, first, second, "Children should be memoized")
		require.Equal(t, first, third, "Children should be memoized")
		require.Same(t, first[0], third[0], "Children should not be recreated")
		require.Equal(t, "opp", child.player)
	})

	t.Run("children own independent state clones", func(t *testing.T) {
		root := newRoot[string, string](newMockGame(forcedWinTree()))
		children := root.expand()

		children[0].expand()

		require.Equal(t, "", root.state.(*mockGame).path, "Parent state should not change")
		require.Equal(t, "", children[1].state.(*mockGame).path, "Sibling state should not change")
		require.Equal(t, "/lose", children[0].state.(*mockGame).path)
	})

	t.Run("chance marked moves make a chance node", func(t *testing.T) {
		root := newRoot[string, string](newMockGame(chanceTree()))

		children := root.expand()

		require.Len(t, children, 3)
		require.True(t, root.chance, "Chance moves should mark a chance node")
	})

	t.Run("terminal position has no children", func(t *testing.T) {
		root := newRoot[string, string](newMockGame(forcedWinTree()))
		leaf := root.expand()[1].expand()[0]

		require.Empty(t, leaf.expand(), "Terminal node should have no children")
		require.Equal(t, "me", leaf.winner())
	})
}

func TestNodeWinner(t *testing.T) {
	t.Run("forces the incoming move before asking for the winner", func(t *testing.T) {
		root := newRoot[string, string](newMockGame(forcedWinTree()))
		leaf := root.expand()[0].expand()[1]

		require.False(t, leaf.expanded)
		require.Equal(t, "opp", leaf.winner())
		require.True(t, leaf.expanded, "Winner should expand the node")
		require.Equal(t, "/lose/b", leaf.state.(*mockGame).path)
	})
}

func TestNodeScore(t *testing.T) {
	t.Run("unvisited node scores infinity for any player", func(t *testing.T) {
		root := newRoot[string, string](newMockGame(forcedWinTree()))
		root.visits = 10
		child := root.expand()[0]
		child.wins["me"] = 0

		require.Equal(t, math.Inf(1), child.score("me"))
		require.Equal(t, math.Inf(1), child.score("opp"))
		require.Equal(t, math.Inf(1), child.score(nobody))
	})

	t.Run("visited root scores zero", func(t *testing.T) {
		root := newRoot[string, string](newMockGame(forcedWinTree()))
		root.visits = 3

		require.Equal(t, 0.0, root.score("me"))
	})

	t.Run("visited child scores UCB1 for the given player", func(t *testing.T) {
		root := newRoot[string, string](newMockGame(forcedWinTree()))
		root.visits = 100
		child := root.expand()[0]
		child.visits = 10
		child.wins["me"] = 5
		child.wins["opp"] = 5

		expected := 5.0/10 + math.Sqrt(2.0*math.Log(100)/10.0)
		require.InDelta(t, expected, child.score("me"), 1e-9, "Should compute w/n + sqrt(2 ln(N)/n)")
		require.InDelta(t, math.Sqrt(2.0*math.Log(100)/10.0), child.score("third"), 1e-9,
			"Player without wins should only get the exploration term")
	})
}

func TestNodeSelectChild(t *testing.T) {
	t.Run("prefers an unvisited child over visited siblings", func(t *testing.T) {
		root := newRoot[string, string](newMockGame(forcedWinTree()))
		root.visits = 5
		children := root.expand()
		children[1].visits = 4
		children[1].wins["me"] = 4

		rng := rand.New(rand.NewSource(1))
		for i := 0; i < 20; i++ {
			require.Same(t, children[0], root.selectChild(rng), "Unvisited child should always be selected")
		}
	})

	t.Run("selects the max UCB1 child for the player to move", func(t *testing.T) {
		root := newRoot[string, string](newMockGame(forcedWinTree()))
		root.visits = 20
		children := root.expand()
		children[0].visits = 10
		children[0].wins["opp"] = 10
		children[1].visits = 10
		children[1].wins["me"] = 10

		got := root.selectChild(rand.New(rand.NewSource(1)))

		require.Same(t, children[1], got, "Should maximize the win rate of the player to move")
	})

	t.Run("breaks ties uniformly at random", func(t *testing.T) {
		root := newRoot[string, string](newMockGame(forcedWinTree()))
		children := root.expand()
		rng := rand.New(rand.NewSource(7))

		counts := map[string]int{}
		for i := 0; i < 2000; i++ {
			counts[root.selectChild(rng).move]++
		}

		require.InDelta(t, 1000, counts["lose"], 150, "Tied children should be picked evenly")
		require.InDelta(t, 1000, counts["win"], 150, "Tied children should be picked evenly")
		require.Len(t, children, 2)
	})

	t.Run("panics on a terminal node", func(t *testing.T) {
		root := newRoot[string, string](newMockGame(map[string]mockPosition{"": {winner: "me"}}))

		require.Panics(t, func() {
			root.selectChild(rand.New(rand.NewSource(1)))
		})
	})
}

func TestNodeBackup(t *testing.T) {
	t.Run("credits the winner and returns the parent", func(t *testing.T) {
		root := newRoot[string, string](newMockGame(forcedWinTree()))
		child := root.expand()[1]

		got := child.backup("me")

		require.Same(t, root, got)
		require.Equal(t, 1, child.wins["me"])
		require.Equal(t, 0, child.wins["opp"])
	})

	t.Run("root returns no parent", func(t *testing.T) {
		root := newRoot[string, string](newMockGame(forcedWinTree()))

		require.Nil(t, root.backup(nobody))
		require.Equal(t, 1, root.wins[nobody], "Undecided token should be credited like any other")
	})
}
