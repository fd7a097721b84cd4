package engine

import (
	"net/http/httptest"
	"testing"

	"mcts/game/pig"
	"mcts/game/tictactoe"
	"mcts/searcher/agent"

	"github.com/stretchr/testify/require"
)

func tictactoeAgents(rounds int) map[tictactoe.Player]agent.Agent[tictactoe.Move, tictactoe.Player] {
	return map[tictactoe.Player]agent.Agent[tictactoe.Move, tictactoe.Player]{
		tictactoe.X: agent.NewEvaluationAgent[tictactoe.Move, tictactoe.Player](agent.Config{Rounds: rounds, Seed: 1}),
		tictactoe.O: agent.NewEvaluationAgent[tictactoe.Move, tictactoe.Player](agent.Config{Rounds: rounds, Seed: 2}),
	}
}

func TestLocalEngine(t *testing.T) {
	t.Run("rejects games without agents", func(t *testing.T) {
		_, err := LocalEngine[tictactoe.Move, tictactoe.Player](tictactoe.NewState(), nil, 1)
		require.Error(t, err)
	})

	t.Run("plays tic-tac-toe to the end", func(t *testing.T) {
		e, err := LocalEngine[tictactoe.Move, tictactoe.Player](tictactoe.NewState(), tictactoeAgents(200), 1)
		require.NoError(t, err)

		winner, game, moves, err := e.Run()

		require.NoError(t, err)
		require.Equal(t, winner.String(), game.Winner)
		require.Equal(t, "X", game.StartingPlayer)
		require.GreaterOrEqual(t, game.TotalMoves, 5)
		require.LessOrEqual(t, game.TotalMoves, 9)
		require.Len(t, moves, game.TotalMoves, "Every tic-tac-toe move is a decision")
		require.Equal(t, "X", moves[0].Player)
		require.Equal(t, "O", moves[1].Player)
		require.Equal(t, 1, moves[0].Step)
		require.Equal(t, 200, moves[0].Rounds)
		require.Zero(t, e.State.PossibleMoves().Len())
	})

	t.Run("does not touch the starting state", func(t *testing.T) {
		start := tictactoe.NewState()
		e, err := LocalEngine[tictactoe.Move, tictactoe.Player](start, tictactoeAgents(10), 1)
		require.NoError(t, err)

		_, _, _, err = e.Run()

		require.NoError(t, err)
		require.Equal(t, tictactoe.NewState(), start)
	})

	t.Run("stops at the move limit", func(t *testing.T) {
		e, err := LocalEngine[tictactoe.Move, tictactoe.Player](tictactoe.NewState(), tictactoeAgents(10), 1)
		require.NoError(t, err)
		e.MaxMoves = 3

		winner, game, moves, err := e.Run()

		require.NoError(t, err)
		require.Equal(t, tictactoe.Nobody, winner)
		require.Equal(t, 3, game.TotalMoves)
		require.Len(t, moves, 3)
	})

	t.Run("fails when a player has no agent", func(t *testing.T) {
		agents := tictactoeAgents(10)
		delete(agents, tictactoe.O)
		e, err := LocalEngine[tictactoe.Move, tictactoe.Player](tictactoe.NewState(), agents, 1)
		require.NoError(t, err)

		_, _, moves, err := e.Run()

		require.Error(t, err)
		require.Len(t, moves, 1)
	})

	t.Run("rolls the dice itself", func(t *testing.T) {
		state, err := pig.NewState(10)
		require.NoError(t, err)
		self := agent.NewEvaluationAgent[pig.Move, pig.Player](agent.Config{Rounds: 50, Seed: 3})
		e, err := LocalEngine[pig.Move, pig.Player](state, map[pig.Player]agent.Agent[pig.Move, pig.Player]{
			pig.One: self,
			pig.Two: self,
		}, 4)
		require.NoError(t, err)

		winner, game, moves, err := e.Run()

		require.NoError(t, err)
		require.NotEqual(t, pig.Nobody, winner, "Pig always ends with a winner")
		require.Greater(t, game.TotalMoves, len(moves), "Die rolls are not agent moves")
		require.GreaterOrEqual(t, e.State.(*pig.State).Score(winner), 10)
	})
}

func TestRemoteAgent(t *testing.T) {
	server := httptest.NewServer(agent.NewServer(agent.Config{Seed: 5}).Handler())
	defer server.Close()

	t.Run("plays the move the server recommends", func(t *testing.T) {
		state, err := tictactoe.Parse("XX./OO./...")
		require.NoError(t, err)
		remote := NewRemoteAgent(server.URL, 1000)

		move, metric, err := remote.FindMove(state)

		require.NoError(t, err)
		require.Equal(t, tictactoe.Move(2), move)
		require.Equal(t, 1000, metric.Rounds)
	})

	t.Run("reports server errors", func(t *testing.T) {
		state, err := tictactoe.Parse("XXX/OO./...")
		require.NoError(t, err)

		_, _, err = NewRemoteAgent(server.URL, 10).FindMove(state)

		require.Error(t, err)
	})

	t.Run("drives a local game", func(t *testing.T) {
		remote := NewRemoteAgent(server.URL, 50)
		e, err := LocalEngine[tictactoe.Move, tictactoe.Player](tictactoe.NewState(), map[tictactoe.Player]agent.Agent[tictactoe.Move, tictactoe.Player]{
			tictactoe.X: remote,
			tictactoe.O: agent.NewEvaluationAgent[tictactoe.Move, tictactoe.Player](agent.Config{Rounds: 50, Seed: 6}),
		}, 1)
		require.NoError(t, err)

		_, game, _, err := e.Run()

		require.NoError(t, err)
		require.GreaterOrEqual(t, game.TotalMoves, 5)
	})
}
