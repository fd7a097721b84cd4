package engine

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"mcts/experiments/metrics"
	"mcts/game/tictactoe"
	"mcts/searcher"
	"mcts/searcher/agent"

	"github.com/pkg/errors"
)

// RemoteAgent asks an agent server for tic-tac-toe moves over HTTP.
type RemoteAgent struct {
	URL    string
	Rounds int // Server default when 0
	client *http.Client
}

func NewRemoteAgent(url string, rounds int) *RemoteAgent {
	return &RemoteAgent{
		URL:    url,
		Rounds: rounds,
		client: &http.Client{Timeout: time.Minute},
	}
}

// FindMove posts the board to /findmove on the agent side.
func (a *RemoteAgent) FindMove(state searcher.Game[tictactoe.Move, tictactoe.Player]) (tictactoe.Move, metrics.SearchMetric, error) {
	board, ok := state.(*tictactoe.State)
	if !ok {
		return 0, metrics.SearchMetric{}, errors.Errorf("unsupported state %T", state)
	}

	body, err := json.Marshal(agent.FindMoveRequest{Board: board.String(), Rounds: a.Rounds})
	if err != nil {
		return 0, metrics.SearchMetric{}, errors.WithStack(err)
	}

	start := time.Now()
	resp, err := a.client.Post(a.URL+"/findmove", "application/json", bytes.NewReader(body))
	if err != nil {
		return 0, metrics.SearchMetric{}, errors.Wrapf(err, "requesting move from %s", a.URL)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		out, _ := io.ReadAll(resp.Body)
		return 0, metrics.SearchMetric{}, errors.Errorf("agent returned status %d: %s", resp.StatusCode, bytes.TrimSpace(out))
	}

	var response agent.FindMoveResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return 0, metrics.SearchMetric{}, errors.Wrap(err, "decoding move")
	}

	move := tictactoe.Move(response.Move)
	legal := false
	for _, candidate := range board.PossibleMoves().List() {
		legal = legal || candidate == move
	}
	if !legal {
		return 0, metrics.SearchMetric{}, errors.Errorf("agent returned illegal move %d for %s", move, board)
	}

	return move, metrics.SearchMetric{
		Rounds:   response.Rounds,
		Budget:   a.Rounds,
		Duration: time.Since(start),
	}, nil
}
