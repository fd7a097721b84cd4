package engine

import (
	"fmt"
	"time"

	"mcts/experiments/metrics"
	"mcts/searcher"
	"mcts/searcher/agent"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

// Local plays a game in process, asking the agent of the player to move at
// decision positions and rolling chance positions itself.
type Local[M any, P comparable] struct {
	State    searcher.Game[M, P]
	Agents   map[P]agent.Agent[M, P]
	MaxMoves int
	rng      *rand.Rand
}

// LocalEngine prepares a game from a copy of state. The seed drives the
// outcome of chance positions.
func LocalEngine[M any, P comparable](state searcher.Game[M, P], agents map[P]agent.Agent[M, P], seed uint64) (*Local[M, P], error) {
	if state == nil {
		return nil, errors.New("need a starting state")
	}
	if len(agents) == 0 {
		return nil, errors.New("need at least one agent")
	}
	return &Local[M, P]{
		State:    state.Clone(),
		Agents:   agents,
		MaxMoves: MaxMoves,
		rng:      rand.New(rand.NewSource(seed)),
	}, nil
}

// Run executes the entire game loop until the game ends.
func (e *Local[M, P]) Run() (P, metrics.GameMetric, []metrics.MoveMetric, error) {
	var nobody P
	start := time.Now()
	starting := e.State.CurrentPlayer()
	log.Info().Msgf("player %v is starting", starting)

	var moveMetrics []metrics.MoveMetric
	step := 0
	for ; step < e.MaxMoves; step++ {
		moves := e.State.PossibleMoves()
		if moves.Len() == 0 {
			break
		}

		var move M
		if moves.IsChance() {
			list := moves.List()
			move = list[e.rng.Intn(len(list))]
		} else {
			player := e.State.CurrentPlayer()
			a, ok := e.Agents[player]
			if !ok {
				return nobody, metrics.GameMetric{}, moveMetrics, errors.Errorf("no agent for player %v", player)
			}

			var search metrics.SearchMetric
			var err error
			move, search, err = a.FindMove(e.State.Clone())
			if err != nil {
				return nobody, metrics.GameMetric{}, moveMetrics, errors.Wrapf(err, "player %v at move %d", player, step+1)
			}
			moveMetrics = append(moveMetrics, metrics.MoveMetric{
				Step:         step + 1,
				Player:       fmt.Sprint(player),
				SearchMetric: search,
			})
			log.Debug().Msgf("player %v chose move %v", player, move)
		}
		e.State.PerformMove(move)
	}

	winner := e.State.Winner()
	if step >= e.MaxMoves && e.State.PossibleMoves().Len() > 0 {
		log.Info().Msgf("stopped after %d moves (no winner yet)", step)
	} else {
		log.Info().Msgf("game ended after %d moves, winner %v", step, winner)
	}

	end := time.Now()
	return winner, metrics.GameMetric{
		StartingPlayer: fmt.Sprint(starting),
		Winner:         fmt.Sprint(winner),
		StartTime:      start,
		EndTime:        end,
		Duration:       end.Sub(start),
		TotalMoves:     step,
	}, moveMetrics, nil
}
