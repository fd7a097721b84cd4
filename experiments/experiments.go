package experiments

import (
	"fmt"
	"time"

	"mcts/engine"
	"mcts/experiments/metrics"
	"mcts/game/chess"
	"mcts/game/pig"
	"mcts/game/tictactoe"
	"mcts/searcher"
	"mcts/searcher/agent"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Settings describe an experiment run.
type Settings struct {
	Name      string
	Game      string // tictactoe, pig or chess
	Games     int    // Per match up
	Rounds    int    // Baseline rounds per move
	Duration  time.Duration
	Seed      uint64
	PigTarget int
	OutputDir string   // Records are not stored when empty
	Formats   []string // metrics.FormatCSV, metrics.FormatParquet
}

type Result struct {
	Games   []metrics.GameRecord
	Moves   []metrics.MoveRecord
	Summary []Summary
}

// RunRoundsExperiment pairs a baseline agent against agents with a fraction
// and a multiple of its rounds.
func RunRoundsExperiment(settings Settings) (Result, error) {
	baseline := metrics.AgentConfig{ID: 0, Rounds: settings.Rounds, Duration: settings.Duration}
	configs := []metrics.AgentConfig{baseline}
	for i, factor := range []float64{0.1, 0.5, 1, 2} {
		configs = append(configs, metrics.AgentConfig{
			ID:       i + 1,
			Rounds:   max(1, int(float64(settings.Rounds)*factor)),
			Duration: settings.Duration,
		})
	}

	// Each matchup pairs the baseline agent against another agent
	matchUps := [][2]metrics.AgentConfig{}
	for _, config := range configs[1:] {
		matchUps = append(matchUps, [2]metrics.AgentConfig{baseline, config})
	}
	return Run(settings, configs, matchUps)
}

// RunTemperatureExperiment pairs an evaluation agent against training agents
// of the same budget.
func RunTemperatureExperiment(settings Settings) (Result, error) {
	baseline := metrics.AgentConfig{ID: 0, Rounds: settings.Rounds, Duration: settings.Duration}
	configs := []metrics.AgentConfig{baseline}
	for i, temperature := range []float64{0.25, 1, 4} {
		configs = append(configs, metrics.AgentConfig{
			ID:          i + 1,
			Rounds:      settings.Rounds,
			Duration:    settings.Duration,
			Training:    true,
			Temperature: temperature,
		})
	}

	matchUps := [][2]metrics.AgentConfig{}
	for _, config := range configs[1:] {
		matchUps = append(matchUps, [2]metrics.AgentConfig{baseline, config})
	}
	return Run(settings, configs, matchUps)
}

// Run plays every matchup on the configured game.
func Run(settings Settings, configs []metrics.AgentConfig, matchUps [][2]metrics.AgentConfig) (Result, error) {
	if settings.Games <= 0 {
		return Result{}, errors.Errorf("games per matchup must be positive, got %d", settings.Games)
	}

	var (
		result Result
		err    error
	)
	switch settings.Game {
	case "tictactoe":
		result, err = runExperiment(settings, matchUps, func() searcher.Game[tictactoe.Move, tictactoe.Player] {
			return tictactoe.NewState()
		}, [2]tictactoe.Player{tictactoe.X, tictactoe.O})
	case "pig":
		target := settings.PigTarget
		if target == 0 {
			target = pig.DefaultTarget
		}
		if _, err := pig.NewState(target); err != nil {
			return Result{}, err
		}
		result, err = runExperiment(settings, matchUps, func() searcher.Game[pig.Move, pig.Player] {
			s, _ := pig.NewState(target)
			return s
		}, [2]pig.Player{pig.One, pig.Two})
	case "chess":
		result, err = runExperiment(settings, matchUps, func() searcher.Game[chess.Move, chess.Player] {
			return chess.NewState()
		}, [2]chess.Player{chess.White, chess.Black})
	default:
		return Result{}, errors.Errorf("unknown game %q", settings.Game)
	}
	if err != nil {
		return Result{}, err
	}

	result.Summary = Summarize(configs, result.Games, result.Moves)
	for _, s := range result.Summary {
		log.Info().Msgf("agent %d: %d games, win rate %.2f, search %.2fms ± %.2fms",
			s.Agent, s.Games, s.WinRate, s.MeanSearchMs, s.StdSearchMs)
	}

	if settings.OutputDir == "" {
		return result, nil
	}
	return result, store(settings, configs, result)
}

func store(settings Settings, configs []metrics.AgentConfig, result Result) error {
	writer, err := metrics.NewWriter(settings.OutputDir, settings.Name)
	if err != nil {
		return errors.WithMessage(err, "failed to create experiment writer")
	}
	if err := writer.Write(settings.Formats, configs, result.Games, result.Moves); err != nil {
		return errors.WithMessage(err, "failed to store experiment records")
	}
	log.Info().Msgf("stored experiment records in %s", writer.Dir())
	return nil
}

func runExperiment[M any, P comparable](settings Settings, matchUps [][2]metrics.AgentConfig,
	newGame func() searcher.Game[M, P], players [2]P) (Result, error) {
	// Run a number of games for each matchup
	count := 0
	result := Result{}

	log.Info().Msgf("starting %s experiment...", settings.Name)

	for mi, matchup := range matchUps {
		config1 := matchup[0]
		config2 := matchup[1]

		log.Info().Msgf("starting matchup %d of %d between agent1=%+v and agent2=%+v...", mi+1, len(matchUps), config1, config2)

		for i := 0; i < settings.Games; i++ {
			count++
			// Alternate the starting agent
			first, second := config1, config2
			if i%2 == 1 {
				first, second = config2, config1
			}
			seed := gameSeed(settings.Seed, count)

			winner, gameMetric, moveMetrics, err := runGame(newGame(), players, first, second, seed)
			if err != nil {
				return Result{}, errors.WithMessagef(err, "matchup %d game %d", mi+1, i+1)
			}

			winnerAgent := -1
			switch winner {
			case players[0]:
				winnerAgent = first.ID
			case players[1]:
				winnerAgent = second.ID
			}
			result.Games = append(result.Games, metrics.GameRecord{
				ID:          count,
				Agent1:      config1.ID,
				Agent2:      config2.ID,
				FirstAgent:  first.ID,
				WinnerAgent: winnerAgent,
				GameMetric:  gameMetric,
			})
			for _, mm := range moveMetrics {
				agentID := second.ID
				if mm.Player == fmt.Sprint(players[0]) {
					agentID = first.ID
				}
				result.Moves = append(result.Moves, metrics.MoveRecord{
					Game:       count,
					Agent:      agentID,
					MoveMetric: mm,
				})
			}

			log.Info().Msgf("completed matchup %d of %d game %d with winner: %v", mi+1, len(matchUps), i+1, winner)
		}
		log.Info().Msgf("completed matchup %d of %d", mi+1, len(matchUps))
	}

	log.Info().Msgf("completed %s experiment", settings.Name)
	return result, nil
}

// seedsPerGame keeps the seeds of both agents and the engine distinct across
// games.
const seedsPerGame = 3

// gameSeed is the first of the seedsPerGame seeds used by game count.
func gameSeed(base uint64, count int) uint64 {
	return base + seedsPerGame*uint64(count)
}

// runGame executes a single game where first plays players[0]
func runGame[M any, P comparable](state searcher.Game[M, P], players [2]P, first, second metrics.AgentConfig, seed uint64) (P, metrics.GameMetric, []metrics.MoveMetric, error) {
	var nobody P
	agent1, err := newAgent[M, P](first, seed)
	if err != nil {
		return nobody, metrics.GameMetric{}, nil, err
	}
	agent2, err := newAgent[M, P](second, seed+1)
	if err != nil {
		return nobody, metrics.GameMetric{}, nil, err
	}

	e, err := engine.LocalEngine(state, map[P]agent.Agent[M, P]{
		players[0]: agent1,
		players[1]: agent2,
	}, seed+2)
	if err != nil {
		return nobody, metrics.GameMetric{}, nil, err
	}
	return e.Run()
}

func newAgent[M any, P comparable](config metrics.AgentConfig, seed uint64) (agent.Agent[M, P], error) {
	agentConfig := agent.Config{Rounds: config.Rounds, Duration: config.Duration, Seed: seed}
	if config.Training {
		return agent.NewTrainingAgent[M, P](agentConfig, config.Temperature)
	}
	return agent.NewEvaluationAgent[M, P](agentConfig), nil
}
