package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"mcts/config"
	"mcts/experiments"
	"mcts/game/chess"
	"mcts/game/pig"
	"mcts/game/tictactoe"
	"mcts/player"
	"mcts/searcher"
	"mcts/searcher/agent"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const dotDepth = 3

func main() {
	configPath := flag.String("config", "", "Path to a YAML config file")
	mode := flag.String("mode", "move", "One of move, experiment, serve, play")
	game := flag.String("game", "", "Game: tictactoe, pig or chess (overrides experiment.game)")
	board := flag.String("board", "", "Tic-tac-toe board like X../.O./... or a chess FEN")
	rounds := flag.Int("rounds", 0, "Search rounds per move (overrides search.rounds)")
	seed := flag.Uint64("seed", 0, "Search seed (overrides search.seed)")
	moves := flag.String("moves", "", "Space separated UCI chess moves played from -board before searching")
	dot := flag.String("dot", "", "Write the move search tree in DOT format to this file")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	c := config.Default()
	if *configPath != "" {
		var err error
		if c, err = config.Load(*configPath); err != nil {
			log.Fatal().Err(err).Msg("failed to load config")
		}
	}
	if *game != "" {
		c.Experiment.Game = *game
	}
	if *rounds != 0 {
		c.Search.Rounds = *rounds
	}
	if *seed != 0 {
		c.Search.Seed = *seed
	}
	if err := c.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	level, _ := zerolog.ParseLevel(c.LogLevel)
	zerolog.SetGlobalLevel(level)

	if err := run(*mode, c, *board, strings.Fields(*moves), *dot); err != nil {
		log.Fatal().Err(err).Msgf("%s failed", *mode)
	}
}

func run(mode string, c config.Config, board string, moves []string, dot string) error {
	agentConfig := agent.Config{Rounds: c.Search.Rounds, Duration: c.Search.Duration, Seed: c.Search.Seed}

	switch mode {
	case "move":
		return recommendMove(c, board, moves, dot)
	case "experiment":
		return runExperiment(c)
	case "serve":
		return agent.NewServer(agentConfig).ListenAndServe(c.Server.Addr)
	case "play":
		human := tictactoe.X
		if c.Play.Human == "O" {
			human = tictactoe.O
		}
		return player.Play(agent.NewEvaluationAgent[tictactoe.Move, tictactoe.Player](agentConfig), human)
	}
	return errors.Errorf("unknown mode %q", mode)
}

func recommendMove(c config.Config, board string, moves []string, dot string) error {
	switch c.Experiment.Game {
	case "tictactoe":
		state := tictactoe.NewState()
		if board != "" {
			var err error
			if state, err = tictactoe.Parse(board); err != nil {
				return err
			}
		}
		return recommend[tictactoe.Move, tictactoe.Player](state, c.Search, dot)
	case "pig":
		state, err := pig.NewState(c.Experiment.PigTarget)
		if err != nil {
			return err
		}
		return recommend[pig.Move, pig.Player](state, c.Search, dot)
	case "chess":
		state := chess.NewState()
		if board != "" {
			var err error
			if state, err = chess.FromFEN(board); err != nil {
				return err
			}
		}
		if err := state.PlayUCI(moves...); err != nil {
			return err
		}
		return recommend[chess.Move, chess.Player](state, c.Search, dot)
	}
	return errors.Errorf("unknown game %q", c.Experiment.Game)
}

// recommend searches for the player to move and prints the root statistics.
func recommend[M any, P comparable](state searcher.Game[M, P], search config.Search, dot string) error {
	options := []searcher.Option{
		searcher.WithRounds(search.Rounds),
		searcher.WithDuration(search.Duration),
		searcher.WithMetrics(),
	}
	if search.Seed != 0 {
		options = append(options, searcher.WithSeed(search.Seed))
	}

	toMove := state.CurrentPlayer()
	mcts, err := searcher.New(state, toMove, options...)
	if err != nil {
		return err
	}
	move, err := mcts.SelectMove()
	if err != nil {
		return err
	}

	metric := mcts.Metrics()
	fmt.Printf("player %v: play %v (%d rounds, %d nodes, %s)\n", toMove, move, metric.Rounds, metric.Nodes, metric.Duration)
	for _, stat := range mcts.Statistics() {
		fmt.Printf("  %-8v visits=%-6d win_rate=%.3f\n", stat.Move, stat.Visits, stat.WinRate(toMove))
	}

	if dot == "" {
		return nil
	}
	graph, err := mcts.Dot(dotDepth)
	if err != nil {
		return err
	}
	if err := os.WriteFile(dot, []byte(graph), 0644); err != nil {
		return errors.Wrap(err, "failed to write DOT file")
	}
	log.Info().Msgf("wrote search tree to %s", dot)
	return nil
}

func runExperiment(c config.Config) error {
	settings := experiments.Settings{
		Name:      c.Experiment.Kind,
		Game:      c.Experiment.Game,
		Games:     c.Experiment.Games,
		Rounds:    c.Search.Rounds,
		Duration:  c.Search.Duration,
		Seed:      c.Search.Seed,
		PigTarget: c.Experiment.PigTarget,
		OutputDir: c.Experiment.OutputDir,
		Formats:   c.Experiment.Formats,
	}

	var err error
	switch c.Experiment.Kind {
	case "rounds":
		_, err = experiments.RunRoundsExperiment(settings)
	case "temperature":
		_, err = experiments.RunTemperatureExperiment(settings)
	default:
		err = errors.Errorf("unknown experiment %q", c.Experiment.Kind)
	}
	return err
}
