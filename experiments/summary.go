package experiments

import (
	"mcts/experiments/metrics"

	"gonum.org/v1/gonum/stat"
)

// Summary aggregates the games and searches of one agent config.
type Summary struct {
	Agent        int
	Games        int
	Wins         int
	WinRate      float64
	MeanSearchMs float64
	StdSearchMs  float64
}

func Summarize(configs []metrics.AgentConfig, games []metrics.GameRecord, moves []metrics.MoveRecord) []Summary {
	summaries := make([]Summary, 0, len(configs))
	for _, config := range configs {
		s := Summary{Agent: config.ID}
		for _, game := range games {
			if game.Agent1 != config.ID && game.Agent2 != config.ID {
				continue
			}
			s.Games++
			if game.WinnerAgent == config.ID {
				s.Wins++
			}
		}
		if s.Games > 0 {
			s.WinRate = float64(s.Wins) / float64(s.Games)
		}

		var durations []float64
		for _, move := range moves {
			if move.Agent == config.ID {
				durations = append(durations, float64(move.Duration.Microseconds())/1000)
			}
		}
		switch len(durations) {
		case 0:
		case 1:
			s.MeanSearchMs = durations[0]
		default:
			s.MeanSearchMs, s.StdSearchMs = stat.MeanStdDev(durations, nil)
		}
		summaries = append(summaries, s)
	}
	return summaries
}
