package metrics

import "time"

// AgentConfig identifies an agent setup in experiment records.
type AgentConfig struct {
	ID          int
	Rounds      int
	Duration    time.Duration
	Training    bool    // Sample moves instead of playing the most visited one
	Temperature float64 // Only used by training agents
}

type GameRecord struct {
	ID          int
	Agent1      int // AgentConfig.ID
	Agent2      int // AgentConfig.ID
	FirstAgent  int // AgentConfig.ID of the starting player
	WinnerAgent int // AgentConfig.ID, -1 without a winner
	GameMetric
}

type MoveRecord struct {
	Game  int // GameRecord.ID
	Agent int // AgentConfig.ID
	MoveMetric
}
