package searcher

import "maps"

// ChildStat summarizes one root child of the last search.
type ChildStat[M any, P comparable] struct {
	Move   M
	Visits int
	Wins   map[P]int
}

// WinRate is the share of visits won by player.
func (c ChildStat[M, P]) WinRate(player P) float64 {
	if c.Visits == 0 {
		return 0
	}
	return float64(c.Wins[player]) / float64(c.Visits)
}

// Statistics lists the root children of the last search in move order. It
// returns nil before the first search.
func (m *MCTS[M, P]) Statistics() []ChildStat[M, P] {
	if m.root == nil {
		return nil
	}

	stats := make([]ChildStat[M, P], 0, len(m.root.children))
	for _, child := range m.root.children {
		stats = append(stats, ChildStat[M, P]{
			Move:   child.move,
			Visits: child.visits,
			Wins:   maps.Clone(child.wins),
		})
	}
	return stats
}

// Policy returns the visit share of every root child, in move order.
func (m *MCTS[M, P]) Policy() []float64 {
	stats := m.Statistics()
	total := 0
	for _, stat := range stats {
		total += stat.Visits
	}

	policy := make([]float64, len(stats))
	if total == 0 {
		return policy
	}
	for i, stat := range stats {
		policy[i] = float64(stat.Visits) / float64(total)
	}
	return policy
}
