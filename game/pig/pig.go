// Package pig implements the dice game Pig: on their turn a player keeps
// rolling a die, adding faces to a turn total, until they hold (banking the
// total) or roll a one (losing it). The first player to reach the target
// wins. Die rolls are chance positions.
package pig

import (
	"fmt"

	"mcts/searcher"

	"github.com/pkg/errors"
)

type Player int8

const (
	Nobody Player = iota
	One
	Two
)

func (p Player) Opponent() Player {
	switch p {
	case One:
		return Two
	case Two:
		return One
	}
	return Nobody
}

func (p Player) String() string {
	switch p {
	case One:
		return "One"
	case Two:
		return "Two"
	}
	return "Nobody"
}

// Move is either a player decision (Roll, Hold) or a die face 1-6 picked
// by chance.
type Move int8

const (
	Hold Move = -1
	Roll Move = 0
)

const Faces = 6

const DefaultTarget = 30

func (m Move) String() string {
	switch m {
	case Hold:
		return "hold"
	case Roll:
		return "roll"
	}
	return fmt.Sprintf("face %d", int(m))
}

var faces = []Move{1, 2, 3, 4, 5, 6}

type State struct {
	Target    int
	Scores    [2]int
	Turn      Player
	TurnTotal int
	Rolling   bool // A roll was chosen and the die is pending
	winner    Player
}

func NewState(target int) (*State, error) {
	if target <= 0 {
		return nil, errors.Errorf("target must be positive, got %d", target)
	}
	return &State{Target: target, Turn: One}, nil
}

func (s *State) Score(p Player) int {
	if p == Nobody {
		return 0
	}
	return s.Scores[p-1]
}

func (s *State) PossibleMoves() searcher.Moves[Move] {
	switch {
	case s.winner != Nobody:
		return searcher.Decision[Move]()
	case s.Rolling:
		return searcher.Chance(faces...)
	case s.TurnTotal > 0:
		return searcher.Decision(Roll, Hold)
	default:
		// Holding an empty turn would let both players pass forever
		return searcher.Decision(Roll)
	}
}

func (s *State) PerformMove(move Move) {
	switch {
	case s.winner != Nobody:
		panic(errors.Errorf("move %s after the game ended", move))
	case s.Rolling:
		if move < 1 || move > Faces {
			panic(errors.Errorf("expected a die face, got %s", move))
		}
		s.Rolling = false
		s.roll(int(move))
	case move == Roll:
		s.Rolling = true
	case move == Hold && s.TurnTotal > 0:
		s.Scores[s.Turn-1] += s.TurnTotal
		s.endTurn()
	default:
		panic(errors.Errorf("illegal move %s", move))
	}
}

func (s *State) roll(face int) {
	if face == 1 {
		s.endTurn()
		return
	}

	s.TurnTotal += face
	// Reaching the target banks automatically
	if s.Scores[s.Turn-1]+s.TurnTotal >= s.Target {
		s.Scores[s.Turn-1] += s.TurnTotal
		s.TurnTotal = 0
		s.winner = s.Turn
	}
}

func (s *State) endTurn() {
	s.TurnTotal = 0
	s.Turn = s.Turn.Opponent()
}

func (s *State) CurrentPlayer() Player {
	return s.Turn
}

func (s *State) Winner() Player {
	return s.winner
}

func (s *State) Clone() searcher.Game[Move, Player] {
	clone := *s
	return &clone
}
