package tictactoe

import (
	"strings"

	"mcts/searcher"

	"github.com/pkg/errors"
)

type Player int8

const (
	Nobody Player = iota // No winner yet, or a draw
	X
	O
)

func (p Player) Opponent() Player {
	switch p {
	case X:
		return O
	case O:
		return X
	}
	return Nobody
}

func (p Player) String() string {
	switch p {
	case X:
		return "X"
	case O:
		return "O"
	}
	return "."
}

const Size = 3

// Move is a cell index, row-major from the top left corner.
type Move int

func (m Move) Row() int { return int(m) / Size }
func (m Move) Col() int { return int(m) % Size }

var lines = [][3]int{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8}, // Rows
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8}, // Columns
	{0, 4, 8}, {2, 4, 6}, // Diagonals
}

// State is a tic-tac-toe position. X always moves first.
type State struct {
	Board [Size * Size]Player
	Turn  Player
}

func NewState() *State {
	return &State{Turn: X}
}

// Parse reads a board of 9 cells made of 'X', 'O' and '.' (whitespace and
// '/' separators are ignored). The player to move is inferred from the mark
// counts.
func Parse(board string) (*State, error) {
	cells := strings.Map(func(r rune) rune {
		if r == '/' || r == ' ' || r == '\n' || r == '\t' {
			return -1
		}
		return r
	}, strings.ToUpper(board))
	if len(cells) != Size*Size {
		return nil, errors.Errorf("board %q has %d cells, want %d", board, len(cells), Size*Size)
	}

	s := &State{}
	xs, os := 0, 0
	for i, c := range cells {
		switch c {
		case 'X':
			s.Board[i] = X
			xs++
		case 'O':
			s.Board[i] = O
			os++
		case '.', '-', '_':
			s.Board[i] = Nobody
		default:
			return nil, errors.Errorf("board %q has invalid cell %q", board, c)
		}
	}

	switch xs - os {
	case 0:
		s.Turn = X
	case 1:
		s.Turn = O
	default:
		return nil, errors.Errorf("board %q has %d X and %d O marks", board, xs, os)
	}
	return s, nil
}

func (s *State) String() string {
	var b strings.Builder
	for i, cell := range s.Board {
		if i > 0 && i%Size == 0 {
			b.WriteByte('/')
		}
		b.WriteString(cell.String())
	}
	return b.String()
}

func (s *State) PossibleMoves() searcher.Moves[Move] {
	if s.Winner() != Nobody {
		return searcher.Decision[Move]()
	}

	moves := make([]Move, 0, Size*Size)
	for i, cell := range s.Board {
		if cell == Nobody {
			moves = append(moves, Move(i))
		}
	}
	return searcher.Decision(moves...)
}

// PerformMove marks a cell for the player to move. Marking an occupied or
// out of range cell is a caller bug and panics.
func (s *State) PerformMove(move Move) {
	if move < 0 || int(move) >= len(s.Board) || s.Board[move] != Nobody {
		panic(errors.Errorf("illegal move %d on board %s", move, s))
	}
	s.Board[move] = s.Turn
	s.Turn = s.Turn.Opponent()
}

func (s *State) CurrentPlayer() Player {
	return s.Turn
}

func (s *State) Winner() Player {
	for _, line := range lines {
		first := s.Board[line[0]]
		if first != Nobody && first == s.Board[line[1]] && first == s.Board[line[2]] {
			return first
		}
	}
	return Nobody
}

// Clone copies the board, which is a plain array.
func (s *State) Clone() searcher.Game[Move, Player] {
	clone := *s
	return &clone
}
