// Package chess adapts github.com/notnil/chess to the searcher capability
// set. Players are colors; NoColor is both "undecided" and "draw".
//
// The state tracks a bare position rather than a notnil Game, so cloning is
// a pointer copy. Draws by stalemate, insufficient material, fivefold
// repetition and the 75-move rule end the game without a claim.
package chess

import (
	"strconv"
	"strings"

	"mcts/searcher"

	notnil "github.com/notnil/chess"
	"github.com/pkg/errors"
)

type (
	Move   = *notnil.Move
	Player = notnil.Color
)

const (
	White  = notnil.White
	Black  = notnil.Black
	Nobody = notnil.NoColor
)

const (
	repetitionLimit = 5   // Fivefold repetition
	halfMoveLimit   = 150 // 75 moves by each side
)

// positions is a persistent list of the positions since the last pawn move,
// capture or castling rights change. Clones share it.
type positions struct {
	hash [16]byte
	prev *positions
}

type State struct {
	pos   *notnil.Position
	clock int // Half moves since the last irreversible move
	seen  *positions

	decided bool // Outcome below is valid for pos
	over    bool
	winner  Player
}

func NewState() *State {
	return newState(notnil.StartingPosition(), 0)
}

// FromFEN starts from a position in Forsyth-Edwards notation.
func FromFEN(fen string) (*State, error) {
	option, err := notnil.FEN(fen)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing FEN %q", fen)
	}
	clock := 0
	if fields := strings.Fields(fen); len(fields) > 4 {
		if clock, err = strconv.Atoi(fields[4]); err != nil {
			return nil, errors.Wrapf(err, "parsing half move clock of %q", fen)
		}
	}
	return newState(notnil.NewGame(option).Position(), clock), nil
}

func newState(pos *notnil.Position, clock int) *State {
	return &State{
		pos:   pos,
		clock: clock,
		seen:  &positions{hash: pos.Hash()},
	}
}

func (s *State) FEN() string {
	return s.pos.String()
}

func (s *State) PossibleMoves() searcher.Moves[Move] {
	if s.outcome() {
		return searcher.Decision[Move]()
	}
	return searcher.Decision(s.pos.ValidMoves()...)
}

// PerformMove plays a legal move of this position. Moves generated from an
// identical position are accepted too.
func (s *State) PerformMove(move Move) {
	legal := s.find(move)
	if legal == nil || s.outcome() {
		panic(errors.Errorf("illegal move %s on %s", move, s.FEN()))
	}

	next := s.pos.Update(legal)
	irreversible := s.pos.Board().Piece(legal.S1()).Type() == notnil.Pawn ||
		legal.HasTag(notnil.Capture) ||
		next.CastleRights() != s.pos.CastleRights()
	if irreversible {
		s.clock = 0
		s.seen = &positions{hash: next.Hash()}
	} else {
		s.clock++
		s.seen = &positions{hash: next.Hash(), prev: s.seen}
	}
	s.pos = next
	s.decided = false
}

func (s *State) find(move Move) Move {
	if move == nil {
		return nil
	}
	for _, legal := range s.pos.ValidMoves() {
		if legal.S1() == move.S1() && legal.S2() == move.S2() && legal.Promo() == move.Promo() {
			return legal
		}
	}
	return nil
}

// outcome reports whether the game is over, caching the winner.
func (s *State) outcome() bool {
	if s.decided {
		return s.over
	}
	s.decided = true
	s.over, s.winner = true, Nobody

	// Fills the position's move cache, which Status reuses
	s.pos.ValidMoves()
	switch s.pos.Status() {
	case notnil.Checkmate:
		s.winner = s.pos.Turn().Other()
		return true
	case notnil.Stalemate:
		return true
	}
	if s.clock >= halfMoveLimit || s.repetitions() >= repetitionLimit || insufficientMaterial(s.pos.Board()) {
		return true
	}

	s.over = false
	return false
}

func (s *State) repetitions() int {
	count := 0
	for p := s.seen; p != nil; p = p.prev {
		if p.hash == s.seen.hash {
			count++
		}
	}
	return count
}

// insufficientMaterial covers bare kings and a single minor piece.
func insufficientMaterial(board *notnil.Board) bool {
	minors := 0
	for _, piece := range board.SquareMap() {
		switch piece.Type() {
		case notnil.King:
		case notnil.Bishop, notnil.Knight:
			minors++
		default:
			return false
		}
	}
	return minors <= 1
}

func (s *State) CurrentPlayer() Player {
	return s.pos.Turn()
}

func (s *State) Winner() Player {
	s.outcome()
	return s.winner
}

// Clone shares the immutable position and repetition history.
func (s *State) Clone() searcher.Game[Move, Player] {
	clone := *s
	return &clone
}

// ParseMove decodes a legal move in UCI notation (e2e4, e7e8q) for this
// position.
func (s *State) ParseMove(uci string) (Move, error) {
	move, err := notnil.UCINotation{}.Decode(s.pos, uci)
	if err != nil {
		return nil, errors.Wrapf(err, "decoding move %q", uci)
	}
	legal := s.find(move)
	if legal == nil {
		return nil, errors.Errorf("illegal move %q on %s", uci, s.FEN())
	}
	return legal, nil
}

// PlayUCI performs a sequence of UCI moves, stopping at the first one that
// does not apply.
func (s *State) PlayUCI(moves ...string) error {
	for i, uci := range moves {
		move, err := s.ParseMove(uci)
		if err != nil {
			return errors.WithMessagef(err, "move %d", i+1)
		}
		s.PerformMove(move)
	}
	return nil
}
