package board

import (
	"strings"

	"github.com/pkg/errors"
)

// Move encodes a Fianco move in 14 bits:
// bits 0-6:  from square (0-80)
// bits 7-13: to square (0-80)
// Whether a move captures is derived from its length, not stored.
type Move uint16

// NoMove represents an invalid or null move.
const NoMove Move = 0

// MaxMoves bounds the number of legal moves in any position
// (15 pieces with at most 3 destinations each).
const MaxMoves = 64

var (
	// ErrInvalidMove is returned when a move string cannot be parsed.
	ErrInvalidMove = errors.New("invalid move")
	// ErrIllegalMove is returned when a parsed move is not legal in the position.
	ErrIllegalMove = errors.New("illegal move")
)

// NewMove creates a move.
func NewMove(from, to Square) Move {
	return Move(from) | Move(to)<<7
}

// From returns the origin square.
func (m Move) From() Square {
	return Square(m & 0x7F)
}

// To returns the destination square.
func (m Move) To() Square {
	return Square((m >> 7) & 0x7F)
}

// IsCapture returns true if the move jumps over a piece.
// Slides are single steps; captures always travel two rows.
func (m Move) IsCapture() bool {
	return abs(m.From().Row()-m.To().Row()) > 1
}

// Captured returns the square of the bridged piece for a capture.
func (m Move) Captured() Square {
	from, to := m.From(), m.To()
	return NewSquare((from.Row()+to.Row())/2, (from.Col()+to.Col())/2)
}

// String returns the move in coordinate form (e.g., "e5e4").
func (m Move) String() string {
	if m == NoMove {
		return "0000"
	}
	return m.From().String() + m.To().String()
}

// LogString returns the move as a move-log line, e.g. "B: a9-a8".
func (m Move) LogString(c Color) string {
	return string(c.Char()) + ": " + m.From().String() + "-" + m.To().String()
}

// ParseMove parses a coordinate move ("e5e4" or "e5-e4").
// It does not check legality; see Position.ParseLegalMove.
func ParseMove(s string) (Move, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), "-", "")
	if len(s) != 4 {
		return NoMove, errors.Wrapf(ErrInvalidMove, "%q", s)
	}

	from, err := ParseSquare(s[0:2])
	if err != nil {
		return NoMove, errors.Wrapf(err, "move %q", s)
	}

	to, err := ParseSquare(s[2:4])
	if err != nil {
		return NoMove, errors.Wrapf(err, "move %q", s)
	}

	if from == to {
		return NoMove, errors.Wrapf(ErrInvalidMove, "%q", s)
	}

	return NewMove(from, to), nil
}

// MoveList is a fixed-size list of moves to avoid allocations.
type MoveList struct {
	moves [MaxMoves]Move
	count int
}

// Add adds a move to the list.
func (ml *MoveList) Add(m Move) {
	ml.moves[ml.count] = m
	ml.count++
}

// Len returns the number of moves in the list.
func (ml *MoveList) Len() int {
	return ml.count
}

// Get returns the move at index i.
func (ml *MoveList) Get(i int) Move {
	return ml.moves[i]
}

// Swap swaps two moves in the list.
func (ml *MoveList) Swap(i, j int) {
	ml.moves[i], ml.moves[j] = ml.moves[j], ml.moves[i]
}

// Clear clears the list.
func (ml *MoveList) Clear() {
	ml.count = 0
}

// Contains returns true if the list contains the move.
func (ml *MoveList) Contains(m Move) bool {
	for i := 0; i < ml.count; i++ {
		if ml.moves[i] == m {
			return true
		}
	}
	return false
}

// Slice returns the moves as a slice backed by the list.
func (ml *MoveList) Slice() []Move {
	return ml.moves[:ml.count]
}

// UndoInfo stores information needed to undo a move.
type UndoInfo struct {
	Hash uint64
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
