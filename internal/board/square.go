// Package board implements the Fianco board: a 9x9 grid, move generation,
// make/unmake with an incremental Zobrist hash, and the terminal test.
package board

import (
	"fmt"

	"github.com/pkg/errors"
)

// Size is the number of rows and columns on the board.
const Size = 9

// NumSquares is the number of cells on the board.
const NumSquares = Size * Size

// Square represents a cell on the board (0-80).
// Row-major from Black's home row: a9=0, i9=8, a1=72, i1=80.
type Square uint8

// NoSquare marks an invalid or missing square.
const NoSquare Square = NumSquares

// ErrInvalidSquare is returned when a square cannot be parsed.
var ErrInvalidSquare = errors.New("invalid square")

// NewSquare creates a square from row and column (0-indexed).
func NewSquare(row, col int) Square {
	return Square(row*Size + col)
}

// Row returns the row of the square (0 is Black's home row).
func (sq Square) Row() int {
	return int(sq) / Size
}

// Col returns the column of the square (0 is file a).
func (sq Square) Col() int {
	return int(sq) % Size
}

// IsValid returns true if the square is on the board.
func (sq Square) IsValid() bool {
	return sq < NoSquare
}

// Mirror returns the square reflected top-to-bottom.
func (sq Square) Mirror() Square {
	return NewSquare(Size-1-sq.Row(), sq.Col())
}

// Offset returns the square dr rows and dc columns away, or NoSquare if it
// falls off the board.
func (sq Square) Offset(dr, dc int) Square {
	r, c := sq.Row()+dr, sq.Col()+dc
	if r < 0 || r >= Size || c < 0 || c >= Size {
		return NoSquare
	}
	return NewSquare(r, c)
}

// String returns the algebraic notation for the square (e.g., "e5").
func (sq Square) String() string {
	if !sq.IsValid() {
		return "-"
	}
	return fmt.Sprintf("%c%d", 'a'+sq.Col(), Size-sq.Row())
}

// ParseSquare parses algebraic notation (e.g., "a9") into a Square.
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 {
		return NoSquare, errors.Wrapf(ErrInvalidSquare, "%q", s)
	}

	col := int(s[0]) - 'a'
	rank := int(s[1]) - '0'

	if col < 0 || col >= Size || rank < 1 || rank > Size {
		return NoSquare, errors.Wrapf(ErrInvalidSquare, "%q", s)
	}

	return NewSquare(Size-rank, col), nil
}
