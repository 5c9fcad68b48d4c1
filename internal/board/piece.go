package board

// Color represents the color of a piece or player.
type Color uint8

const (
	Black Color = iota
	White
	NoColor Color = 2
)

// Other returns the opposite color.
func (c Color) Other() Color {
	return c ^ 1
}

// String returns the color name.
func (c Color) String() string {
	switch c {
	case White:
		return "White"
	case Black:
		return "Black"
	default:
		return "NoColor"
	}
}

// Char returns the single-letter tag used in board text and move logs.
func (c Color) Char() byte {
	switch c {
	case White:
		return 'W'
	case Black:
		return 'B'
	default:
		return '-'
	}
}

// Forward returns the row direction the color advances in.
// Black advances toward higher rows, White toward lower rows.
func (c Color) Forward() int {
	if c == Black {
		return 1
	}
	return -1
}

// HomeRow returns the row the color starts on.
func (c Color) HomeRow() int {
	if c == Black {
		return 0
	}
	return Size - 1
}

// GoalRow returns the row the color must reach to win (the opponent's home row).
func (c Color) GoalRow() int {
	return c.Other().HomeRow()
}

// Cell is the state of a single square.
type Cell uint8

const (
	Empty Cell = iota
	BlackPiece
	WhitePiece
)

// CellOf returns the cell holding a piece of the given color.
func CellOf(c Color) Cell {
	if c == Black {
		return BlackPiece
	}
	return WhitePiece
}

// Color returns the color occupying the cell, or NoColor if empty.
func (cell Cell) Color() Color {
	switch cell {
	case BlackPiece:
		return Black
	case WhitePiece:
		return White
	default:
		return NoColor
	}
}

// Char returns the character for the cell in board text.
func (cell Cell) Char() byte {
	switch cell {
	case BlackPiece:
		return 'b'
	case WhitePiece:
		return 'w'
	default:
		return '.'
	}
}
