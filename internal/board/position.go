package board

import "strings"

// MaxPieces is the number of pieces each side starts with. No reachable
// position holds more, and MaxMoves relies on it.
const MaxPieces = 15

// Position represents a complete Fianco position.
type Position struct {
	// Cell state per square
	Cells [NumSquares]Cell

	// Piece counts per color (cached for evaluation and terminal test)
	Count [2]int

	// Side to move
	SideToMove Color

	// Zobrist hash of the piece placement (side to move is not included)
	Hash uint64
}

// NewPosition creates the starting position with White to move.
func NewPosition() *Position {
	pos, _ := ParseBoard(StartBoard)
	return pos
}

// NewEmptyPosition creates an empty board with the given side to move.
func NewEmptyPosition(stm Color) *Position {
	return &Position{SideToMove: stm}
}

// Copy creates a deep copy of the position.
func (p *Position) Copy() *Position {
	newPos := *p
	return &newPos
}

// PieceAt returns the cell state of the given square.
func (p *Position) PieceAt(sq Square) Cell {
	return p.Cells[sq]
}

// ColorAt returns the color of the piece on sq, or NoColor if empty.
func (p *Position) ColorAt(sq Square) Color {
	return p.Cells[sq].Color()
}

// IsEmpty returns true if the square is empty.
func (p *Position) IsEmpty(sq Square) bool {
	return p.Cells[sq] == Empty
}

// Put places a piece of color c on an empty square, keeping counts and hash in sync.
// Used for position setup; the search only uses MakeMove/UnmakeMove.
func (p *Position) Put(c Color, sq Square) {
	if p.Cells[sq] != Empty {
		p.Remove(sq)
	}
	p.Cells[sq] = CellOf(c)
	p.Count[c]++
	p.Hash ^= zobristPiece[c][sq]
}

// Remove clears a square, keeping counts and hash in sync.
func (p *Position) Remove(sq Square) {
	c := p.Cells[sq].Color()
	if c == NoColor {
		return
	}
	p.Cells[sq] = Empty
	p.Count[c]--
	p.Hash ^= zobristPiece[c][sq]
}

// MakeMove applies a move and returns the information needed to undo it.
// The moving color is taken from the origin square. On a capture the bridged
// piece is removed and its key toggled out of the hash as well.
func (p *Position) MakeMove(m Move) UndoInfo {
	undo := UndoInfo{Hash: p.Hash}

	from, to := m.From(), m.To()
	us := p.Cells[from].Color()

	p.Cells[to] = p.Cells[from]
	p.Cells[from] = Empty
	p.Hash ^= zobristPiece[us][from] ^ zobristPiece[us][to]

	if m.IsCapture() {
		mid := m.Captured()
		them := p.Cells[mid].Color()
		if them != NoColor {
			p.Cells[mid] = Empty
			p.Count[them]--
			p.Hash ^= zobristPiece[them][mid]
		}
	}

	p.SideToMove = us.Other()
	return undo
}

// UnmakeMove reverts a move made with MakeMove.
func (p *Position) UnmakeMove(m Move, undo UndoInfo) {
	from, to := m.From(), m.To()
	us := p.Cells[to].Color()

	p.Cells[from] = p.Cells[to]
	p.Cells[to] = Empty

	if m.IsCapture() {
		them := us.Other()
		p.Cells[m.Captured()] = CellOf(them)
		p.Count[them]++
	}

	p.SideToMove = us
	p.Hash = undo.Hash
}

// Winner returns the winning color, or NoColor if the game is not over.
// Elimination is checked before home-row arrival.
func (p *Position) Winner() Color {
	if p.Count[Black] == 0 {
		return White
	}
	if p.Count[White] == 0 {
		return Black
	}
	if p.occupiesRow(Black, Black.GoalRow()) {
		return Black
	}
	if p.occupiesRow(White, White.GoalRow()) {
		return White
	}
	return NoColor
}

// IsTerminal returns true if either side has won.
func (p *Position) IsTerminal() bool {
	return p.Winner() != NoColor
}

func (p *Position) occupiesRow(c Color, row int) bool {
	cell := CellOf(c)
	for col := 0; col < Size; col++ {
		if p.Cells[NewSquare(row, col)] == cell {
			return true
		}
	}
	return false
}

// Mirror returns the position reflected top-to-bottom with colors swapped.
// The evaluation of the mirror for one side equals the unmirrored position's for the other.
func (p *Position) Mirror() *Position {
	m := NewEmptyPosition(p.SideToMove.Other())
	for sq := Square(0); sq < NoSquare; sq++ {
		if c := p.Cells[sq].Color(); c != NoColor {
			m.Put(c.Other(), sq.Mirror())
		}
	}
	return m
}

// ComputeHash recomputes the Zobrist hash from scratch.
func (p *Position) ComputeHash() uint64 {
	var h uint64
	for sq := Square(0); sq < NoSquare; sq++ {
		if c := p.Cells[sq].Color(); c != NoColor {
			h ^= zobristPiece[c][sq]
		}
	}
	return h
}

// String returns a visual representation of the position.
func (p *Position) String() string {
	var sb strings.Builder

	sb.WriteString("   +-------------------+\n")
	for row := 0; row < Size; row++ {
		sb.WriteByte(byte('0' + Size - row))
		sb.WriteString("  | ")
		for col := 0; col < Size; col++ {
			sb.WriteByte(p.Cells[NewSquare(row, col)].Char())
			sb.WriteByte(' ')
		}
		sb.WriteString("|\n")
	}
	sb.WriteString("   +-------------------+\n")
	sb.WriteString("     a b c d e f g h i\n\n")

	sb.WriteString("Board: " + p.Text() + "\n")
	sb.WriteString("Side to move: " + p.SideToMove.String() + "\n")
	return sb.String()
}
