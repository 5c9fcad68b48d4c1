package engine

import "github.com/hailam/fianco/internal/board"

// Evaluation weights
const (
	MaterialWeight = 100 // Per piece of material difference
	AdvanceWeight  = 10  // Per row advanced from the home row
)

// Evaluate returns the static evaluation of a position from side's perspective.
// Material difference plus how far side's own pieces have advanced.
// Strength comes from search depth, not from this function.
func Evaluate(pos *board.Position, side board.Color) int {
	them := side.Other()
	score := (pos.Count[side] - pos.Count[them]) * MaterialWeight

	own := board.CellOf(side)
	home := side.HomeRow()
	for sq := board.Square(0); sq < board.NoSquare; sq++ {
		if pos.Cells[sq] == own {
			score += abs(sq.Row()-home) * AdvanceWeight
		}
	}

	return score
}
