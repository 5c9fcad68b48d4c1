package board

import "github.com/pkg/errors"

// Slide directions (row, col) relative to the mover's forward direction:
// forward, right, left.
var slideDirs = [3][2]int{{1, 0}, {0, 1}, {0, -1}}

// Jump directions relative to forward: forward-right, forward-left.
var jumpDirs = [2][2]int{{1, 1}, {1, -1}}

// generatePieceMoves appends the slides and captures available to the piece on sq.
func (p *Position) generatePieceMoves(sq Square, quiet, captures *MoveList) {
	us := p.Cells[sq].Color()
	if us == NoColor {
		return
	}
	them := CellOf(us.Other())
	fwd := us.Forward()

	if quiet != nil {
		for _, d := range slideDirs {
			to := sq.Offset(d[0]*fwd, d[1])
			if to != NoSquare && p.IsEmpty(to) {
				quiet.Add(NewMove(sq, to))
			}
		}
	}

	for _, d := range jumpDirs {
		mid := sq.Offset(d[0]*fwd, d[1])
		to := sq.Offset(2*d[0]*fwd, 2*d[1])
		if to == NoSquare || mid == NoSquare {
			continue
		}
		if p.Cells[mid] == them && p.IsEmpty(to) {
			captures.Add(NewMove(sq, to))
		}
	}
}

// GenerateMoves returns the destinations for the piece on sq considered on
// its own: its captures if it has any (forced=true), otherwise its slides.
// Mandatory capture elsewhere on the board is not applied here; see
// LegalDestinations.
func (p *Position) GenerateMoves(sq Square) ([]Square, bool) {
	var quiet, captures MoveList
	p.generatePieceMoves(sq, &quiet, &captures)

	if captures.Len() > 0 {
		return destinations(&captures), true
	}
	return destinations(&quiet), false
}

// LegalDestinations returns the legal destinations for the piece on sq with
// the board-wide mandatory capture rule applied, and whether captures are
// currently mandatory for the side to move.
func (p *Position) LegalDestinations(sq Square) ([]Square, bool) {
	forced := p.HasCapture(p.SideToMove)
	if p.ColorAt(sq) != p.SideToMove {
		return nil, forced
	}

	dests, pieceForced := p.GenerateMoves(sq)
	if forced && !pieceForced {
		return nil, true
	}
	return dests, forced
}

func destinations(ml *MoveList) []Square {
	out := make([]Square, ml.Len())
	for i := 0; i < ml.Len(); i++ {
		out[i] = ml.Get(i).To()
	}
	return out
}

// GenerateLegalMoves generates all legal moves for the side to move.
// If any capture exists anywhere on the board, only captures are returned.
// Moves are ordered row-major by origin, then by direction.
func (p *Position) GenerateLegalMoves() *MoveList {
	var quiet, captures MoveList
	us := CellOf(p.SideToMove)

	for sq := Square(0); sq < NoSquare; sq++ {
		if p.Cells[sq] == us {
			p.generatePieceMoves(sq, &quiet, &captures)
		}
	}

	if captures.Len() > 0 {
		return &captures
	}
	return &quiet
}

// GenerateCaptures generates only the capture moves for the side to move.
func (p *Position) GenerateCaptures() *MoveList {
	var captures MoveList
	us := CellOf(p.SideToMove)

	for sq := Square(0); sq < NoSquare; sq++ {
		if p.Cells[sq] == us {
			p.generatePieceMoves(sq, nil, &captures)
		}
	}
	return &captures
}

// HasCapture returns true if color c has any capture available.
func (p *Position) HasCapture(c Color) bool {
	var captures MoveList
	cell := CellOf(c)

	for sq := Square(0); sq < NoSquare; sq++ {
		if p.Cells[sq] == cell {
			p.generatePieceMoves(sq, nil, &captures)
			if captures.Len() > 0 {
				return true
			}
		}
	}
	return false
}

// IsLegal returns true if m is legal for the side to move.
func (p *Position) IsLegal(m Move) bool {
	return p.GenerateLegalMoves().Contains(m)
}

// ParseLegalMove parses a coordinate move and verifies it is legal.
func (p *Position) ParseLegalMove(s string) (Move, error) {
	m, err := ParseMove(s)
	if err != nil {
		return NoMove, err
	}
	if !p.IsLegal(m) {
		return NoMove, errors.Wrapf(ErrIllegalMove, "%s for %s", m, p.SideToMove)
	}
	return m, nil
}
