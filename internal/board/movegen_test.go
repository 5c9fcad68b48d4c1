package board

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func moveStrings(ml *MoveList) []string {
	return lo.Map(ml.Slice(), func(m Move, _ int) string { return m.String() })
}

func squareStrings(sqs []Square) []string {
	return lo.Map(sqs, func(sq Square, _ int) string { return sq.String() })
}

func mustParseBoard(t *testing.T, s string) *Position {
	t.Helper()
	pos, err := ParseBoard(s)
	require.NoError(t, err)
	return pos
}

func TestStartingMoves(t *testing.T) {
	pos := NewPosition()
	want := []string{
		"d4d5", "d4e4", "d4c4", "f4f5", "f4g4", "f4e4",
		"c3c4", "c3d3", "c3b3", "g3g4", "g3h3", "g3f3",
		"b2b3", "b2c2", "b2a2", "h2h3", "h2i2", "h2g2",
		"a1a2", "c1c2", "d1d2", "e1e2", "f1f2", "g1g2", "i1i2",
	}
	if diff := cmp.Diff(want, moveStrings(pos.GenerateLegalMoves())); diff != "" {
		t.Errorf("start moves mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerateMovesPerSquare(t *testing.T) {
	pos := NewPosition()

	sq, err := ParseSquare("b8")
	require.NoError(t, err)
	dests, forced := pos.GenerateMoves(sq)
	assert.False(t, forced)
	assert.Equal(t, []string{"b7", "c8", "a8"}, squareStrings(dests))

	sq, err = ParseSquare("e9")
	require.NoError(t, err)
	dests, forced = pos.GenerateMoves(sq)
	assert.False(t, forced)
	assert.Equal(t, []string{"e8"}, squareStrings(dests))
}

func TestMandatoryCapture(t *testing.T) {
	pos := mustParseBoard(t, "b8/9/9/9/4b4/3w1w3/9/9/8w b")

	moves := pos.GenerateLegalMoves()
	assert.Equal(t, []string{"e5g3", "e5c3"}, moveStrings(moves))
	for _, m := range moves.Slice() {
		assert.True(t, m.IsCapture(), "%s should be a capture", m)
	}

	// The piece on a9 has slides of its own but may not use them.
	a9, _ := ParseSquare("a9")
	dests, forced := pos.GenerateMoves(a9)
	assert.False(t, forced)
	assert.NotEmpty(t, dests)

	dests, forced = pos.LegalDestinations(a9)
	assert.True(t, forced)
	assert.Empty(t, dests)

	e5, _ := ParseSquare("e5")
	dests, forced = pos.LegalDestinations(e5)
	assert.True(t, forced)
	assert.Equal(t, []string{"g3", "c3"}, squareStrings(dests))
}

// TestMandatoryCaptureExhaustive places a single Black piece and a single
// White piece on every pair of squares and checks that a legal move list
// never mixes slides with an available capture.
func TestMandatoryCaptureExhaustive(t *testing.T) {
	for b := Square(0); b < NoSquare; b++ {
		for w := Square(0); w < NoSquare; w++ {
			if b == w {
				continue
			}
			for _, stm := range []Color{Black, White} {
				pos := NewEmptyPosition(stm)
				pos.Put(Black, b)
				pos.Put(White, w)

				moves := pos.GenerateLegalMoves()
				hasCapture := pos.HasCapture(stm)
				for _, m := range moves.Slice() {
					if m.IsCapture() != hasCapture {
						t.Fatalf("%s: move %s capture=%v but board capture=%v",
							pos.Text(), m, m.IsCapture(), hasCapture)
					}
				}
				if hasCapture && moves.Len() == 0 {
					t.Fatalf("%s: capture available but no moves", pos.Text())
				}
			}
		}
	}
}

func TestCaptureDirections(t *testing.T) {
	// White captures toward lower rows.
	pos := mustParseBoard(t, "4b4/9/9/9/9/3b5/4w4/9/4w4 w")
	assert.Equal(t, []string{"e3c5"}, moveStrings(pos.GenerateLegalMoves()))

	// No capture when the landing square is occupied.
	pos = mustParseBoard(t, "4b4/9/9/9/2w6/3b5/4w4/9/4w4 w")
	assert.False(t, pos.HasCapture(White))

	// No capture off the edge of the board.
	pos = mustParseBoard(t, "4b4/9/9/9/9/b8/1w7/9/4w4 w")
	assert.False(t, pos.HasCapture(White))

	// Pieces never capture backwards.
	pos = mustParseBoard(t, "4b4/9/9/3w5/2b1b4/9/9/9/4w4 w")
	assert.False(t, pos.HasCapture(White))
	assert.Equal(t, []string{"d6d7", "d6e6", "d6c6", "e1e2", "e1f1", "e1d1"},
		moveStrings(pos.GenerateLegalMoves()))
}

func TestGenerateCaptures(t *testing.T) {
	pos := NewPosition()
	assert.Equal(t, 0, pos.GenerateCaptures().Len())

	pos = mustParseBoard(t, "b8/9/9/9/4b4/3w1w3/9/9/8w b")
	assert.Equal(t, []string{"e5g3", "e5c3"}, moveStrings(pos.GenerateCaptures()))
}

func TestParseLegalMove(t *testing.T) {
	pos := NewPosition()

	m, err := pos.ParseLegalMove("e1e2")
	require.NoError(t, err)
	assert.Equal(t, "e1e2", m.String())

	m, err = pos.ParseLegalMove("d4-d5")
	require.NoError(t, err)
	assert.Equal(t, "d4d5", m.String())

	_, err = pos.ParseLegalMove("e1e3")
	assert.ErrorIs(t, err, ErrIllegalMove)

	_, err = pos.ParseLegalMove("e9e8")
	assert.ErrorIs(t, err, ErrIllegalMove)

	_, err = pos.ParseLegalMove("z1e2")
	assert.ErrorIs(t, err, ErrInvalidSquare)

	_, err = pos.ParseLegalMove("e1")
	assert.ErrorIs(t, err, ErrInvalidMove)
}
