package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hailam/fianco/internal/board"
)

func moveNames(ml *board.MoveList) []string {
	out := make([]string, ml.Len())
	for i := 0; i < ml.Len(); i++ {
		out[i] = ml.Get(i).String()
	}
	return out
}

func TestOrderMovesKillersThenHistory(t *testing.T) {
	pos := board.NewPosition()
	moves := pos.GenerateLegalMoves()
	// d4d5 d4e4 d4c4 f4f5 f4g4 f4e4 c3c4 ...

	killers := NewKillerTable(4)
	history := NewHistoryTable()
	mo := NewMoveOrderer(killers, history)

	f4g4 := moves.Get(4)
	c3c4 := moves.Get(6)
	i1i2 := moves.Get(24)

	history.Update(c3c4, 2) // 4
	history.Update(f4g4, 3) // 9
	killers.Store(i1i2, 3)  // killer only at depth 3
	history.Update(i1i2, 1) // 1

	ordered := *moves
	mo.OrderMoves(&ordered, 3)
	names := moveNames(&ordered)
	assert.Equal(t, []string{"i1i2", "f4g4", "c3c4", "d4d5", "d4e4", "d4c4", "f4f5"}, names[:7])

	// At another depth the killer has no priority.
	ordered = *moves
	mo.OrderMoves(&ordered, 2)
	names = moveNames(&ordered)
	assert.Equal(t, []string{"f4g4", "c3c4", "i1i2", "d4d5"}, names[:4])
	assert.Equal(t, moves.Len(), ordered.Len())
}

func TestOrderMovesStableForEqualScores(t *testing.T) {
	pos := board.NewPosition()
	moves := pos.GenerateLegalMoves()
	want := moveNames(moves)

	mo := NewMoveOrderer(NewKillerTable(4), NewHistoryTable())
	mo.OrderMoves(moves, 2)
	assert.Equal(t, want, moveNames(moves))
}

func TestKillerTableStore(t *testing.T) {
	kt := NewKillerTable(3)
	a := board.NewMove(board.NewSquare(8, 0), board.NewSquare(7, 0))
	b := board.NewMove(board.NewSquare(8, 2), board.NewSquare(7, 2))
	c := board.NewMove(board.NewSquare(8, 3), board.NewSquare(7, 3))

	kt.Store(a, 2)
	assert.Equal(t, [2]board.Move{a, board.NoMove}, kt.Killers(2))

	// Repeating the first killer changes nothing.
	kt.Store(a, 2)
	assert.Equal(t, [2]board.Move{a, board.NoMove}, kt.Killers(2))

	// Later distinct moves overwrite the second slot only.
	kt.Store(b, 2)
	assert.Equal(t, [2]board.Move{a, b}, kt.Killers(2))
	kt.Store(c, 2)
	assert.Equal(t, [2]board.Move{a, c}, kt.Killers(2))

	assert.True(t, kt.IsKiller(a, 2))
	assert.False(t, kt.IsKiller(b, 2))
	assert.False(t, kt.IsKiller(a, 1))

	// Out-of-range depths are ignored.
	kt.Store(a, 7)
	assert.False(t, kt.IsKiller(a, 7))

	kt.Reset(3)
	assert.Equal(t, [2]board.Move{}, kt.Killers(2))
}

func TestHistoryTableDepthSquared(t *testing.T) {
	ht := NewHistoryTable()
	m := board.NewMove(board.NewSquare(8, 4), board.NewSquare(7, 4))

	ht.Update(m, 3)
	ht.Update(m, 2)
	assert.Equal(t, 13, ht.Score(m))

	other := board.NewMove(board.NewSquare(8, 5), board.NewSquare(7, 5))
	assert.Equal(t, 0, ht.Score(other))

	ht.Clear()
	assert.Equal(t, 0, ht.Score(m))
}

func TestUpdateCutoff(t *testing.T) {
	killers := NewKillerTable(5)
	history := NewHistoryTable()
	mo := NewMoveOrderer(killers, history)
	m := board.NewMove(board.NewSquare(8, 4), board.NewSquare(7, 4))

	mo.UpdateCutoff(m, 4)
	assert.True(t, killers.IsKiller(m, 4))
	assert.Equal(t, 16, history.Score(m))
}
