package engine

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hailam/fianco/internal/board"
)

func mustParseBoard(t *testing.T, s string) *board.Position {
	t.Helper()
	pos, err := board.ParseBoard(s)
	require.NoError(t, err)
	return pos
}

func newTestSearcher(ttSizeMB int) (*Searcher, *SearchContext) {
	ctx := NewSearchContext(ttSizeMB)
	ctx.NewMoveRequest(MaxDepth)
	tm := NewTimeManager()
	tm.Init(time.Hour)
	return NewSearcher(ctx, tm), ctx
}

// randomPositions plays random legal moves from the start position and
// collects every non-terminal position reached.
func randomPositions(seed int64, games, plies int) []*board.Position {
	rng := rand.New(rand.NewSource(seed))
	var out []*board.Position

	for g := 0; g < games; g++ {
		pos := board.NewPosition()
		for p := 0; p < plies && !pos.IsTerminal(); p++ {
			moves := pos.GenerateLegalMoves()
			if moves.Len() == 0 {
				break
			}
			pos.MakeMove(moves.Get(rng.Intn(moves.Len())))
			out = append(out, pos.Copy())
		}
	}
	return out
}

func TestEvaluateStartPosition(t *testing.T) {
	pos := board.NewPosition()
	// Equal material; each side's outposts are 1+1+2+2+3+3 rows out.
	assert.Equal(t, 120, Evaluate(pos, board.White))
	assert.Equal(t, 120, Evaluate(pos, board.Black))
}

func TestEvaluateMaterialAndAdvancement(t *testing.T) {
	pos := mustParseBoard(t, "b8/9/9/9/4b4/3w1w3/9/9/8w b")

	// Black: 2 pieces vs 3, pieces advanced 0 and 4 rows.
	assert.Equal(t, -100+40, Evaluate(pos, board.Black))
	// White: 3 vs 2, pieces advanced 3, 3 and 0 rows.
	assert.Equal(t, 100+60, Evaluate(pos, board.White))
}

func TestEvaluateSymmetry(t *testing.T) {
	positions := append(randomPositions(1, 20, 40), board.NewPosition())
	for _, pos := range positions {
		mirror := pos.Mirror()
		require.Equal(t, Evaluate(pos, board.White), Evaluate(mirror, board.Black), pos.Text())
		require.Equal(t, Evaluate(pos, board.Black), Evaluate(mirror, board.White), pos.Text())
	}
}

func TestNegamaxDepthZeroEqualsQuiesce(t *testing.T) {
	windows := [][2]int{{-Infinity, Infinity}, {-50, 50}, {0, 1}, {200, 400}, {-400, -200}}

	// Neither call stores anything, so the tables stay empty throughout.
	s1, _ := newTestSearcher(1)
	s2, _ := newTestSearcher(1)

	for _, pos := range randomPositions(2, 10, 30) {
		for _, w := range windows {
			score, move, ok := s1.Negamax(pos.Copy(), 0, w[0], w[1])
			require.True(t, ok)
			assert.Equal(t, board.NoMove, move)
			assert.Equal(t, s2.Quiesce(pos.Copy(), w[0], w[1]), score, "%s window %v", pos.Text(), w)
		}
	}
}

func TestQuiesceStandPat(t *testing.T) {
	s, _ := newTestSearcher(1)
	pos := board.NewPosition()

	// Stand pat at or above beta fails high with beta.
	assert.Equal(t, 100, s.Quiesce(pos, -Infinity, 100))
	// No captures: the stand-pat score is returned.
	assert.Equal(t, 120, s.Quiesce(pos, -Infinity, Infinity))
	// Fail-hard: alpha is returned when stand pat is below it.
	assert.Equal(t, 500, s.Quiesce(pos, 500, 600))
}

func TestQuiesceResolvesRecapture(t *testing.T) {
	// White must capture; landing on g6 loses the piece to f7xh5.
	pos := mustParseBoard(t, "8b/9/5b3/9/3b1b3/4w4/9/9/w8 w")
	require.Equal(t, 2, pos.GenerateLegalMoves().Len())

	eng := NewEngine(1)
	result := eng.SearchWithLimits(pos, SearchLimits{Depth: 1, MoveTime: time.Hour})
	assert.Equal(t, "e4c6", result.Move.String())
	assert.Equal(t, -160, result.Score)

	// And the mirrored trap on the other wing.
	pos = mustParseBoard(t, "8b/9/3b5/9/3b1b3/4w4/9/9/w8 w")
	for depth := 1; depth <= 4; depth++ {
		eng = NewEngine(16)
		result = eng.SearchWithLimits(pos, SearchLimits{Depth: depth, MoveTime: time.Hour})
		assert.Equal(t, "e4g6", result.Move.String(), "depth %d", depth)
	}
}

func TestIterativeDeepeningScores(t *testing.T) {
	pos := mustParseBoard(t, "8b/9/5b3/9/3b1b3/4w4/9/9/w8 w")
	eng := NewEngine(16)

	var scores []int
	eng.OnInfo = func(info SearchInfo) {
		scores = append(scores, info.Score)
		assert.Equal(t, "e4c6", info.Move.String(), "depth %d", info.Depth)
	}
	eng.SearchWithLimits(pos, SearchLimits{Depth: 4, MoveTime: time.Hour})

	assert.Equal(t, []int{-160, -50, -170, -40}, scores)
}

func TestTranspositionDepthSufficiency(t *testing.T) {
	pos := board.NewPosition()
	s, ctx := newTestSearcher(1)

	// A shallow entry with a sentinel score and no move.
	const sentinel = 12345
	ctx.TT.Store(ttKey(pos), 1, sentinel, board.NoMove)

	// A probe at the stored depth is satisfied without expansion.
	score, move, ok := s.Negamax(pos, 1, -Infinity, Infinity)
	require.True(t, ok)
	assert.Equal(t, sentinel, score)
	assert.Equal(t, board.NoMove, move)
	assert.Equal(t, uint64(1), s.Nodes())

	// A deeper probe must ignore it and expand fully.
	score, move, ok = s.Negamax(pos, 2, -Infinity, Infinity)
	require.True(t, ok)
	assert.NotEqual(t, sentinel, score)
	assert.True(t, pos.IsLegal(move), "move %s", move)
	assert.Greater(t, s.Nodes(), uint64(2))

	entry, found := ctx.TT.Probe(ttKey(pos))
	require.True(t, found)
	assert.Equal(t, int8(2), entry.Depth)
	assert.Equal(t, move, entry.BestMove)
}

func TestNegamaxNoLegalMoves(t *testing.T) {
	// Black's only piece is hemmed in on three sides with nothing to jump.
	pos := mustParseBoard(t, "9/9/9/9/3wbw3/4w4/9/9/9 b")
	require.Equal(t, 0, pos.GenerateLegalMoves().Len())

	s, ctx := newTestSearcher(1)
	score, move, ok := s.Negamax(pos, 3, -Infinity, Infinity)
	require.True(t, ok)
	assert.Equal(t, board.NoMove, move)
	assert.Equal(t, Evaluate(pos, board.Black), score)

	entry, found := ctx.TT.Probe(ttKey(pos))
	require.True(t, found)
	assert.Equal(t, int8(3), entry.Depth)
	assert.Equal(t, int16(score), entry.Score)
}

func TestNegamaxAbortPropagates(t *testing.T) {
	ctx := NewSearchContext(1)
	ctx.NewMoveRequest(4)
	tm := NewTimeManager()
	tm.Init(-time.Second)
	s := NewSearcher(ctx, tm)

	pos := board.NewPosition()
	_, move, ok := s.Negamax(pos, 4, -Infinity, Infinity)
	assert.False(t, ok)
	assert.Equal(t, board.NoMove, move)
	assert.Equal(t, board.NewPosition().Cells, pos.Cells)

	_, found := ctx.TT.Probe(ttKey(pos))
	assert.False(t, found, "aborted search must not store results")
}

func TestSearchLeavesPositionUntouched(t *testing.T) {
	pos := board.NewPosition()
	before := *pos

	s, _ := newTestSearcher(1)
	_, _, ok := s.Negamax(pos, 3, -Infinity, Infinity)
	require.True(t, ok)
	assert.Equal(t, before, *pos)
}

func TestHistoryPersistsKillersReset(t *testing.T) {
	eng := NewEngine(1)
	pos := board.NewPosition()
	ctx := eng.Context()

	eng.SearchWithLimits(pos, SearchLimits{Depth: 4, MoveTime: time.Hour})

	total := func() int {
		sum := 0
		for from := board.Square(0); from < board.NoSquare; from++ {
			for to := board.Square(0); to < board.NoSquare; to++ {
				sum += ctx.History.Score(board.NewMove(from, to))
			}
		}
		return sum
	}
	afterFirst := total()
	assert.Greater(t, afterFirst, 0)

	// A new request clears killers but keeps history.
	ctx.NewMoveRequest(4)
	for depth := 0; depth <= 4; depth++ {
		assert.Equal(t, [2]board.Move{}, ctx.Killers.Killers(depth))
	}
	assert.Equal(t, afterFirst, total())

	eng.Clear()
	assert.Equal(t, 0, total())
}
