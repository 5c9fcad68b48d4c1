package engine

import (
	"github.com/hailam/fianco/internal/board"
)

// Search constants
const (
	Infinity = 30000
	MaxDepth = 64
)

// Searcher performs the negamax alpha-beta search for one move request.
// All scores are from the perspective of the side to move at the node.
type Searcher struct {
	ctx   *SearchContext
	tm    *TimeManager
	nodes uint64
}

// NewSearcher creates a searcher over the given context and clock.
func NewSearcher(ctx *SearchContext, tm *TimeManager) *Searcher {
	return &Searcher{ctx: ctx, tm: tm}
}

// Nodes returns the number of nodes searched.
func (s *Searcher) Nodes() uint64 {
	return s.nodes
}

// Negamax searches pos to the given depth within (alpha, beta).
// It returns ok=false if the time budget ran out anywhere below this node;
// the score and move are then meaningless and must not be used.
func (s *Searcher) Negamax(pos *board.Position, depth, alpha, beta int) (int, board.Move, bool) {
	if s.tm.ShouldStop() {
		return 0, board.NoMove, false
	}
	s.nodes++

	tt := s.ctx.TT
	key := ttKey(pos)
	if entry, found := tt.Probe(key); found && int(entry.Depth) >= depth {
		return int(entry.Score), entry.BestMove, true
	}

	if depth == 0 {
		return s.Quiesce(pos, alpha, beta), board.NoMove, true
	}

	moves := pos.GenerateLegalMoves()
	if moves.Len() == 0 {
		// No legal moves: scored statically, not as a loss.
		score := Evaluate(pos, pos.SideToMove)
		tt.Store(key, depth, score, board.NoMove)
		return score, board.NoMove, true
	}

	orderer := s.ctx.Orderer()
	orderer.OrderMoves(moves, depth)

	bestScore := -Infinity
	bestMove := board.NoMove

	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)

		undo := pos.MakeMove(m)
		score, _, ok := s.Negamax(pos, depth-1, -beta, -alpha)
		pos.UnmakeMove(m, undo)

		if !ok {
			return 0, board.NoMove, false
		}
		score = -score

		if bestMove == board.NoMove || score > bestScore {
			bestScore = score
			bestMove = m
		}

		if score > alpha {
			alpha = score
		}
		if alpha >= beta {
			orderer.UpdateCutoff(m, depth)
			break
		}
	}

	tt.Store(key, depth, bestScore, bestMove)
	return bestScore, bestMove, true
}

// Quiesce extends the search past the horizon along capture sequences only.
// It has no depth limit: every capture removes a piece, so it terminates.
// Fail-hard: the result is clamped to [alpha, beta].
func (s *Searcher) Quiesce(pos *board.Position, alpha, beta int) int {
	s.nodes++

	standPat := Evaluate(pos, pos.SideToMove)
	if standPat >= beta {
		return beta
	}
	if standPat > alpha {
		alpha = standPat
	}

	captures := pos.GenerateCaptures()
	for i := 0; i < captures.Len(); i++ {
		m := captures.Get(i)

		undo := pos.MakeMove(m)
		score := -s.Quiesce(pos, -beta, -alpha)
		pos.UnmakeMove(m, undo)

		if score >= beta {
			return beta
		}
		if score > alpha {
			alpha = score
		}
	}

	return alpha
}
