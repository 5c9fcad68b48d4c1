package engine

import (
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hailam/fianco/internal/board"
)

// SearchInfo contains information about a completed search depth.
type SearchInfo struct {
	Depth    int
	Score    int
	Nodes    uint64
	Time     time.Duration
	Move     board.Move
	HashFull int // Permille of hash table used
}

// SearchLimits specifies constraints on a move request.
type SearchLimits struct {
	Depth    int           // Maximum depth
	MoveTime time.Duration // Soft wall-clock budget

	// Stop, when set, aborts this search once it becomes true. The caller
	// owns it, so it may be set before the search has started.
	Stop *atomic.Bool
}

// SearchResult is the outcome of a move request.
type SearchResult struct {
	Move  board.Move // NoMove if no depth completed
	Score int        // Score of Move at Depth
	Depth int        // Deepest fully completed depth, 0 if none
	Nodes uint64
	Time  time.Duration
}

// Difficulty represents the AI difficulty level.
type Difficulty int

const (
	Easy   Difficulty = iota // 3 ply, 500ms
	Medium                   // 5 ply, 2s
	Hard                     // 7 ply, 5s
	Expert                   // 11 ply, 10s
)

// DifficultySettings maps difficulty to search limits.
var DifficultySettings = map[Difficulty]SearchLimits{
	Easy:   {Depth: 3, MoveTime: 500 * time.Millisecond},
	Medium: {Depth: 5, MoveTime: 2 * time.Second},
	Hard:   {Depth: 7, MoveTime: 5 * time.Second},
	Expert: {Depth: 11, MoveTime: 10 * time.Second},
}

// String returns the difficulty name.
func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "easy"
	case Medium:
		return "medium"
	case Hard:
		return "hard"
	case Expert:
		return "expert"
	default:
		return "unknown"
	}
}

// ParseDifficulty parses a difficulty name.
func ParseDifficulty(s string) (Difficulty, bool) {
	for d := Easy; d <= Expert; d++ {
		if d.String() == s {
			return d, true
		}
	}
	return Medium, false
}

// Engine is the Fianco AI engine.
// An Engine is not safe for concurrent searches; Stop may be called from
// another goroutine while a search runs.
type Engine struct {
	ctx        *SearchContext
	stopFlag   atomic.Bool
	difficulty Difficulty

	// Callbacks
	OnInfo func(SearchInfo)
}

// NewEngine creates a new engine with the given transposition table size in MB.
func NewEngine(ttSizeMB int) *Engine {
	return &Engine{
		ctx:        NewSearchContext(ttSizeMB),
		difficulty: Medium,
	}
}

// Context returns the engine's search context.
func (e *Engine) Context() *SearchContext {
	return e.ctx
}

// SetDifficulty sets the engine difficulty.
func (e *Engine) SetDifficulty(d Difficulty) {
	e.difficulty = d
}

// Difficulty returns the engine difficulty.
func (e *Engine) Difficulty() Difficulty {
	return e.difficulty
}

// ChooseMove returns the engine's move for side on pos, searching at most
// maxDepth plies within timeLimit. It returns NoMove if no depth completed.
func (e *Engine) ChooseMove(pos *board.Position, side board.Color, maxDepth int, timeLimit time.Duration) board.Move {
	p := pos.Copy()
	p.SideToMove = side
	return e.SearchWithLimits(p, SearchLimits{Depth: maxDepth, MoveTime: timeLimit}).Move
}

// SearchWithLimits runs iterative deepening from depth 1 up to limits.Depth.
// Each completed depth replaces the previous best move; an aborted depth is
// discarded and the last completed one is returned.
func (e *Engine) SearchWithLimits(pos *board.Position, limits SearchLimits) SearchResult {
	// A Stop only ever applies to the search it interrupted.
	e.stopFlag.Store(false)
	defer e.stopFlag.Store(false)

	maxDepth := limits.Depth
	if maxDepth > MaxDepth {
		maxDepth = MaxDepth
	}

	tm := NewTimeManager(&e.stopFlag, limits.Stop)
	tm.Init(limits.MoveTime)

	e.ctx.NewMoveRequest(maxDepth)
	searcher := NewSearcher(e.ctx, tm)

	// Search on a private copy; the caller's position is never touched.
	root := pos.Copy()

	var result SearchResult
	for depth := 1; depth <= maxDepth; depth++ {
		log.Debug().Int("depth", depth).Msg("deepening-iteratively")

		score, move, ok := searcher.Negamax(root, depth, -Infinity, Infinity)
		if !ok {
			log.Info().
				Int("depth", depth).
				Str("best", result.Move.String()).
				Dur("elapsed", tm.Elapsed()).
				Msg("time-limit-exceeded")
			break
		}

		result.Move = move
		result.Score = score
		result.Depth = depth

		log.Debug().
			Int("depth", depth).
			Str("move", move.String()).
			Int("score", score).
			Uint64("nodes", searcher.Nodes()).
			Msg("depth-complete")

		if e.OnInfo != nil {
			e.OnInfo(SearchInfo{
				Depth:    depth,
				Score:    score,
				Nodes:    searcher.Nodes(),
				Time:     tm.Elapsed(),
				Move:     move,
				HashFull: e.ctx.TT.HashFull(),
			})
		}
	}

	result.Nodes = searcher.Nodes()
	result.Time = tm.Elapsed()
	return result
}

// Stop stops the running search. It has no effect on later searches; callers
// that may stop a search before it starts use SearchLimits.Stop instead.
func (e *Engine) Stop() {
	e.stopFlag.Store(true)
}

// Clear clears the transposition table and the ordering tables.
func (e *Engine) Clear() {
	e.ctx.Clear()
}

// Perft performs a perft test (for debugging move generation).
func (e *Engine) Perft(pos *board.Position, depth int) uint64 {
	if depth == 0 {
		return 1
	}

	moves := pos.GenerateLegalMoves()
	if depth == 1 {
		return uint64(moves.Len())
	}

	var nodes uint64
	for i := 0; i < moves.Len(); i++ {
		move := moves.Get(i)
		undo := pos.MakeMove(move)
		nodes += e.Perft(pos, depth-1)
		pos.UnmakeMove(move, undo)
	}

	return nodes
}

// Evaluate returns the static evaluation of a position for the side to move.
func (e *Engine) Evaluate(pos *board.Position) int {
	return Evaluate(pos, pos.SideToMove)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
