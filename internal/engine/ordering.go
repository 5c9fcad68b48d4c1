package engine

import (
	"math"

	"github.com/hailam/fianco/internal/board"
)

// KillerScore ranks killer moves above every history score.
const KillerScore = math.MaxInt

// KillerTable holds up to two moves per remaining depth that caused a beta cutoff.
type KillerTable struct {
	killers [][2]board.Move
}

// NewKillerTable creates a killer table for depths 0..maxDepth.
func NewKillerTable(maxDepth int) *KillerTable {
	kt := &KillerTable{}
	kt.Reset(maxDepth)
	return kt
}

// Reset clears all killers and resizes the table for depths 0..maxDepth.
func (kt *KillerTable) Reset(maxDepth int) {
	if maxDepth < 0 {
		maxDepth = 0
	}
	kt.killers = make([][2]board.Move, maxDepth+1)
}

// Store records a cutoff move at the given depth.
// The first slot is filled once; later distinct moves overwrite the second.
func (kt *KillerTable) Store(m board.Move, depth int) {
	if depth < 0 || depth >= len(kt.killers) {
		return
	}

	slot := &kt.killers[depth]
	if slot[0] == board.NoMove {
		slot[0] = m
	} else if slot[0] != m {
		slot[1] = m
	}
}

// IsKiller returns true if m is a killer move at the given depth.
func (kt *KillerTable) IsKiller(m board.Move, depth int) bool {
	if m == board.NoMove || depth < 0 || depth >= len(kt.killers) {
		return false
	}
	slot := kt.killers[depth]
	return slot[0] == m || slot[1] == m
}

// Killers returns the killer moves stored at the given depth.
func (kt *KillerTable) Killers(depth int) [2]board.Move {
	if depth < 0 || depth >= len(kt.killers) {
		return [2]board.Move{}
	}
	return kt.killers[depth]
}

// HistoryTable accumulates depth² for every move that caused a beta cutoff
// (indexed by [from][to]). It is never aged.
type HistoryTable struct {
	history [board.NumSquares][board.NumSquares]int
}

// NewHistoryTable creates an empty history table.
func NewHistoryTable() *HistoryTable {
	return &HistoryTable{}
}

// Update adds depth² to the move's weight.
func (ht *HistoryTable) Update(m board.Move, depth int) {
	ht.history[m.From()][m.To()] += depth * depth
}

// Score returns the accumulated weight of a move.
func (ht *HistoryTable) Score(m board.Move) int {
	return ht.history[m.From()][m.To()]
}

// Clear resets all weights.
func (ht *HistoryTable) Clear() {
	ht.history = [board.NumSquares][board.NumSquares]int{}
}

// MoveOrderer handles move ordering for the search.
type MoveOrderer struct {
	killers *KillerTable
	history *HistoryTable
}

// NewMoveOrderer creates a move orderer over the given tables.
func NewMoveOrderer(killers *KillerTable, history *HistoryTable) *MoveOrderer {
	return &MoveOrderer{killers: killers, history: history}
}

// scoreMove returns the ordering score for a single move.
func (mo *MoveOrderer) scoreMove(m board.Move, depth int) int {
	if mo.killers.IsKiller(m, depth) {
		return KillerScore
	}
	return mo.history.Score(m)
}

// ScoreMoves assigns scores to moves for ordering.
func (mo *MoveOrderer) ScoreMoves(moves *board.MoveList, depth int) []int {
	scores := make([]int, moves.Len())
	for i := 0; i < moves.Len(); i++ {
		scores[i] = mo.scoreMove(moves.Get(i), depth)
	}
	return scores
}

// OrderMoves sorts moves best-first: killers at this depth, then by history weight.
func (mo *MoveOrderer) OrderMoves(moves *board.MoveList, depth int) {
	SortMoves(moves, mo.ScoreMoves(moves, depth))
}

// UpdateCutoff records a move that caused a beta cutoff at the given depth.
func (mo *MoveOrderer) UpdateCutoff(m board.Move, depth int) {
	mo.history.Update(m, depth)
	mo.killers.Store(m, depth)
}

// SortMoves sorts moves by their scores (descending).
// Insertion sort keeps equal-scored moves in generation order.
func SortMoves(moves *board.MoveList, scores []int) {
	for i := 1; i < moves.Len(); i++ {
		for j := i; j > 0 && scores[j] > scores[j-1]; j-- {
			moves.Swap(j, j-1)
			scores[j], scores[j-1] = scores[j-1], scores[j]
		}
	}
}
