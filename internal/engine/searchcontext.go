package engine

// SearchContext owns the state shared by recursive search calls:
// the transposition table, the killer table and the history table.
//
// Lifetimes differ: killers are reset at the start of every move request,
// history accumulates for the life of the context, and the transposition
// table persists until Clear.
type SearchContext struct {
	TT      *TranspositionTable
	Killers *KillerTable
	History *HistoryTable
	orderer *MoveOrderer
}

// NewSearchContext creates a search context with a transposition table of ttSizeMB.
func NewSearchContext(ttSizeMB int) *SearchContext {
	sc := &SearchContext{
		TT:      NewTranspositionTable(ttSizeMB),
		Killers: NewKillerTable(0),
		History: NewHistoryTable(),
	}
	sc.orderer = NewMoveOrderer(sc.Killers, sc.History)
	return sc
}

// NewMoveRequest prepares the context for a new move request.
func (sc *SearchContext) NewMoveRequest(maxDepth int) {
	sc.Killers.Reset(maxDepth)
	sc.TT.NewSearch()
}

// Orderer returns the move orderer bound to this context's tables.
func (sc *SearchContext) Orderer() *MoveOrderer {
	return sc.orderer
}

// Clear resets every table, including history.
func (sc *SearchContext) Clear() {
	sc.TT.Clear()
	sc.Killers.Reset(0)
	sc.History.Clear()
}
