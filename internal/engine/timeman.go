package engine

import (
	"sync/atomic"
	"time"

	"github.com/samber/lo"
)

// TimeManager tracks the wall-clock budget of a single move request.
// The budget is soft: it is polled once per search node.
type TimeManager struct {
	startTime time.Time      // When the move request started
	limit     time.Duration  // Budget for this move request
	stops     []*atomic.Bool // External stop requests
}

// NewTimeManager creates a new time manager watching the given stop flags.
// Nil flags are ignored.
func NewTimeManager(stops ...*atomic.Bool) *TimeManager {
	return &TimeManager{
		stops: lo.Filter(stops, func(stop *atomic.Bool, _ int) bool { return stop != nil }),
	}
}

// Init starts the clock for a new move request.
func (tm *TimeManager) Init(limit time.Duration) {
	tm.startTime = time.Now()
	tm.limit = limit
}

// Elapsed returns the time elapsed since the move request started.
func (tm *TimeManager) Elapsed() time.Duration {
	return time.Since(tm.startTime)
}

// Limit returns the budget for this move request.
func (tm *TimeManager) Limit() time.Duration {
	return tm.limit
}

// ShouldStop returns true once the budget is exceeded or a stop was requested.
func (tm *TimeManager) ShouldStop() bool {
	for _, stop := range tm.stops {
		if stop.Load() {
			return true
		}
	}
	return tm.Elapsed() > tm.limit
}
