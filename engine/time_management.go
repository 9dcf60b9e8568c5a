package engine

import (
	"context"
	"sync/atomic"
	"time"
)

// Share of the remaining clock spent on one move when no movetime is given.
const movesToGo = 30

// Limits bounds a single search. A zero Budget means no time limit and a
// zero MaxDepth falls back to Options.MaxDepth.
type Limits struct {
	Budget   time.Duration
	MaxDepth int
}

// ClockBudget turns "go" parameters (milliseconds) into a search budget.
// movetime wins over the clocks; infinite or missing clocks are unbounded.
func ClockBudget(wtime, btime, movetime int, infinite, whiteToMove bool) time.Duration {
	if infinite {
		return 0
	}
	if movetime > 0 {
		return time.Duration(movetime) * time.Millisecond
	}
	remaining := btime
	if whiteToMove {
		remaining = wtime
	}
	if remaining <= 0 {
		return 0
	}
	return time.Duration(remaining/movesToGo) * time.Millisecond
}

// TimeHandler owns the stop flag shared between the search goroutine and
// whoever wants it to finish early.
type TimeHandler struct {
	start    time.Time
	deadline time.Time
	budget   time.Duration
	stop     atomic.Bool
}

// StartTime arms the handler for a new search and clears any stale stop.
func (th *TimeHandler) StartTime(budget time.Duration) {
	th.start = time.Now()
	th.budget = budget
	if budget > 0 {
		th.deadline = th.start.Add(budget)
	} else {
		th.deadline = time.Time{}
	}
	th.stop.Store(false)
}

// Watch sets the stop flag when ctx is done. The returned func must be
// called once the search returns.
func (th *TimeHandler) Watch(ctx context.Context) (release func()) {
	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			th.RequestStop()
		case <-done:
		}
	}()
	return func() { close(done) }
}

func (th *TimeHandler) RequestStop() {
	th.stop.Store(true)
}

func (th *TimeHandler) Stopped() bool {
	return th.stop.Load()
}

/*
- True once a stop was requested or the budget ran out
- False for unbounded searches until someone calls RequestStop
*/
func (th *TimeHandler) TimeStatus() bool {
	if th.stop.Load() {
		return true
	}
	if th.budget > 0 && time.Now().After(th.deadline) {
		th.stop.Store(true)
		return true
	}
	return false
}

func (th *TimeHandler) Elapsed() time.Duration {
	return time.Since(th.start)
}

// Remaining is the time left in the budget, or -1 when unbounded.
func (th *TimeHandler) Remaining() time.Duration {
	if th.budget <= 0 {
		return -1
	}
	return Max(time.Until(th.deadline), 0)
}
