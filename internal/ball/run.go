package ball

import "github.com/vovakirdan/ricochet/internal/core"

// State is one entry of a run's visit history.
type State struct {
	Pos         core.Coord
	Dir         core.Dir
	Fingerprint uint64
}

// Reservation holds a run in portal transit until the due phase.
type Reservation struct {
	Exit core.Coord
	Due  uint64
}

// Run is the live travel state of one ball.
type Run struct {
	Ball     *Ball
	Pos      core.Coord
	Dir      core.Dir
	Reserved *Reservation
	Cause    Cause
	Age      int
	Family   int // Shared by runs split from the same launch

	history map[State]int
}

// NewRun creates an active run for b at pos heading dir.
func NewRun(b *Ball, pos core.Coord, dir core.Dir, family int) *Run {
	return &Run{
		Ball:    b,
		Pos:     pos,
		Dir:     dir,
		Family:  family,
		history: make(map[State]int),
	}
}

// Active reports whether the run has not ended.
func (r *Run) Active() bool {
	return r.Cause == CauseNone
}

// InTransit reports whether the run is waiting on a portal reservation.
func (r *Run) InTransit() bool {
	return r.Reserved != nil
}

// End terminates the run. Ending an already ended run keeps the first cause.
func (r *Run) End(cause Cause) {
	if r.Cause == CauseNone {
		r.Cause = cause
		r.Reserved = nil
	}
}

// Visit records s and returns how many times it has been seen, including
// this visit.
func (r *Run) Visit(s State) int {
	r.history[s]++
	return r.history[s]
}

// Visits returns how many times s has been recorded.
func (r *Run) Visits(s State) int {
	return r.history[s]
}

// HistoryLen returns the number of distinct states recorded.
func (r *Run) HistoryLen() int {
	return len(r.history)
}

// Branch creates a new run for child at the parent's tile heading dir. The
// child inherits a copy of the parent's history.
func (r *Run) Branch(child *Ball, dir core.Dir) *Run {
	next := NewRun(child, r.Pos, dir, r.Family)
	for s, n := range r.history {
		next.history[s] = n
	}
	return next
}

// ClearHistory drops every recorded state.
func (r *Run) ClearHistory() {
	clear(r.history)
}
