// Package engine advances ball runs over a grid one phase at a time.
//
// Each phase every active run moves one tile. Arrivals are reported to an
// ArrivalHook supplied by the caller, which decides whether the ball is
// captured. Reflection, portal transit, splitting, collisions and loop
// termination are handled here.
package engine

import (
	"slices"

	"github.com/vovakirdan/ricochet/internal/ball"
	"github.com/vovakirdan/ricochet/internal/core"
	"github.com/vovakirdan/ricochet/internal/grid"
)

// Outcome is what an arrival hook decides for a ball.
type Outcome int

const (
	Pass Outcome = iota
	Capture
)

// ArrivalHook is called once for every run that arrives on a tile. Runs
// created by a split this phase do not arrive on their split tile. The hook
// may change r.Ball.Power.
type ArrivalHook interface {
	Arrive(r *ball.Run, t *grid.Tile) Outcome
}

// HookFunc adapts a function to ArrivalHook.
type HookFunc func(r *ball.Run, t *grid.Tile) Outcome

// Arrive calls f.
func (f HookFunc) Arrive(r *ball.Run, t *grid.Tile) Outcome {
	return f(r, t)
}

// PortalDelay is the number of phases a run spends between entering a
// portal and leaving the linked one.
const PortalDelay = 2

// LoopThreshold is how many times a run may see the same state before it is
// ended. A state seen more often than this ends the run.
const LoopThreshold = 2

// Move records one run advancing a tile.
type Move struct {
	Ball   ball.ID       `json:"ball"`
	Owner  core.PlayerID `json:"owner"`
	From   core.Coord    `json:"from"`
	To     core.Coord    `json:"to"`
	Dir    core.Dir      `json:"dir"`
	Speed  float64       `json:"speed"`
	Portal bool          `json:"portal,omitempty"` // Moved out of a portal exit
}

// Ended records a run that terminated this phase.
type Ended struct {
	Ball  ball.ID       `json:"ball"`
	Owner core.PlayerID `json:"owner"`
	Pos   core.Coord    `json:"pos"`
	Cause ball.Cause    `json:"cause"`
}

// StepResult contains what happened during one phase.
type StepResult struct {
	Phase   uint64
	Moves   []Move
	Created []*ball.Run
	Ended   []Ended
}

// Engine owns the active runs of a match. It is not safe for concurrent use.
type Engine struct {
	grid       *grid.Grid
	hook       ArrivalHook
	runs       []*ball.Run
	phase      uint64
	nextBall   ball.ID
	nextFamily int
	maxAge     int
}

// New creates an engine over g. A nil hook passes every arrival.
func New(g *grid.Grid, hook ArrivalHook) *Engine {
	if hook == nil {
		hook = HookFunc(func(*ball.Run, *grid.Tile) Outcome { return Pass })
	}
	return &Engine{
		grid:     g,
		hook:     hook,
		nextBall: 1,
		maxAge:   MaxAge(g.Width(), g.Height()),
	}
}

// MaxAge returns the phase ceiling after which a run is ended as a loop.
func MaxAge(w, h int) int {
	return max(1000, w*h*10)
}

// Phase returns the number of phases stepped so far.
func (e *Engine) Phase() uint64 {
	return e.phase
}

// Runs returns the active runs in creation order. The slice must not be
// modified.
func (e *Engine) Runs() []*ball.Run {
	return e.runs
}

// Launch creates a run for a new ball at pos heading dir. The ball moves on
// the next Step.
func (e *Engine) Launch(owner core.PlayerID, power int, speed float64, pos core.Coord, dir core.Dir) *ball.Run {
	e.nextFamily++
	r := ball.NewRun(e.newBall(owner, power, speed), pos, dir, e.nextFamily)
	e.runs = append(e.runs, r)
	return r
}

// Patch sets power and speed on every active ball owned by owner and returns
// the number of balls changed.
func (e *Engine) Patch(owner core.PlayerID, power int, speed float64) int {
	n := 0
	for _, r := range e.runs {
		if r.Ball.Owner == owner {
			r.Ball.Power = power
			r.Ball.Speed = speed
			n++
		}
	}
	return n
}

// Clear ends every active run without reporting it.
func (e *Engine) Clear() {
	e.runs = nil
}

func (e *Engine) newBall(owner core.PlayerID, power int, speed float64) *ball.Ball {
	b := &ball.Ball{ID: e.nextBall, Owner: owner, Power: power, Speed: speed}
	e.nextBall++
	return b
}

// Step advances every active run by one phase.
//
// Order within a phase:
//  0. Launch check: runs launched since the last Step that would swap tiles
//     with, or converge on a non-goal tile with, another run end as crashes.
//  1. Move: each run not held in portal transit steps one tile, or leaves
//     its portal when the reservation falls due. Blocked runs end.
//  2. Arrive: each arriving run is resolved, splitting or calling the hook.
//  3. Collide: runs that would swap tiles or converge on a non-goal tile
//     next phase end as crashes.
//  4. Loop: runs that repeat a state too often or outlive the age ceiling end.
func (e *Engine) Step() StepResult {
	e.phase++
	result := StepResult{
		Phase: e.phase,
		Moves: make([]Move, 0, len(e.runs)),
	}

	e.collide(&result, true)
	arrived := e.move(&result)
	e.arrive(arrived, &result)
	e.collide(&result, false)
	e.loops(&result)

	alive := e.runs[:0]
	for _, r := range e.runs {
		if r.Active() {
			alive = append(alive, r)
		}
	}
	clear(e.runs[len(alive):])
	e.runs = alive
	return result
}

func (e *Engine) end(r *ball.Run, cause ball.Cause, result *StepResult) {
	if !r.Active() {
		return
	}
	r.End(cause)
	result.Ended = append(result.Ended, Ended{
		Ball:  r.Ball.ID,
		Owner: r.Ball.Owner,
		Pos:   r.Pos,
		Cause: cause,
	})
}

func (e *Engine) move(result *StepResult) []*ball.Run {
	arrived := make([]*ball.Run, 0, len(e.runs))
	fp := e.grid.Fingerprint()

	for _, r := range e.runs {
		if !r.Active() {
			continue
		}
		r.Age++
		from := r.Pos

		if r.Reserved != nil {
			if e.phase < r.Reserved.Due {
				continue
			}
			r.Pos = r.Reserved.Exit
			r.Reserved = nil
			r.Visit(ball.State{Pos: r.Pos, Dir: r.Dir, Fingerprint: fp})
			result.Moves = append(result.Moves, e.moveOf(r, from, true))
			arrived = append(arrived, r)
			continue
		}

		next := r.Pos.Step(r.Dir)
		if e.grid.Blocked(next, r.Dir) {
			e.end(r, ball.CauseBlocked, result)
			continue
		}
		r.Pos = next
		t, _ := e.grid.TileAt(next)

		if t.Props.Portal {
			exit, ok := e.grid.PortalExit(next)
			result.Moves = append(result.Moves, e.moveOf(r, from, false))
			if !ok {
				e.end(r, ball.CauseUnlinkedPortal, result)
				continue
			}
			r.Reserved = &ball.Reservation{Exit: exit, Due: e.phase + PortalDelay}
		} else {
			r.Dir = grid.Reflect(r.Dir, e.grid.ReflectorAt(next.X, next.Y))
			result.Moves = append(result.Moves, e.moveOf(r, from, false))
		}

		r.Visit(ball.State{Pos: r.Pos, Dir: r.Dir, Fingerprint: fp})
		arrived = append(arrived, r)
	}
	return arrived
}

func (e *Engine) moveOf(r *ball.Run, from core.Coord, portal bool) Move {
	return Move{
		Ball:   r.Ball.ID,
		Owner:  r.Ball.Owner,
		From:   from,
		To:     r.Pos,
		Dir:    r.Dir,
		Speed:  r.Ball.Speed,
		Portal: portal,
	}
}

// arrive resolves the runs that moved this phase. Split children are appended
// to e.runs, not to arrived, so they are not resolved on their split tile.
func (e *Engine) arrive(arrived []*ball.Run, result *StepResult) {
	for _, r := range arrived {
		if !r.Active() {
			continue
		}

		t, ok := e.grid.TileAt(r.Pos)
		if !ok {
			continue
		}
		if t.Props.IsSplit() && !r.InTransit() {
			e.split(r, t, result)
			continue
		}
		if e.hook.Arrive(r, t) == Capture {
			e.end(r, ball.CauseCaptured, result)
		}
	}
}

func (e *Engine) split(parent *ball.Run, t *grid.Tile, result *StepResult) {
	for _, d := range t.Props.SplitDirs {
		b := e.newBall(parent.Ball.Owner, parent.Ball.Power, parent.Ball.Speed)
		child := parent.Branch(b, d)
		e.runs = append(e.runs, child)
		result.Created = append(result.Created, child)
	}
	parent.ClearHistory()
	e.end(parent, ball.CauseSplit, result)
}

// collide ends runs that would swap tiles or share a non-goal tile on their
// next move. With launched set, only pairs and groups holding a run that has
// not moved yet are considered; the rest were checked at the end of the last
// Step.
func (e *Engine) collide(result *StepResult, launched bool) {
	type lookahead struct {
		run  *ball.Run
		next core.Coord
	}

	var moving []lookahead
	byNext := make(map[core.Coord][]*ball.Run)
	for _, r := range e.runs {
		if !r.Active() || r.InTransit() {
			continue
		}
		next := r.Pos.Step(r.Dir)
		if e.grid.Blocked(next, r.Dir) {
			continue
		}
		moving = append(moving, lookahead{run: r, next: next})
		byNext[next] = append(byNext[next], r)
	}

	var crashed []*ball.Run
	for i := range moving {
		for j := i + 1; j < len(moving); j++ {
			a, b := moving[i], moving[j]
			if launched && a.run.Age > 0 && b.run.Age > 0 {
				continue
			}
			if a.next == b.run.Pos && b.next == a.run.Pos {
				crashed = append(crashed, a.run, b.run)
			}
		}
	}
	for _, la := range moving {
		group := byNext[la.next]
		if len(group) < 2 || group[0] != la.run {
			continue
		}
		if t, ok := e.grid.TileAt(la.next); ok && t.Props.Goal {
			continue
		}
		if launched && !slices.ContainsFunc(group, unmoved) {
			continue
		}
		crashed = append(crashed, group...)
	}

	for _, r := range crashed {
		e.end(r, ball.CauseCrash, result)
	}
}

func unmoved(r *ball.Run) bool {
	return r.Age == 0
}

func (e *Engine) loops(result *StepResult) {
	fp := e.grid.Fingerprint()
	for _, r := range e.runs {
		if !r.Active() {
			continue
		}
		if r.Age > e.maxAge {
			e.end(r, ball.CauseLoop, result)
			continue
		}
		if r.InTransit() {
			continue
		}
		if r.Visits(ball.State{Pos: r.Pos, Dir: r.Dir, Fingerprint: fp}) > LoopThreshold {
			e.end(r, ball.CauseLoop, result)
		}
	}
}
