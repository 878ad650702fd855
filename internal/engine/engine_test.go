package engine

import (
	"testing"

	"github.com/vovakirdan/ricochet/internal/ball"
	"github.com/vovakirdan/ricochet/internal/core"
	"github.com/vovakirdan/ricochet/internal/grid"
	"github.com/vovakirdan/ricochet/internal/tiles"
)

func board(t *testing.T, w, h int, extra map[core.Coord]grid.Spec) *grid.Grid {
	t.Helper()
	cells := make(map[core.Coord]grid.Spec, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			cells[core.C(x, y)] = grid.Spec{Kind: tiles.Floor}
		}
	}
	for c, s := range extra {
		cells[c] = s
	}
	g, err := grid.New(w, h, tiles.Default(), cells)
	if err != nil {
		t.Fatalf("grid.New() failed: %v", err)
	}
	return g
}

func endedWith(res StepResult, id ball.ID) (Ended, bool) {
	for _, e := range res.Ended {
		if e.Ball == id {
			return e, true
		}
	}
	return Ended{}, false
}

func TestStraightTravelBlockedAtEdge(t *testing.T) {
	e := New(board(t, 3, 1, nil), nil)
	r := e.Launch(1, 1, 1, core.C(0, 0), core.DirRight)

	for phase := 1; phase <= 2; phase++ {
		res := e.Step()
		if len(res.Moves) != 1 || res.Moves[0].To != core.C(phase, 0) {
			t.Fatalf("phase %d moves = %+v", phase, res.Moves)
		}
	}
	res := e.Step()
	ended, ok := endedWith(res, r.Ball.ID)
	if !ok || ended.Cause != ball.CauseBlocked || ended.Pos != core.C(2, 0) {
		t.Errorf("expected blocked at (2,0), got %+v", res.Ended)
	}
	if len(e.Runs()) != 0 {
		t.Errorf("expected no active runs, got %d", len(e.Runs()))
	}
}

func TestBlockTileStopsBall(t *testing.T) {
	g := board(t, 4, 1, map[core.Coord]grid.Spec{core.C(2, 0): {Kind: tiles.Block}})
	e := New(g, nil)
	r := e.Launch(1, 1, 1, core.C(0, 0), core.DirRight)
	e.Step()
	res := e.Step()
	if ended, ok := endedWith(res, r.Ball.ID); !ok || ended.Cause != ball.CauseBlocked {
		t.Errorf("expected blocked, got %+v", res.Ended)
	}
}

func TestPlayerReflectorTurnsBall(t *testing.T) {
	g := board(t, 5, 5, nil)
	if err := g.PlaceReflector(2, 2, grid.TopLeft, 1); err != nil {
		t.Fatalf("PlaceReflector() failed: %v", err)
	}
	e := New(g, nil)
	r := e.Launch(1, 1, 1, core.C(0, 2), core.DirRight)

	e.Step()
	e.Step()
	if r.Pos != core.C(2, 2) || r.Dir != core.DirUp {
		t.Fatalf("after reflector: pos %s dir %s", r.Pos, r.Dir)
	}
	e.Step()
	if r.Pos != core.C(2, 1) {
		t.Errorf("expected (2,1), got %s", r.Pos)
	}
}

func TestPortalTransit(t *testing.T) {
	g := board(t, 6, 1, map[core.Coord]grid.Spec{
		core.C(1, 0): {Kind: tiles.Portal, PortalGroup: 1},
		core.C(4, 0): {Kind: tiles.Portal, PortalGroup: 1},
	})
	e := New(g, nil)
	r := e.Launch(1, 1, 1, core.C(0, 0), core.DirRight)

	e.Step()
	if !r.InTransit() || r.Pos != core.C(1, 0) {
		t.Fatalf("phase 1: expected transit at (1,0), got %s transit=%v", r.Pos, r.InTransit())
	}
	res := e.Step()
	if len(res.Moves) != 0 || r.Pos != core.C(1, 0) {
		t.Fatalf("phase 2: run should wait, moves=%+v", res.Moves)
	}
	res = e.Step()
	if r.Pos != core.C(4, 0) || len(res.Moves) != 1 || !res.Moves[0].Portal {
		t.Fatalf("phase 3: expected exit at (4,0), got %s %+v", r.Pos, res.Moves)
	}
	e.Step()
	if r.Pos != core.C(5, 0) || r.Dir != core.DirRight {
		t.Errorf("phase 4: expected (5,0) right, got %s %s", r.Pos, r.Dir)
	}
}

func TestUnlinkedPortalEndsRun(t *testing.T) {
	g := board(t, 3, 1, map[core.Coord]grid.Spec{core.C(1, 0): {Kind: tiles.Portal}})
	e := New(g, nil)
	r := e.Launch(1, 1, 1, core.C(0, 0), core.DirRight)
	res := e.Step()
	if ended, ok := endedWith(res, r.Ball.ID); !ok || ended.Cause != ball.CauseUnlinkedPortal {
		t.Errorf("expected unlinked-portal, got %+v", res.Ended)
	}
}

func TestSplitCreatesTwoRunsWithHistory(t *testing.T) {
	g := board(t, 5, 5, map[core.Coord]grid.Spec{core.C(2, 2): {Kind: tiles.SplitVertical}})
	e := New(g, nil)
	parent := e.Launch(1, 3, 1, core.C(0, 2), core.DirRight)
	fp := g.Fingerprint()

	e.Step()
	res := e.Step()

	if ended, ok := endedWith(res, parent.Ball.ID); !ok || ended.Cause != ball.CauseSplit {
		t.Fatalf("parent should end with split, got %+v", res.Ended)
	}
	if len(res.Created) != 2 {
		t.Fatalf("expected 2 created runs, got %d", len(res.Created))
	}
	if parent.HistoryLen() != 0 {
		t.Error("parent history should be cleared")
	}

	prior := ball.State{Pos: core.C(1, 2), Dir: core.DirRight, Fingerprint: fp}
	dirs := map[core.Dir]bool{}
	for _, child := range res.Created {
		if child.Ball.ID == parent.Ball.ID {
			t.Error("child should not reuse the parent id")
		}
		if child.Ball.Power != 3 || child.Ball.Owner != 1 {
			t.Errorf("child ball = %+v", child.Ball)
		}
		if child.Visits(prior) != 1 {
			t.Errorf("child should inherit parent history, visits=%d", child.Visits(prior))
		}
		dirs[child.Dir] = true
	}
	if !dirs[core.DirUp] || !dirs[core.DirDown] {
		t.Errorf("children directions = %v", dirs)
	}

	e.Step()
	positions := map[core.Coord]bool{}
	for _, r := range e.Runs() {
		positions[r.Pos] = true
	}
	if !positions[core.C(2, 1)] || !positions[core.C(2, 3)] {
		t.Errorf("children positions = %v", positions)
	}
}

func TestHookCapture(t *testing.T) {
	calls := 0
	hook := HookFunc(func(r *ball.Run, tile *grid.Tile) Outcome {
		calls++
		if tile.Pos == core.C(2, 0) {
			return Capture
		}
		return Pass
	})
	e := New(board(t, 5, 1, nil), hook)
	r := e.Launch(1, 1, 1, core.C(0, 0), core.DirRight)

	e.Step()
	res := e.Step()
	if ended, ok := endedWith(res, r.Ball.ID); !ok || ended.Cause != ball.CauseCaptured {
		t.Errorf("expected capture, got %+v", res.Ended)
	}
	if calls != 2 {
		t.Errorf("hook calls = %d, expected 2", calls)
	}
}

func TestExchangeCollision(t *testing.T) {
	e := New(board(t, 4, 1, nil), nil)
	a := e.Launch(1, 1, 1, core.C(0, 0), core.DirRight)
	b := e.Launch(2, 1, 1, core.C(3, 0), core.DirLeft)

	res := e.Step()
	for _, r := range []*ball.Run{a, b} {
		if ended, ok := endedWith(res, r.Ball.ID); !ok || ended.Cause != ball.CauseCrash {
			t.Errorf("ball %d should crash, got %+v", r.Ball.ID, res.Ended)
		}
	}
}

func TestConvergentCollision(t *testing.T) {
	e := New(board(t, 5, 1, nil), nil)
	e.Launch(1, 1, 1, core.C(0, 0), core.DirRight)
	e.Launch(2, 1, 1, core.C(4, 0), core.DirLeft)

	res := e.Step()
	if len(res.Ended) != 2 {
		t.Fatalf("expected both balls to crash, got %+v", res.Ended)
	}
	for _, ended := range res.Ended {
		if ended.Cause != ball.CauseCrash {
			t.Errorf("cause = %s, expected crash", ended.Cause)
		}
	}
}

func TestLaunchSwapsWithIncomingBall(t *testing.T) {
	e := New(board(t, 4, 1, nil), nil)
	in := e.Launch(2, 1, 1, core.C(3, 0), core.DirLeft)
	e.Step()
	out := e.Launch(1, 1, 1, core.C(1, 0), core.DirRight)

	res := e.Step()
	for _, r := range []*ball.Run{in, out} {
		if ended, ok := endedWith(res, r.Ball.ID); !ok || ended.Cause != ball.CauseCrash {
			t.Errorf("ball %d should crash, got %+v", r.Ball.ID, res.Ended)
		}
	}
	if in.Pos != core.C(2, 0) || out.Pos != core.C(1, 0) {
		t.Errorf("crashed balls moved: in %v out %v", in.Pos, out.Pos)
	}
}

func TestLaunchConvergesWithIncomingBall(t *testing.T) {
	e := New(board(t, 5, 1, nil), nil)
	in := e.Launch(2, 1, 1, core.C(4, 0), core.DirLeft)
	e.Step()
	out := e.Launch(1, 1, 1, core.C(1, 0), core.DirRight)

	res := e.Step()
	for _, r := range []*ball.Run{in, out} {
		if ended, ok := endedWith(res, r.Ball.ID); !ok || ended.Cause != ball.CauseCrash {
			t.Errorf("ball %d should crash, got %+v", r.Ball.ID, res.Ended)
		}
	}
}

func TestSplitSiblingsBothReachGoal(t *testing.T) {
	g := board(t, 5, 5, map[core.Coord]grid.Spec{
		core.C(2, 2): {Kind: tiles.SplitVertical},
		core.C(2, 1): {Kind: tiles.MirrorBottomRight},
		core.C(4, 1): {Kind: tiles.MirrorBottomLeft},
		core.C(2, 3): {Kind: tiles.MirrorTopRight},
		core.C(4, 3): {Kind: tiles.MirrorTopLeft},
		core.C(4, 2): {Kind: tiles.CoreTile},
	})
	arrivals := 0
	e := New(g, HookFunc(func(r *ball.Run, tile *grid.Tile) Outcome {
		if tile.Props.Goal {
			arrivals++
			return Capture
		}
		return Pass
	}))
	e.Launch(1, 1, 1, core.C(0, 2), core.DirRight)

	for range 6 {
		e.Step()
	}
	if arrivals != 2 {
		t.Errorf("goal arrivals = %d, expected one per sibling", arrivals)
	}
	for _, r := range e.Runs() {
		if r.Active() {
			t.Errorf("run %d still active at %v", r.Ball.ID, r.Pos)
		}
	}
}

func TestConvergenceOnGoalIsExempt(t *testing.T) {
	g := board(t, 5, 1, map[core.Coord]grid.Spec{core.C(2, 0): {Kind: tiles.CoreTile}})
	arrivals := 0
	e := New(g, HookFunc(func(r *ball.Run, tile *grid.Tile) Outcome {
		if tile.Props.Goal {
			arrivals++
			return Capture
		}
		return Pass
	}))
	e.Launch(1, 1, 1, core.C(0, 0), core.DirRight)
	e.Launch(2, 1, 1, core.C(4, 0), core.DirLeft)

	if res := e.Step(); len(res.Ended) != 0 {
		t.Fatalf("goal convergence should not crash: %+v", res.Ended)
	}
	e.Step()
	if arrivals != 2 {
		t.Errorf("goal arrivals = %d, expected 2", arrivals)
	}
}

func TestLoopDetection(t *testing.T) {
	g := board(t, 5, 5, nil)
	for _, p := range []struct {
		x, y int
		o    grid.Orientation
	}{
		{3, 1, grid.BottomLeft},
		{3, 3, grid.TopLeft},
		{1, 3, grid.TopRight},
		{1, 1, grid.BottomRight},
	} {
		if err := g.PlaceReflector(p.x, p.y, p.o, 1); err != nil {
			t.Fatalf("PlaceReflector() failed: %v", err)
		}
	}

	e := New(g, nil)
	r := e.Launch(1, 1, 1, core.C(2, 1), core.DirRight)

	for phase := 1; phase <= 40; phase++ {
		res := e.Step()
		if ended, ok := endedWith(res, r.Ball.ID); ok {
			if ended.Cause != ball.CauseLoop {
				t.Fatalf("cause = %s, expected loop", ended.Cause)
			}
			if phase != 17 {
				t.Errorf("loop detected at phase %d, expected 17", phase)
			}
			return
		}
	}
	t.Fatal("loop was never detected")
}

func TestMaxAge(t *testing.T) {
	if MaxAge(3, 3) != 1000 {
		t.Errorf("MaxAge(3,3) = %d", MaxAge(3, 3))
	}
	if MaxAge(20, 20) != 4000 {
		t.Errorf("MaxAge(20,20) = %d", MaxAge(20, 20))
	}
}

func TestPatch(t *testing.T) {
	e := New(board(t, 5, 5, nil), nil)
	a := e.Launch(1, 1, 1, core.C(0, 0), core.DirRight)
	b := e.Launch(2, 1, 1, core.C(0, 4), core.DirRight)

	if n := e.Patch(1, 4, 1.5); n != 1 {
		t.Errorf("Patch() = %d, expected 1", n)
	}
	if a.Ball.Power != 4 || a.Ball.Speed != 1.5 {
		t.Errorf("patched ball = %+v", a.Ball)
	}
	if b.Ball.Power != 1 {
		t.Error("other owner's ball should be untouched")
	}
}
