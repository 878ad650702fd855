package grid

import (
	"errors"
	"testing"

	"github.com/vovakirdan/ricochet/internal/core"
	"github.com/vovakirdan/ricochet/internal/tiles"
)

func floorGrid(t *testing.T, w, h int, extra map[core.Coord]Spec) *Grid {
	t.Helper()
	cells := make(map[core.Coord]Spec)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			cells[core.C(x, y)] = Spec{Kind: tiles.Floor}
		}
	}
	for c, s := range extra {
		cells[c] = s
	}
	g, err := New(w, h, tiles.Default(), cells)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	return g
}

func TestNewLoadErrors(t *testing.T) {
	tests := []struct {
		name  string
		w, h  int
		cells map[core.Coord]Spec
		err   error
	}{
		{"zero width", 0, 3, nil, ErrBadDimensions},
		{"out of bounds", 2, 2, map[core.Coord]Spec{core.C(5, 0): {Kind: tiles.Floor}}, ErrOutOfBounds},
		{"unknown kind", 2, 2, map[core.Coord]Spec{core.C(0, 0): {Kind: 200}}, ErrUnknownKind},
		{"single portal", 3, 1, map[core.Coord]Spec{
			core.C(0, 0): {Kind: tiles.Portal, PortalGroup: 1},
		}, ErrPortalGroup},
		{"three portals", 3, 1, map[core.Coord]Spec{
			core.C(0, 0): {Kind: tiles.Portal, PortalGroup: 1},
			core.C(1, 0): {Kind: tiles.Portal, PortalGroup: 1},
			core.C(2, 0): {Kind: tiles.Portal, PortalGroup: 1},
		}, ErrPortalGroup},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.w, tc.h, tiles.Default(), tc.cells)
			if !errors.Is(err, tc.err) {
				t.Errorf("New() error = %v, expected %v", err, tc.err)
			}
		})
	}
}

func TestTileLookup(t *testing.T) {
	g, err := New(3, 3, nil, map[core.Coord]Spec{core.C(1, 1): {Kind: tiles.Floor}})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	if _, ok := g.Tile(1, 1); !ok {
		t.Error("expected tile at (1,1)")
	}
	if _, ok := g.Tile(0, 0); ok {
		t.Error("unpopulated cell should have no tile")
	}
	if _, ok := g.Tile(-1, 5); ok {
		t.Error("out of bounds should have no tile")
	}
}

func TestPortalLinks(t *testing.T) {
	g := floorGrid(t, 5, 1, map[core.Coord]Spec{
		core.C(0, 0): {Kind: tiles.Portal, PortalGroup: 7},
		core.C(4, 0): {Kind: tiles.Portal, PortalGroup: 7},
		core.C(2, 0): {Kind: tiles.Portal},
	})
	if exit, ok := g.PortalExit(core.C(0, 0)); !ok || exit != core.C(4, 0) {
		t.Errorf("PortalExit(0,0) = %v, %v", exit, ok)
	}
	if exit, ok := g.PortalExit(core.C(4, 0)); !ok || exit != core.C(0, 0) {
		t.Errorf("PortalExit(4,0) = %v, %v", exit, ok)
	}
	if _, ok := g.PortalExit(core.C(2, 0)); ok {
		t.Error("group 0 portal should be unlinked")
	}
}

func TestPlaceRemoveRoundTrip(t *testing.T) {
	g := floorGrid(t, 3, 3, nil)
	before := g.Fingerprint()

	if err := g.PlaceReflector(1, 1, TopRight, 1); err != nil {
		t.Fatalf("PlaceReflector() failed: %v", err)
	}
	if g.ReflectorAt(1, 1) != TopRight {
		t.Errorf("ReflectorAt = %s, expected top-right", g.ReflectorAt(1, 1))
	}
	if g.Fingerprint() == before {
		t.Error("fingerprint should change after placement")
	}

	if _, ok := g.RemoveReflector(1, 1); !ok {
		t.Fatal("RemoveReflector() reported nothing removed")
	}
	if g.ReflectorAt(1, 1) != None {
		t.Error("tile should be reflector-free after removal")
	}
	tile, _ := g.Tile(1, 1)
	if !tile.Props.ReflectorCapable {
		t.Error("tile should stay reflector-capable")
	}
	if g.Fingerprint() != before {
		t.Error("fingerprint should return to the empty overlay value")
	}
	if _, ok := g.RemoveReflector(1, 1); ok {
		t.Error("second removal should be a no-op")
	}
}

func TestPlaceReflectorRules(t *testing.T) {
	g := floorGrid(t, 3, 3, map[core.Coord]Spec{
		core.C(0, 0): {Kind: tiles.Block},
		core.C(2, 2): {Kind: tiles.MirrorTopLeft},
		core.C(2, 0): {Kind: tiles.Spawn},
	})

	tests := []struct {
		name   string
		x, y   int
		o      Orientation
		player core.PlayerID
		err    error
	}{
		{"block", 0, 0, TopLeft, 1, ErrNotCapable},
		{"spawn tile", 2, 0, TopLeft, 1, ErrNotCapable},
		{"fixed reflector", 2, 2, BottomRight, 1, ErrFixedReflector},
		{"missing tile", 9, 9, TopLeft, 1, ErrNoTile},
		{"no orientation", 1, 1, None, 1, ErrInvalidOrientation},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := g.PlaceReflector(tc.x, tc.y, tc.o, tc.player); !errors.Is(err, tc.err) {
				t.Errorf("PlaceReflector() = %v, expected %v", err, tc.err)
			}
		})
	}

	if err := g.PlaceReflector(1, 1, TopLeft, 1); err != nil {
		t.Fatalf("PlaceReflector() failed: %v", err)
	}
	if err := g.PlaceReflector(1, 1, BottomLeft, 1); err != nil {
		t.Errorf("owner should be able to replace: %v", err)
	}
	if err := g.PlaceReflector(1, 1, TopLeft, 2); !errors.Is(err, ErrForeignReflector) {
		t.Errorf("expected ErrForeignReflector, got %v", err)
	}
	if g.ReflectorAt(2, 2) != TopLeft {
		t.Error("fixed reflector should be reported")
	}
}

func TestRemoveOwnedBy(t *testing.T) {
	g := floorGrid(t, 4, 1, nil)
	_ = g.PlaceReflector(0, 0, TopLeft, 1)
	_ = g.PlaceReflector(1, 0, TopLeft, 2)
	_ = g.PlaceReflector(3, 0, TopRight, 1)

	removed := g.RemoveOwnedBy(1)
	if len(removed) != 2 || removed[0].Pos != core.C(0, 0) || removed[1].Pos != core.C(3, 0) {
		t.Errorf("RemoveOwnedBy(1) = %+v", removed)
	}
	if len(g.Reflectors()) != 1 {
		t.Errorf("expected one reflector left, got %d", len(g.Reflectors()))
	}
}

func TestBlockedSolidReflector(t *testing.T) {
	g := floorGrid(t, 3, 3, map[core.Coord]Spec{
		core.C(1, 1): {Kind: tiles.SolidTopLeft},
		core.C(0, 0): {Kind: tiles.Block},
	})
	if !g.Blocked(core.C(1, 1), core.DirUp) {
		t.Error("solid top-left should block a ball moving up")
	}
	if g.Blocked(core.C(1, 1), core.DirDown) {
		t.Error("solid top-left should accept a ball moving down")
	}
	if !g.Blocked(core.C(0, 0), core.DirRight) {
		t.Error("block tile should be impassable")
	}
	if !g.Blocked(core.C(-1, 0), core.DirLeft) {
		t.Error("off-board should be blocked")
	}
}
