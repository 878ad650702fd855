package layout

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/vovakirdan/ricochet/internal/core"
	"github.com/vovakirdan/ricochet/internal/grid"
	"github.com/vovakirdan/ricochet/internal/tiles"
)

func TestBuiltinDuel(t *testing.T) {
	l, err := Builtin(DefaultName)
	if err != nil {
		t.Fatalf("Builtin(%q) failed: %v", DefaultName, err)
	}
	if l.Width != 13 || l.Height != 9 {
		t.Fatalf("size = %dx%d, expected 13x9", l.Width, l.Height)
	}
	if len(l.Players) != 2 || len(l.Towers) != 6 || len(l.Cores) != 2 || len(l.Walls) != 2 {
		t.Errorf("assignments: players=%d towers=%d cores=%d walls=%d",
			len(l.Players), len(l.Towers), len(l.Cores), len(l.Walls))
	}

	g := l.NewGrid()
	if exit, ok := g.PortalExit(core.C(5, 0)); !ok || exit != core.C(7, 0) {
		t.Errorf("portal link = %v, %v", exit, ok)
	}
	tile, ok := g.Tile(6, 4)
	if !ok || tile.Kind != tiles.SplitVertical {
		t.Errorf("expected split-vertical at (6,4), got %+v", tile)
	}
	for x := 2; x < 12; x++ {
		if !g.Passable(core.C(x, 8)) {
			t.Errorf("row 8 should be open at x=%d", x)
		}
	}
}

func TestAllBuiltinsParse(t *testing.T) {
	names := BuiltinNames()
	if len(names) < 2 {
		t.Fatalf("expected at least two built-ins, got %v", names)
	}
	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			l, err := Builtin(name)
			if err != nil {
				t.Fatalf("Builtin() failed: %v", err)
			}
			if l.Name != name {
				t.Errorf("Name = %q, expected %q", l.Name, name)
			}
		})
	}
}

func TestNewGridIsIndependent(t *testing.T) {
	l, _ := Builtin(DefaultName)
	a, b := l.NewGrid(), l.NewGrid()
	if err := a.PlaceReflector(2, 3, grid.TopLeft, 1); err != nil {
		t.Fatalf("PlaceReflector() failed: %v", err)
	}
	if b.ReflectorAt(2, 3) != grid.None {
		t.Error("grids from one layout should not share overlays")
	}
}

const minimal = `
name: tiny
rows:
  - "S.C"
players:
  - {id: 1, zone: {x: 0, y: 0, w: 3, h: 1}}
towers:
  - {x: 0, y: 0, owner: 1, dir: right}
cores:
  - {x: 2, y: 0, owner: 1}
`

func TestParseMinimal(t *testing.T) {
	l, err := Parse([]byte(minimal), nil)
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	if l.Title != "tiny" {
		t.Errorf("Title should default to name, got %q", l.Title)
	}
	p, ok := l.Player(1)
	if !ok || p.Team != 1 {
		t.Errorf("team should default to player id: %+v", p)
	}
	if l.Towers[0].Dir != core.DirRight {
		t.Errorf("tower dir = %s", l.Towers[0].Dir)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		err  error
	}{
		{"unknown glyph", `
rows: ["S?C"]
players: [{id: 1, zone: {x: 0, y: 0, w: 3, h: 1}}]
`, ErrUnknownGlyph},
		{"ragged rows", `
rows: ["S.C", ".."]
players: [{id: 1, zone: {x: 0, y: 0, w: 3, h: 1}}]
`, ErrDimensions},
		{"no rows", `
players: [{id: 1, zone: {x: 0, y: 0, w: 3, h: 1}}]
`, ErrDimensions},
		{"lonely portal", `
rows: ["O.O"]
portals: [{x: 0, y: 0, group: 1}]
players: [{id: 1, zone: {x: 0, y: 0, w: 3, h: 1}}]
`, grid.ErrPortalGroup},
		{"portal on floor", `
rows: ["O.O"]
portals: [{x: 1, y: 0, group: 1}]
players: [{id: 1, zone: {x: 0, y: 0, w: 3, h: 1}}]
`, ErrPlacement},
		{"legend names unknown tile", `
legend: {"x": "lava"}
rows: ["x.."]
players: [{id: 1, zone: {x: 0, y: 0, w: 3, h: 1}}]
`, grid.ErrUnknownKind},
		{"legend key too long", `
legend: {"xy": "floor"}
rows: ["..."]
players: [{id: 1, zone: {x: 0, y: 0, w: 3, h: 1}}]
`, ErrBadLegend},
		{"undeclared owner", `
rows: ["S.C"]
players: [{id: 1, zone: {x: 0, y: 0, w: 3, h: 1}}]
cores: [{x: 2, y: 0, owner: 5}]
`, ErrUnknownPlayer},
		{"tower on block", `
rows: ["#.C"]
players: [{id: 1, zone: {x: 0, y: 0, w: 3, h: 1}}]
towers: [{x: 0, y: 0, owner: 1, dir: right}]
`, ErrPlacement},
		{"overlapping entities", `
rows: ["S.C"]
players: [{id: 1, zone: {x: 0, y: 0, w: 3, h: 1}}]
cores: [{x: 2, y: 0, owner: 1}]
walls: [{x: 2, y: 0}]
`, ErrPlacement},
		{"duplicate seat", `
rows: ["S.C"]
players: [{id: 1, zone: {x: 0, y: 0, w: 3, h: 1}}, {id: 1, zone: {x: 0, y: 0, w: 3, h: 1}}]
`, ErrDuplicateSeat},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.yaml), nil)
			if !errors.Is(err, tc.err) {
				t.Errorf("Parse() error = %v, expected %v", err, tc.err)
			}
		})
	}
}

func TestLegendOverride(t *testing.T) {
	data := `
legend: {"~": "block"}
rows: ["S~C"]
players: [{id: 1, zone: {x: 0, y: 0, w: 3, h: 1}}]
`
	l, err := Parse([]byte(data), nil)
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	if l.NewGrid().Passable(core.C(1, 0)) {
		t.Error("~ should map to an impassable block")
	}
}

func TestLoaderLoadAll(t *testing.T) {
	dir := t.TempDir()
	must := func(name, body string) {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatalf("WriteFile() failed: %v", err)
		}
	}
	must("b.yaml", minimal)
	must("a.yml", "name: alpha\nrows: [\"...\"]\nplayers: [{id: 1, zone: {x: 0, y: 0, w: 3, h: 1}}]\n")
	must("broken.yaml", "rows: [\"?\"]\n")
	must("notes.txt", "ignored")

	layouts, skipped, err := NewLoader(dir).LoadAll()
	if err != nil {
		t.Fatalf("LoadAll() failed: %v", err)
	}
	if len(layouts) != 2 || layouts[0].Name != "alpha" || layouts[1].Name != "tiny" {
		t.Errorf("layouts = %v", layouts)
	}
	if len(skipped) != 1 {
		t.Errorf("skipped = %v", skipped)
	}
	if layouts[0].FilePath == "" {
		t.Error("FilePath should be set")
	}
}
