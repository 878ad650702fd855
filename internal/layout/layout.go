package layout

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/ricochet/internal/core"
	"github.com/vovakirdan/ricochet/internal/grid"
	"github.com/vovakirdan/ricochet/internal/tiles"
)

var (
	ErrDimensions    = errors.New("layout: rows must be non-empty and of equal width")
	ErrUnknownGlyph  = errors.New("layout: unknown legend character")
	ErrBadLegend     = errors.New("layout: legend keys must be single characters")
	ErrUnknownPlayer = errors.New("layout: entity owned by undeclared player")
	ErrDuplicateSeat = errors.New("layout: player declared twice")
	ErrPlacement     = errors.New("layout: invalid entity placement")
)

// DefaultLegend maps row characters to built-in tile names.
var DefaultLegend = map[rune]string{
	'.': "floor",
	'#': "block",
	'S': "spawn",
	'C': "core",
	'O': "portal",
	'-': "split-horizontal",
	'|': "split-vertical",
	'1': "mirror-top-left",
	'2': "mirror-top-right",
	'3': "mirror-bottom-left",
	'4': "mirror-bottom-right",
	'5': "solid-top-left",
	'6': "solid-top-right",
	'7': "solid-bottom-left",
	'8': "solid-bottom-right",
}

// Player is a seat in the match.
type Player struct {
	ID   core.PlayerID
	Team core.TeamID
	Zone core.Rect
}

// Tower is a starting tower assignment.
type Tower struct {
	Pos    core.Coord
	Owner  core.PlayerID
	Dir    core.Dir
	Locked bool
}

// Core is a starting core assignment.
type Core struct {
	Pos   core.Coord
	Owner core.PlayerID
}

// Layout is a validated map ready to start a match.
type Layout struct {
	Name        string
	Title       string
	Description string
	Width       int
	Height      int
	Players     []Player
	Towers      []Tower
	Cores       []Core
	Walls       []core.Coord
	FilePath    string

	catalog *tiles.Catalog
	cells   map[core.Coord]grid.Spec
}

// Parse decodes and validates a YAML layout against the catalog. A nil
// catalog means tiles.Default().
func Parse(data []byte, cat *tiles.Catalog) (*Layout, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("yaml unmarshal: %w", err)
	}
	return Build(f, cat)
}

// NewGrid builds a fresh grid for one match. Each call returns an
// independent board with an empty reflector overlay.
func (l *Layout) NewGrid() *grid.Grid {
	g, err := grid.New(l.Width, l.Height, l.catalog, l.cells)
	if err != nil {
		// Build already constructed this grid once.
		panic(fmt.Sprintf("layout %s: %v", l.Name, err))
	}
	return g
}

// Catalog returns the tile catalog the layout was built against.
func (l *Layout) Catalog() *tiles.Catalog {
	return l.catalog
}

// Player returns the seat with the given id.
func (l *Layout) Player(id core.PlayerID) (Player, bool) {
	for _, p := range l.Players {
		if p.ID == id {
			return p, true
		}
	}
	return Player{}, false
}

// Build validates a decoded file.
func Build(f File, cat *tiles.Catalog) (*Layout, error) {
	if cat == nil {
		cat = tiles.Default()
	}
	legend, err := mergeLegend(f.Legend)
	if err != nil {
		return nil, err
	}

	rows := make([][]rune, len(f.Rows))
	for i, r := range f.Rows {
		rows[i] = []rune(r)
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, ErrDimensions
	}
	width := len(rows[0])
	for y, r := range rows {
		if len(r) != width {
			return nil, fmt.Errorf("%w: row %d has %d, expected %d", ErrDimensions, y, len(r), width)
		}
	}

	l := &Layout{
		Name:        f.Name,
		Title:       f.Title,
		Description: f.Description,
		Width:       width,
		Height:      len(rows),
		catalog:     cat,
		cells:       make(map[core.Coord]grid.Spec),
	}
	if l.Title == "" {
		l.Title = f.Name
	}

	for y, r := range rows {
		for x, ch := range r {
			if ch == ' ' {
				continue
			}
			name, ok := legend[ch]
			if !ok {
				return nil, fmt.Errorf("%w: %q at (%d,%d)", ErrUnknownGlyph, ch, x, y)
			}
			kind, ok := cat.ByName(name)
			if !ok {
				return nil, fmt.Errorf("%w: %q for %q", grid.ErrUnknownKind, name, ch)
			}
			l.cells[core.C(x, y)] = grid.Spec{Kind: kind}
		}
	}

	for _, p := range f.Portals {
		c := core.C(p.X, p.Y)
		spec, ok := l.cells[c]
		if !ok {
			return nil, fmt.Errorf("%w: portal at %s has no tile", ErrPlacement, c)
		}
		if props, _ := cat.Lookup(spec.Kind); !props.Portal {
			return nil, fmt.Errorf("%w: %s is not a portal tile", ErrPlacement, c)
		}
		spec.PortalGroup = p.Group
		l.cells[c] = spec
	}

	g, err := grid.New(l.Width, l.Height, cat, l.cells)
	if err != nil {
		return nil, fmt.Errorf("layout %s: %w", f.Name, err)
	}

	if err := l.assign(f, g); err != nil {
		return nil, fmt.Errorf("layout %s: %w", f.Name, err)
	}
	return l, nil
}

func mergeLegend(extra map[string]string) (map[rune]string, error) {
	legend := make(map[rune]string, len(DefaultLegend)+len(extra))
	for k, v := range DefaultLegend {
		legend[k] = v
	}
	keys := make([]string, 0, len(extra))
	for k := range extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		r := []rune(k)
		if len(r) != 1 || r[0] == ' ' {
			return nil, fmt.Errorf("%w: %q", ErrBadLegend, k)
		}
		legend[r[0]] = strings.TrimSpace(extra[k])
	}
	return legend, nil
}

func (l *Layout) assign(f File, g *grid.Grid) error {
	seats := make(map[core.PlayerID]bool, len(f.Players))
	for _, p := range f.Players {
		if p.ID <= core.Neutral {
			return fmt.Errorf("%w: player id %d", ErrPlacement, p.ID)
		}
		if seats[p.ID] {
			return fmt.Errorf("%w: %d", ErrDuplicateSeat, p.ID)
		}
		seats[p.ID] = true
		team := p.Team
		if team == 0 {
			team = core.TeamID(p.ID)
		}
		l.Players = append(l.Players, Player{ID: p.ID, Team: team, Zone: p.Zone})
	}
	if len(l.Players) == 0 {
		return fmt.Errorf("%w: no players", ErrPlacement)
	}

	occupied := make(map[core.Coord]string)
	claim := func(c core.Coord, what string) error {
		if prev, ok := occupied[c]; ok {
			return fmt.Errorf("%w: %s at %s overlaps %s", ErrPlacement, what, c, prev)
		}
		occupied[c] = what
		return nil
	}

	for _, t := range f.Towers {
		c := core.C(t.X, t.Y)
		if !seats[t.Owner] {
			return fmt.Errorf("%w: tower at %s owner %d", ErrUnknownPlayer, c, t.Owner)
		}
		tile, ok := g.TileAt(c)
		if !ok || !tile.Props.Passable {
			return fmt.Errorf("%w: tower at %s needs a passable tile", ErrPlacement, c)
		}
		if len(tile.Props.LaunchDirs) > 0 && !containsDir(tile.Props.LaunchDirs, t.Dir) {
			return fmt.Errorf("%w: tower at %s cannot fire %s", ErrPlacement, c, t.Dir)
		}
		if err := claim(c, "tower"); err != nil {
			return err
		}
		l.Towers = append(l.Towers, Tower{Pos: c, Owner: t.Owner, Dir: t.Dir, Locked: t.Locked})
	}

	for _, cr := range f.Cores {
		c := core.C(cr.X, cr.Y)
		if !seats[cr.Owner] {
			return fmt.Errorf("%w: core at %s owner %d", ErrUnknownPlayer, c, cr.Owner)
		}
		if !g.Passable(c) {
			return fmt.Errorf("%w: core at %s needs a passable tile", ErrPlacement, c)
		}
		if err := claim(c, "core"); err != nil {
			return err
		}
		l.Cores = append(l.Cores, Core{Pos: c, Owner: cr.Owner})
	}

	for _, w := range f.Walls {
		c := core.C(w.X, w.Y)
		if !g.Passable(c) {
			return fmt.Errorf("%w: wall at %s needs a passable tile", ErrPlacement, c)
		}
		if err := claim(c, "wall"); err != nil {
			return err
		}
		l.Walls = append(l.Walls, c)
	}
	return nil
}

func containsDir(dirs []core.Dir, d core.Dir) bool {
	for _, x := range dirs {
		if x == d {
			return true
		}
	}
	return false
}
