// Package grid holds the match board: a sparse map of tiles resolved against
// a tile catalog, the player reflector overlay and the portal links.
//
// Topology is fixed once New returns; only the reflector overlay changes
// during a match.
package grid

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/fnv"
	"sort"

	"github.com/vovakirdan/ricochet/internal/core"
	"github.com/vovakirdan/ricochet/internal/tiles"
)

// Load errors.
var (
	ErrBadDimensions = errors.New("grid: invalid dimensions")
	ErrOutOfBounds   = errors.New("grid: tile outside bounds")
	ErrUnknownKind   = errors.New("grid: unknown tile kind")
	ErrPortalGroup   = errors.New("grid: portal group must contain exactly two tiles")
)

// Placement errors.
var (
	ErrNoTile             = errors.New("grid: no tile")
	ErrNotCapable         = errors.New("grid: tile does not accept reflectors")
	ErrFixedReflector     = errors.New("grid: tile has a fixed reflector")
	ErrForeignReflector   = errors.New("grid: tile holds another player's reflector")
	ErrInvalidOrientation = errors.New("grid: invalid orientation")
)

// Spec describes one populated cell for New.
type Spec struct {
	Kind        tiles.Kind
	PortalGroup int // 0 means unlinked
}

// Tile is a resolved board cell.
type Tile struct {
	Pos         core.Coord
	Kind        tiles.Kind
	Props       tiles.Props
	PortalGroup int
}

// Reflector is a player-placed reflector on a tile.
type Reflector struct {
	Pos         core.Coord    `json:"pos"`
	Orientation Orientation   `json:"orientation"`
	Owner       core.PlayerID `json:"owner"`
}

// Grid is the board. It is not safe for concurrent use.
type Grid struct {
	w, h    int
	tiles   map[core.Coord]*Tile
	overlay map[core.Coord]Reflector
	links   map[core.Coord]core.Coord
	fp      uint64
	dirty   bool
	ordered []core.Coord
}

// New builds a grid of the given size. Every spec must sit inside the bounds
// and resolve against the catalog; portal groups other than 0 must have
// exactly two members.
func New(w, h int, cat *tiles.Catalog, cells map[core.Coord]Spec) (*Grid, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrBadDimensions, w, h)
	}
	if cat == nil {
		cat = tiles.Default()
	}

	g := &Grid{
		w:       w,
		h:       h,
		tiles:   make(map[core.Coord]*Tile, len(cells)),
		overlay: make(map[core.Coord]Reflector),
		links:   make(map[core.Coord]core.Coord),
		dirty:   true,
	}

	groups := make(map[int][]core.Coord)
	for pos, spec := range cells {
		if !g.InBounds(pos) {
			return nil, fmt.Errorf("%w: %s in %dx%d", ErrOutOfBounds, pos, w, h)
		}
		props, ok := cat.Lookup(spec.Kind)
		if !ok {
			return nil, fmt.Errorf("%w: %d at %s", ErrUnknownKind, spec.Kind, pos)
		}
		t := &Tile{Pos: pos, Kind: spec.Kind, Props: props}
		if props.Portal {
			t.PortalGroup = spec.PortalGroup
			if spec.PortalGroup != 0 {
				groups[spec.PortalGroup] = append(groups[spec.PortalGroup], pos)
			}
		}
		g.tiles[pos] = t
	}

	for id, members := range groups {
		if len(members) != 2 {
			return nil, fmt.Errorf("%w: group %d has %d", ErrPortalGroup, id, len(members))
		}
		g.links[members[0]] = members[1]
		g.links[members[1]] = members[0]
	}

	g.ordered = make([]core.Coord, 0, len(g.tiles))
	for pos := range g.tiles {
		g.ordered = append(g.ordered, pos)
	}
	sortCoords(g.ordered)
	return g, nil
}

// Width returns the board width.
func (g *Grid) Width() int { return g.w }

// Height returns the board height.
func (g *Grid) Height() int { return g.h }

// InBounds reports whether c lies on the board.
func (g *Grid) InBounds(c core.Coord) bool {
	return c.X >= 0 && c.X < g.w && c.Y >= 0 && c.Y < g.h
}

// Tile returns the tile at (x, y), or false outside bounds or on an
// unpopulated cell.
func (g *Grid) Tile(x, y int) (*Tile, bool) {
	return g.TileAt(core.C(x, y))
}

// TileAt is Tile keyed by coordinate.
func (g *Grid) TileAt(c core.Coord) (*Tile, bool) {
	t, ok := g.tiles[c]
	return t, ok
}

// Coords returns every populated coordinate in row-major order.
func (g *Grid) Coords() []core.Coord {
	out := make([]core.Coord, len(g.ordered))
	copy(out, g.ordered)
	return out
}

// Passable reports whether a ball may enter c.
func (g *Grid) Passable(c core.Coord) bool {
	t, ok := g.tiles[c]
	return ok && t.Props.Passable
}

// PortalExit returns the tile linked to the portal at c.
func (g *Grid) PortalExit(c core.Coord) (core.Coord, bool) {
	exit, ok := g.links[c]
	return exit, ok
}

// PlaceReflector puts a player reflector on (x, y). Placing over the player's
// own reflector replaces its orientation.
func (g *Grid) PlaceReflector(x, y int, o Orientation, player core.PlayerID) error {
	if !o.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidOrientation, o)
	}
	c := core.C(x, y)
	t, ok := g.tiles[c]
	if !ok {
		return fmt.Errorf("%w at %s", ErrNoTile, c)
	}
	if t.Props.FixedReflector != None {
		return fmt.Errorf("%w at %s", ErrFixedReflector, c)
	}
	if !t.Props.ReflectorCapable {
		return fmt.Errorf("%w at %s", ErrNotCapable, c)
	}
	if existing, ok := g.overlay[c]; ok && existing.Owner != player {
		return fmt.Errorf("%w at %s", ErrForeignReflector, c)
	}
	g.overlay[c] = Reflector{Pos: c, Orientation: o, Owner: player}
	g.dirty = true
	return nil
}

// RemoveReflector clears the player reflector on (x, y). It is a no-op on an
// empty tile.
func (g *Grid) RemoveReflector(x, y int) (Reflector, bool) {
	c := core.C(x, y)
	r, ok := g.overlay[c]
	if !ok {
		return Reflector{}, false
	}
	delete(g.overlay, c)
	g.dirty = true
	return r, true
}

// RemoveOwnedBy clears every reflector placed by player and returns them in
// row-major order.
func (g *Grid) RemoveOwnedBy(player core.PlayerID) []Reflector {
	var removed []Reflector
	for _, r := range g.Reflectors() {
		if r.Owner == player {
			delete(g.overlay, r.Pos)
			removed = append(removed, r)
		}
	}
	if len(removed) > 0 {
		g.dirty = true
	}
	return removed
}

// ReflectorAt returns the effective reflector orientation of (x, y). A fixed
// catalog reflector wins over any player overlay.
func (g *Grid) ReflectorAt(x, y int) Orientation {
	c := core.C(x, y)
	if t, ok := g.tiles[c]; ok && t.Props.FixedReflector != None {
		return t.Props.FixedReflector
	}
	if r, ok := g.overlay[c]; ok {
		return r.Orientation
	}
	return None
}

// Overlay returns the player reflector on (x, y), if any.
func (g *Grid) Overlay(x, y int) (Reflector, bool) {
	r, ok := g.overlay[core.C(x, y)]
	return r, ok
}

// Reflectors returns all player reflectors in row-major order.
func (g *Grid) Reflectors() []Reflector {
	out := make([]Reflector, 0, len(g.overlay))
	for _, r := range g.overlay {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return less(out[i].Pos, out[j].Pos) })
	return out
}

// Blocked reports whether a ball travelling in dir may not enter c.
func (g *Grid) Blocked(c core.Coord, dir core.Dir) bool {
	t, ok := g.tiles[c]
	if !ok || !t.Props.Passable {
		return true
	}
	return Blocks(dir, t.Props.FixedReflector, t.Props.SolidBack)
}

// Fingerprint identifies the current reflector overlay. Two overlays with the
// same placements and orientations hash equal regardless of owner.
func (g *Grid) Fingerprint() uint64 {
	if !g.dirty {
		return g.fp
	}
	h := fnv.New64a()
	var buf [17]byte
	for _, r := range g.Reflectors() {
		binary.LittleEndian.PutUint64(buf[0:8], uint64(int64(r.Pos.X)))
		binary.LittleEndian.PutUint64(buf[8:16], uint64(int64(r.Pos.Y)))
		buf[16] = byte(r.Orientation)
		h.Write(buf[:])
	}
	g.fp = h.Sum64()
	g.dirty = false
	return g.fp
}

func less(a, b core.Coord) bool {
	if a.Y != b.Y {
		return a.Y < b.Y
	}
	return a.X < b.X
}

func sortCoords(cs []core.Coord) {
	sort.Slice(cs, func(i, j int) bool { return less(cs[i], cs[j]) })
}
