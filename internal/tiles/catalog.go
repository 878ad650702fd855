// Package tiles provides the immutable tile catalog: a registry mapping small
// integer tile kinds to their static properties. Grids resolve every cell
// against a catalog once, at build time.
package tiles

import (
	"errors"
	"fmt"
	"sort"

	"github.com/vovakirdan/ricochet/internal/core"
)

// Kind identifies a tile type within a catalog.
type Kind uint8

// Props holds the static properties of a tile kind.
type Props struct {
	Name             string
	Passable         bool
	ReflectorCapable bool // Players may place reflectors here
	Goal             bool // Convergent arrivals are not collisions
	Portal           bool
	SplitDirs        []core.Dir // Non-empty marks a split tile
	LaunchDirs       []core.Dir // Directions a tower on this tile may fire
	FixedReflector   core.Orientation
	SolidBack        bool // Fixed reflector blocks its two unmapped sides
}

// IsSplit reports whether arriving balls split on this tile.
func (p Props) IsSplit() bool {
	return len(p.SplitDirs) > 0
}

var (
	// ErrDuplicateKind is returned when a kind is registered twice.
	ErrDuplicateKind = errors.New("tiles: kind already registered")
	// ErrDuplicateName is returned when two kinds share a name.
	ErrDuplicateName = errors.New("tiles: name already registered")
)

// Catalog maps kinds to properties. A catalog is built once and then only
// read; it is safe to share between matches.
type Catalog struct {
	props  map[Kind]Props
	byName map[string]Kind
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		props:  make(map[Kind]Props),
		byName: make(map[string]Kind),
	}
}

// Register adds a tile kind to the catalog.
func (c *Catalog) Register(kind Kind, p Props) error {
	if _, exists := c.props[kind]; exists {
		return fmt.Errorf("%w: %d", ErrDuplicateKind, kind)
	}
	if _, exists := c.byName[p.Name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateName, p.Name)
	}
	c.props[kind] = p
	c.byName[p.Name] = kind
	return nil
}

// MustRegister is like Register but panics on error.
// Intended for building built-in catalogs.
func (c *Catalog) MustRegister(kind Kind, p Props) {
	if err := c.Register(kind, p); err != nil {
		panic(err)
	}
}

// Lookup returns the properties for a kind.
func (c *Catalog) Lookup(kind Kind) (Props, bool) {
	p, ok := c.props[kind]
	return p, ok
}

// ByName resolves a kind by its name.
func (c *Catalog) ByName(name string) (Kind, bool) {
	k, ok := c.byName[name]
	return k, ok
}

// Kinds returns all registered kinds in ascending order.
func (c *Catalog) Kinds() []Kind {
	kinds := make([]Kind, 0, len(c.props))
	for k := range c.props {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// Len returns the number of registered kinds.
func (c *Catalog) Len() int {
	return len(c.props)
}
