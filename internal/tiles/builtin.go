package tiles

import "github.com/vovakirdan/ricochet/internal/core"

// Built-in tile kinds.
const (
	Floor Kind = iota
	Block
	Spawn
	CoreTile
	Portal
	SplitHorizontal
	SplitVertical
	MirrorTopLeft
	MirrorTopRight
	MirrorBottomLeft
	MirrorBottomRight
	SolidTopLeft
	SolidTopRight
	SolidBottomLeft
	SolidBottomRight
)

var defaultCatalog = buildDefault()

// Default returns the built-in catalog. The returned catalog is shared and
// must not be modified.
func Default() *Catalog {
	return defaultCatalog
}

func buildDefault() *Catalog {
	c := NewCatalog()
	c.MustRegister(Floor, Props{Name: "floor", Passable: true, ReflectorCapable: true})
	c.MustRegister(Block, Props{Name: "block"})
	c.MustRegister(Spawn, Props{Name: "spawn", Passable: true, LaunchDirs: core.AllDirs[:]})
	c.MustRegister(CoreTile, Props{Name: "core", Passable: true, Goal: true})
	c.MustRegister(Portal, Props{Name: "portal", Passable: true, Portal: true})
	c.MustRegister(SplitHorizontal, Props{
		Name:      "split-horizontal",
		Passable:  true,
		SplitDirs: []core.Dir{core.DirLeft, core.DirRight},
	})
	c.MustRegister(SplitVertical, Props{
		Name:      "split-vertical",
		Passable:  true,
		SplitDirs: []core.Dir{core.DirUp, core.DirDown},
	})

	mirrors := []struct {
		thin, solid Kind
		o           core.Orientation
	}{
		{MirrorTopLeft, SolidTopLeft, core.OrientTopLeft},
		{MirrorTopRight, SolidTopRight, core.OrientTopRight},
		{MirrorBottomLeft, SolidBottomLeft, core.OrientBottomLeft},
		{MirrorBottomRight, SolidBottomRight, core.OrientBottomRight},
	}
	for _, m := range mirrors {
		c.MustRegister(m.thin, Props{Name: "mirror-" + m.o.String(), Passable: true, FixedReflector: m.o})
		c.MustRegister(m.solid, Props{Name: "solid-" + m.o.String(), Passable: true, FixedReflector: m.o, SolidBack: true})
	}
	return c
}
