package grid

import "github.com/vovakirdan/ricochet/internal/core"

// Orientation is the facing of a reflector placed on or fixed to a tile.
type Orientation = core.Orientation

const (
	None        = core.OrientNone
	TopLeft     = core.OrientTopLeft
	TopRight    = core.OrientTopRight
	BottomLeft  = core.OrientBottomLeft
	BottomRight = core.OrientBottomRight
)

// reflection maps (orientation, incoming direction) to the outgoing direction.
// Directions not listed for an orientation pass through unchanged.
var reflection = map[Orientation]map[core.Dir]core.Dir{
	TopLeft: {
		core.DirDown:  core.DirLeft,
		core.DirRight: core.DirUp,
	},
	TopRight: {
		core.DirDown: core.DirRight,
		core.DirLeft: core.DirUp,
	},
	BottomLeft: {
		core.DirUp:    core.DirLeft,
		core.DirRight: core.DirDown,
	},
	BottomRight: {
		core.DirUp:   core.DirRight,
		core.DirLeft: core.DirDown,
	},
}

// Reflect returns the direction a ball travelling in incoming leaves a tile
// carrying the given reflector.
func Reflect(incoming core.Dir, o Orientation) core.Dir {
	if out, ok := reflection[o][incoming]; ok {
		return out
	}
	return incoming
}

// Deflects reports whether the reflector changes the incoming direction.
func Deflects(incoming core.Dir, o Orientation) bool {
	_, ok := reflection[o][incoming]
	return ok
}

// Blocks reports whether a solid-backed reflector of orientation o refuses a
// ball travelling in incoming. Solid reflectors only accept balls through
// their two open faces.
func Blocks(incoming core.Dir, o Orientation, solidBack bool) bool {
	if !solidBack || o == None {
		return false
	}
	return !Deflects(incoming, o)
}
