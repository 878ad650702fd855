package core

import (
	"errors"
	"fmt"
	"strings"
)

// Orientation is the facing of a corner reflector, named after its two open
// faces. A ball entering through an open face leaves through the other one.
type Orientation uint8

const (
	OrientNone Orientation = iota
	OrientTopLeft
	OrientTopRight
	OrientBottomLeft
	OrientBottomRight
)

// AllOrientations lists the four real orientations.
var AllOrientations = [4]Orientation{OrientTopLeft, OrientTopRight, OrientBottomLeft, OrientBottomRight}

// ErrSlashOrientation is returned for "/" and "\" style names, which have no
// agreed mapping onto corner reflectors.
var ErrSlashOrientation = errors.New("core: slash orientations are not supported")

// String returns the canonical name of the orientation.
func (o Orientation) String() string {
	switch o {
	case OrientNone:
		return "none"
	case OrientTopLeft:
		return "top-left"
	case OrientTopRight:
		return "top-right"
	case OrientBottomLeft:
		return "bottom-left"
	case OrientBottomRight:
		return "bottom-right"
	default:
		return "unknown"
	}
}

// Glyph returns the box-drawing glyph used for this orientation.
func (o Orientation) Glyph() rune {
	switch o {
	case OrientTopLeft:
		return '┘'
	case OrientTopRight:
		return '└'
	case OrientBottomLeft:
		return '┐'
	case OrientBottomRight:
		return '┌'
	default:
		return ' '
	}
}

// Valid reports whether o is one of the four real orientations.
func (o Orientation) Valid() bool {
	return o >= OrientTopLeft && o <= OrientBottomRight
}

// ParseOrientation parses a canonical orientation name.
func ParseOrientation(s string) (Orientation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "":
		return OrientNone, nil
	case "top-left", "tl":
		return OrientTopLeft, nil
	case "top-right", "tr":
		return OrientTopRight, nil
	case "bottom-left", "bl":
		return OrientBottomLeft, nil
	case "bottom-right", "br":
		return OrientBottomRight, nil
	case "/", "\\", "slash", "backslash", "forward-slash", "back-slash":
		return OrientNone, fmt.Errorf("%w: %q", ErrSlashOrientation, s)
	}
	return OrientNone, fmt.Errorf("core: unknown orientation %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (o Orientation) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (o *Orientation) UnmarshalText(text []byte) error {
	parsed, err := ParseOrientation(string(text))
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}
