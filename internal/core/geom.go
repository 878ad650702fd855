// Package core provides the board primitives shared by every ricochet
// package: coordinates, directions, player ids, rectangles and a plain text
// screen buffer. It has no external dependencies.
package core

// Rect represents an axis-aligned region of the board.
type Rect struct {
	X int `json:"x" yaml:"x"` // Top-left corner
	Y int `json:"y" yaml:"y"`
	W int `json:"w" yaml:"w"` // Width and height in tiles
	H int `json:"h" yaml:"h"`
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate one past the right edge.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the y-coordinate one past the bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Empty reports whether the rectangle covers no tiles.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Intersects returns true if this rectangle overlaps with another.
func (r Rect) Intersects(other Rect) bool {
	if r.X >= other.Right() || other.X >= r.Right() {
		return false
	}
	if r.Y >= other.Bottom() || other.Y >= r.Bottom() {
		return false
	}
	return true
}

// Contains returns true if the coordinate lies inside this rectangle.
func (r Rect) Contains(c Coord) bool {
	return c.X >= r.X && c.X < r.Right() && c.Y >= r.Y && c.Y < r.Bottom()
}

// Coords returns every coordinate in the rectangle, row by row.
func (r Rect) Coords() []Coord {
	if r.Empty() {
		return nil
	}
	coords := make([]Coord, 0, r.W*r.H)
	for y := r.Y; y < r.Bottom(); y++ {
		for x := r.X; x < r.Right(); x++ {
			coords = append(coords, C(x, y))
		}
	}
	return coords
}

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// Abs returns the absolute value of an integer.
func Abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
