package room

import (
	"github.com/vovakirdan/ricochet/internal/core"
	"github.com/vovakirdan/ricochet/internal/match"
)

// Command is a player action queued for the room goroutine.
type Command interface {
	// Seat returns the player issuing the command.
	Seat() core.PlayerID

	apply(m *match.Match) bool
}

// PlaceReflector places or turns a reflector.
type PlaceReflector struct {
	Player      core.PlayerID    `json:"player"`
	X           int              `json:"x"`
	Y           int              `json:"y"`
	Orientation core.Orientation `json:"orientation"`
}

// RemoveReflector takes a reflector off the board.
type RemoveReflector struct {
	Player core.PlayerID `json:"player"`
	X      int           `json:"x"`
	Y      int           `json:"y"`
}

// PlaceWall builds a wall.
type PlaceWall struct {
	Player core.PlayerID `json:"player"`
	X      int           `json:"x"`
	Y      int           `json:"y"`
}

// UseTimeStop spends a time-stop.
type UseTimeStop struct {
	Player core.PlayerID `json:"player"`
}

// Leave eliminates the player.
type Leave struct {
	Player core.PlayerID `json:"player"`
}

func (c PlaceReflector) Seat() core.PlayerID  { return c.Player }
func (c RemoveReflector) Seat() core.PlayerID { return c.Player }
func (c PlaceWall) Seat() core.PlayerID       { return c.Player }
func (c UseTimeStop) Seat() core.PlayerID     { return c.Player }
func (c Leave) Seat() core.PlayerID           { return c.Player }

func (c PlaceReflector) apply(m *match.Match) bool {
	return m.PlaceReflector(c.Player, c.X, c.Y, c.Orientation)
}

func (c RemoveReflector) apply(m *match.Match) bool {
	return m.RemoveReflector(c.Player, c.X, c.Y)
}

func (c PlaceWall) apply(m *match.Match) bool {
	return m.PlaceWall(c.Player, c.X, c.Y)
}

func (c UseTimeStop) apply(m *match.Match) bool {
	return m.UseTimeStop(c.Player)
}

func (c Leave) apply(m *match.Match) bool {
	m.EliminatePlayer(c.Player)
	return true
}
