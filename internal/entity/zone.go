package entity

import "github.com/vovakirdan/ricochet/internal/core"

// Zone is a player's board region. Monsters roam and respawn inside it.
type Zone struct {
	Player     core.PlayerID `json:"player"`
	Team       core.TeamID   `json:"team"`
	Bounds     core.Rect     `json:"bounds"`
	Eliminated bool          `json:"eliminated"`
	Generation int           `json:"generation"` // Monster respawns so far
	Kills      int           `json:"kills"`
}

// Contains reports whether c lies inside the zone.
func (z *Zone) Contains(c core.Coord) bool {
	return z.Bounds.Contains(c)
}
