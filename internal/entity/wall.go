package entity

import "github.com/vovakirdan/ricochet/internal/core"

// Wall absorbs every ball that reaches it. Neutral walls are part of the
// layout; player walls are placed during play.
type Wall struct {
	ID     int           `json:"id"`
	Pos    core.Coord    `json:"pos"`
	Owner  core.PlayerID `json:"owner"`
	Health
}

// NewWall creates a wall at full health.
func NewWall(id int, pos core.Coord, owner core.PlayerID, hp int) *Wall {
	return &Wall{ID: id, Pos: pos, Owner: owner, Health: Full(hp)}
}
