package entity

import "github.com/vovakirdan/ricochet/internal/core"

// Core is a player's base. A team is eliminated when none of its cores is
// active.
type Core struct {
	ID     int           `json:"id"`
	Pos    core.Coord    `json:"pos"`
	Owner  core.PlayerID `json:"owner"`
	Health
	Active bool          `json:"active"`
}

// NewCore creates an active core at full health.
func NewCore(id int, pos core.Coord, owner core.PlayerID, hp int) *Core {
	return &Core{ID: id, Pos: pos, Owner: owner, Health: Full(hp), Active: true}
}

// Damage applies n damage and reports whether the core was destroyed.
func (c *Core) Damage(n int) bool {
	if !c.Active {
		return false
	}
	if !c.Health.Damage(n) {
		return false
	}
	c.Active = false
	return true
}

// Capture hands the core to a new owner, reactivated at full health.
func (c *Core) Capture(owner core.PlayerID) {
	c.Owner = owner
	c.Active = true
	c.Restore()
}
