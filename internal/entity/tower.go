package entity

import "github.com/vovakirdan/ricochet/internal/core"

// Tower launches balls for its owner. A tower with a Gate stays locked until
// the gate is broken.
type Tower struct {
	ID     int           `json:"id"`
	Pos    core.Coord    `json:"pos"`
	Owner  core.PlayerID `json:"owner"`
	Dir    core.Dir      `json:"dir"`
	Health
	Active bool          `json:"active"`
	Gate   *Health       `json:"gate,omitempty"`

	Destructions int     `json:"destructions"` // Never resets
	RespawnIn    float64 `json:"respawn_in"`   // Seconds until respawn, while destroyed
	Queue        int     `json:"queue"`        // Pending launches
}

// NewTower creates an active tower. A positive gateHP creates it locked.
func NewTower(id int, pos core.Coord, owner core.PlayerID, dir core.Dir, hp, gateHP int) *Tower {
	t := &Tower{
		ID:     id,
		Pos:    pos,
		Owner:  owner,
		Dir:    dir,
		Health: Full(hp),
		Active: gateHP <= 0,
	}
	if gateHP > 0 {
		g := Full(gateHP)
		t.Gate = &g
	}
	return t
}

// Locked reports whether the tower is still behind an unbroken gate.
func (t *Tower) Locked() bool {
	return t.Gate != nil && !t.Gate.Empty()
}

// Destroyed reports whether the tower is down and waiting to respawn.
func (t *Tower) Destroyed() bool {
	return !t.Active && !t.Locked()
}

// CanFire reports whether the tower takes part in the fire cadence.
func (t *Tower) CanFire() bool {
	return t.Active && !t.Locked()
}

// Damage applies n damage. When hp reaches zero the tower deactivates, its
// queue is cleared and a respawn timer of base + increment*(destructions-1)
// seconds starts. It reports whether the tower was destroyed.
func (t *Tower) Damage(n int, base, increment float64) bool {
	if !t.Active {
		return false
	}
	if !t.Health.Damage(n) {
		return false
	}
	t.Active = false
	t.Queue = 0
	t.Destructions++
	t.RespawnIn = RespawnDelay(t.Destructions, base, increment)
	return true
}

// RespawnDelay returns the respawn time after the given destruction count.
func RespawnDelay(destructions int, base, increment float64) float64 {
	if destructions < 1 {
		destructions = 1
	}
	return base + increment*float64(destructions-1)
}

// Tick counts down the respawn timer and reports whether the tower respawned.
func (t *Tower) Tick(delta float64) bool {
	if !t.Destroyed() {
		return false
	}
	t.RespawnIn -= delta
	if t.RespawnIn > 0 {
		return false
	}
	t.Revive()
	return true
}

// Revive reactivates the tower at full health and clears its timer.
func (t *Tower) Revive() {
	t.Active = true
	t.RespawnIn = 0
	t.Queue = 0
	t.Restore()
}

// DamageGate applies n damage to the gate and reports whether it broke. A
// broken gate activates the tower at full health.
func (t *Tower) DamageGate(n int) bool {
	if !t.Locked() {
		return false
	}
	if !t.Gate.Damage(n) {
		return false
	}
	t.Revive()
	return true
}
