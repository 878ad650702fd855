// Package entity holds the economy objects of a match: towers, cores,
// monsters, dropped items, walls, reflector stock and zones. Entities know
// nothing about balls; the match orchestrator drives them.
package entity

// Health is a bounded hit point pool.
type Health struct {
	HP    int `json:"hp"`
	MaxHP int `json:"max_hp"`
}

// Full creates a health pool at max.
func Full(maxHP int) Health {
	return Health{HP: maxHP, MaxHP: maxHP}
}

// Damage subtracts n, flooring at zero, and reports whether the pool is
// now empty.
func (h *Health) Damage(n int) bool {
	h.HP = max(0, h.HP-n)
	return h.HP == 0
}

// Heal adds n, capped at max, and returns the amount actually healed.
func (h *Health) Heal(n int) int {
	before := h.HP
	h.HP = min(h.MaxHP, h.HP+n)
	return h.HP - before
}

// Restore refills the pool.
func (h *Health) Restore() {
	h.HP = h.MaxHP
}

// Empty reports whether no hit points remain.
func (h Health) Empty() bool {
	return h.HP <= 0
}
