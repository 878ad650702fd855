package entity

import (
	"math"
	"math/rand"

	"github.com/vovakirdan/ricochet/internal/core"
)

// MonsterKind is a monster tier.
type MonsterKind uint8

const (
	Slime  MonsterKind = iota // common
	Bat                       // uncommon
	Golem                     // rare
	Dragon                    // ultra-rare
)

// AllMonsterKinds lists the tiers in spawn-weight order.
var AllMonsterKinds = [4]MonsterKind{Slime, Bat, Golem, Dragon}

// String returns the string representation of a monster kind.
func (k MonsterKind) String() string {
	switch k {
	case Slime:
		return "slime"
	case Bat:
		return "bat"
	case Golem:
		return "golem"
	case Dragon:
		return "dragon"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k MonsterKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Drop returns the item a monster of this kind leaves behind.
func (k MonsterKind) Drop() ItemKind {
	switch k {
	case Bat:
		return ItemCapacity
	case Golem:
		return ItemSpeed
	case Dragon:
		return ItemExtraBall
	default:
		return ItemPower
	}
}

// SpawnWeights are the relative odds of each tier, indexed by MonsterKind.
type SpawnWeights [4]int

// DefaultSpawnWeights returns the standard tier distribution.
func DefaultSpawnWeights() SpawnWeights {
	return SpawnWeights{60, 25, 12, 3}
}

// Pick chooses a monster kind using rng.
func (w SpawnWeights) Pick(rng *rand.Rand) MonsterKind {
	total := 0
	for _, n := range w {
		total += max(0, n)
	}
	if total == 0 {
		return Slime
	}
	roll := rng.Intn(total)
	for i, n := range w {
		roll -= max(0, n)
		if roll < 0 {
			return MonsterKind(i)
		}
	}
	return Slime
}

// Monster roams a zone and drops an item when killed.
type Monster struct {
	ID     int           `json:"id"`
	Kind   MonsterKind   `json:"kind"`
	Pos    core.Coord    `json:"pos"`
	Zone   core.PlayerID `json:"zone"`
	Health
	Active bool `json:"active"`
}

// MonsterHP returns the hit points of a monster spawned at the given zone
// generation: ceil(base * 1.1^generation).
func MonsterHP(base, generation int) int {
	return int(math.Ceil(float64(base)*math.Pow(1.1, float64(generation)) - 1e-9))
}

// NewMonster creates an active monster.
func NewMonster(id int, kind MonsterKind, pos core.Coord, zone core.PlayerID, hp int) *Monster {
	return &Monster{ID: id, Kind: kind, Pos: pos, Zone: zone, Health: Full(hp), Active: true}
}

// Hit applies a ball of the given power. It reports whether the monster died
// and how much power is left over after the kill.
func (m *Monster) Hit(power int) (killed bool, surplus int) {
	if !m.Active {
		return false, power
	}
	hp := m.HP
	if !m.Damage(power) {
		return false, 0
	}
	m.Active = false
	return true, power - hp
}
