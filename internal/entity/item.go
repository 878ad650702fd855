package entity

import "github.com/vovakirdan/ricochet/internal/core"

// ItemKind is the effect of a dropped item.
type ItemKind uint8

const (
	ItemPower ItemKind = iota
	ItemExtraBall
	ItemSpeed
	ItemCapacity
	ItemTimeStop
)

// String returns the string representation of an item kind.
func (k ItemKind) String() string {
	switch k {
	case ItemPower:
		return "power"
	case ItemExtraBall:
		return "extra-ball"
	case ItemSpeed:
		return "speed"
	case ItemCapacity:
		return "capacity"
	case ItemTimeStop:
		return "time-stop"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k ItemKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Item lies on the board until a ball picks it up.
type Item struct {
	ID       int        `json:"id"`
	Kind     ItemKind   `json:"kind"`
	Pos      core.Coord `json:"pos"`
	PickedUp bool       `json:"picked_up"`
}

// Bonuses are the permanent, stacking upgrades a player has collected.
type Bonuses struct {
	Power     int     `json:"power"`      // Damage per arrival
	Balls     int     `json:"balls"`      // Launches per tower per cadence
	Speed     float64 `json:"speed"`      // Speed multiplier
	Capacity  int     `json:"capacity"`   // Extra board reflectors
	TimeStops int     `json:"time_stops"` // Unused time-stop items
}

// DefaultBonuses is the starting state of every player.
func DefaultBonuses() Bonuses {
	return Bonuses{Power: 1, Balls: 1, Speed: 1}
}
