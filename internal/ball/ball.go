// Package ball defines projectiles and their per-match travel state.
package ball

import "github.com/vovakirdan/ricochet/internal/core"

// ID identifies a projectile within a match.
type ID int

// Ball is a projectile's identity. Power and Speed are patched in place when
// the owner collects upgrades.
type Ball struct {
	ID    ID            `json:"id"`
	Owner core.PlayerID `json:"owner"`
	Power int           `json:"power"`
	Speed float64       `json:"speed"`
}

// Cause records why a run ended.
type Cause uint8

const (
	CauseNone Cause = iota
	CauseBlocked
	CauseCaptured
	CauseSplit
	CauseCrash
	CauseLoop
	CauseUnlinkedPortal
)

// String returns the string representation of a cause.
func (c Cause) String() string {
	switch c {
	case CauseNone:
		return "none"
	case CauseBlocked:
		return "blocked"
	case CauseCaptured:
		return "captured"
	case CauseSplit:
		return "split"
	case CauseCrash:
		return "crash"
	case CauseLoop:
		return "loop"
	case CauseUnlinkedPortal:
		return "unlinked-portal"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (c Cause) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}
