package match

import (
	"testing"

	"github.com/vovakirdan/ricochet/internal/ball"
	"github.com/vovakirdan/ricochet/internal/config"
	"github.com/vovakirdan/ricochet/internal/core"
	"github.com/vovakirdan/ricochet/internal/engine"
	"github.com/vovakirdan/ricochet/internal/layout"
)

type recorder struct {
	events []Event
}

func (r *recorder) Handle(e Event) {
	r.events = append(r.events, e)
}

func eventsOf[T Event](r *recorder) []T {
	var out []T
	for _, e := range r.events {
		if v, ok := e.(T); ok {
			out = append(out, v)
		}
	}
	return out
}

// quietConfig disables tower fire and monsters so tests control every ball.
func quietConfig() config.MatchConfig {
	cfg := config.Default()
	cfg.Phase.SpawnInterval = 1000
	cfg.Monsters.PerZone = 0
	return cfg
}

func newMatch(t *testing.T, l *layout.Layout, cfg config.MatchConfig) (*Match, *recorder) {
	t.Helper()
	m, err := New(l, cfg, WithSeed(7))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	rec := &recorder{}
	m.Events().Subscribe(rec)
	return m, rec
}

func duel(t *testing.T) *layout.Layout {
	t.Helper()
	l, err := layout.Builtin("duel")
	if err != nil {
		t.Fatalf("Builtin(duel) failed: %v", err)
	}
	return l
}

func parseLayout(t *testing.T, data string) *layout.Layout {
	t.Helper()
	l, err := layout.Parse([]byte(data), nil)
	if err != nil {
		t.Fatalf("layout.Parse() failed: %v", err)
	}
	return l
}

// hit drives one arrival of a ball owned by owner with the given power.
func hit(t *testing.T, m *Match, x, y int, owner core.PlayerID, power int) engine.Outcome {
	t.Helper()
	tile, ok := m.grid.Tile(x, y)
	if !ok {
		t.Fatalf("no tile at (%d,%d)", x, y)
	}
	r := ball.NewRun(&ball.Ball{ID: 999, Owner: owner, Power: power, Speed: 1}, tile.Pos, core.DirRight, 999)
	return m.arrive(r, tile)
}
