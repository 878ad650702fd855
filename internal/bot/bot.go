// Package bot drives a seat with random placements. Bots act only through
// the public match API, the same way a human client does.
package bot

import (
	"math/rand"

	"github.com/vovakirdan/ricochet/internal/config"
	"github.com/vovakirdan/ricochet/internal/core"
	"github.com/vovakirdan/ricochet/internal/match"
)

// timeStopChance is the chance per action to spend a held time-stop.
const timeStopChance = 0.1

// maxAttempts bounds the placements tried per action.
const maxAttempts = 8

// Actor is the part of a match a bot may touch.
type Actor interface {
	Snapshot() match.Snapshot
	PlaceReflector(player core.PlayerID, x, y int, o core.Orientation) bool
	PlaceWall(player core.PlayerID, x, y int) bool
	UseTimeStop(player core.PlayerID) bool
}

var _ Actor = (*match.Match)(nil)

// Bot is a random opponent for one seat.
type Bot struct {
	Player core.PlayerID

	interval   float64
	wallChance float64
	rng        *rand.Rand
	acc        float64
	actions    int
}

// New creates a bot for player using the bot tuning from cfg.
func New(player core.PlayerID, cfg config.MatchConfig, seed int64) *Bot {
	return &Bot{
		Player:     player,
		interval:   cfg.Bots.Interval,
		wallChance: cfg.Bots.WallChance,
		rng:        rand.New(rand.NewSource(seed + int64(player))),
	}
}

// Actions returns how many actions the bot has landed.
func (b *Bot) Actions() int {
	return b.actions
}

// Update advances the bot clock by delta seconds and acts once per elapsed
// interval. It returns the number of actions that were accepted.
func (b *Bot) Update(a Actor, delta float64) int {
	if b.interval <= 0 || delta <= 0 {
		return 0
	}
	b.acc += delta
	done := 0
	for b.acc >= b.interval {
		b.acc -= b.interval
		if b.Act(a) {
			done++
		}
	}
	return done
}

// Act takes one random action and reports whether the match accepted it.
func (b *Bot) Act(a Actor) bool {
	snap := a.Snapshot()
	if snap.Result != nil {
		return false
	}
	me, ok := snap.Player(b.Player)
	if !ok || me.Eliminated {
		return false
	}

	ok = b.choose(a, &snap, me)
	if ok {
		b.actions++
	}
	return ok
}

func (b *Bot) choose(a Actor, snap *match.Snapshot, me match.PlayerView) bool {
	if me.Bonuses.TimeStops > 0 && snap.Frozen == 0 && b.rng.Float64() < timeStopChance {
		if a.UseTimeStop(b.Player) {
			return true
		}
	}

	cells := candidates(snap)

	if b.rng.Float64() < b.wallChance {
		var zone []core.Coord
		for _, c := range cells {
			if me.Zone.Contains(c) {
				zone = append(zone, c)
			}
		}
		for i := 0; i < maxAttempts && len(zone) > 0; i++ {
			c := zone[b.rng.Intn(len(zone))]
			if a.PlaceWall(b.Player, c.X, c.Y) {
				return true
			}
		}
	}

	// Out of stock or at the board cap: turn one of our own reflectors.
	if me.Stock.Count == 0 || me.OnBoard >= me.BoardCap {
		if own := b.own(snap); len(own) > 0 {
			c := own[b.rng.Intn(len(own))]
			return a.PlaceReflector(b.Player, c.X, c.Y, b.orientation())
		}
		return false
	}

	for i := 0; i < maxAttempts && len(cells) > 0; i++ {
		c := cells[b.rng.Intn(len(cells))]
		if a.PlaceReflector(b.Player, c.X, c.Y, b.orientation()) {
			return true
		}
	}
	return false
}

func (b *Bot) orientation() core.Orientation {
	return core.AllOrientations[b.rng.Intn(len(core.AllOrientations))]
}

func (b *Bot) own(snap *match.Snapshot) []core.Coord {
	var out []core.Coord
	for _, r := range snap.Reflectors {
		if r.Owner == b.Player {
			out = append(out, r.Pos)
		}
	}
	return out
}

// candidates lists passable tiles that hold no fixed reflector, no player
// reflector and no entity.
func candidates(snap *match.Snapshot) []core.Coord {
	taken := make(map[core.Coord]bool)
	for _, r := range snap.Reflectors {
		taken[r.Pos] = true
	}
	for _, t := range snap.Towers {
		taken[t.Pos] = true
	}
	for _, c := range snap.Cores {
		taken[c.Pos] = true
	}
	for _, w := range snap.Walls {
		taken[w.Pos] = true
	}
	for _, m := range snap.Monsters {
		taken[m.Pos] = true
	}
	for _, it := range snap.Items {
		taken[it.Pos] = true
	}

	var out []core.Coord
	for _, t := range snap.Tiles {
		if t.Passable && t.Reflector == core.OrientNone && !taken[t.Pos] {
			out = append(out, t.Pos)
		}
	}
	return out
}
