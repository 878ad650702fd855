// Package match binds the movement engine to the economy entities. A Match
// drives tower fire, resolves ball arrivals, regenerates reflector stock,
// runs the monster and item economy and decides the winner.
//
// A Match is not safe for concurrent use: one scheduler calls Update and the
// player operations from a single goroutine.
package match

import (
	"io"
	"math/rand"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/ricochet/internal/ball"
	"github.com/vovakirdan/ricochet/internal/config"
	"github.com/vovakirdan/ricochet/internal/core"
	"github.com/vovakirdan/ricochet/internal/engine"
	"github.com/vovakirdan/ricochet/internal/entity"
	"github.com/vovakirdan/ricochet/internal/grid"
	"github.com/vovakirdan/ricochet/internal/layout"
)

// Player is the per-match state of one seat.
type Player struct {
	ID         core.PlayerID
	Team       core.TeamID
	Zone       *entity.Zone
	Stock      entity.Stock
	Bonuses    entity.Bonuses
	Eliminated bool

	placed []core.Coord // Board reflectors, oldest first
}

// Placed returns the player's board reflectors, oldest first.
func (p *Player) Placed() []core.Coord {
	out := make([]core.Coord, len(p.placed))
	copy(out, p.placed)
	return out
}

// Result describes a finished match.
type Result struct {
	Winner  core.TeamID     `json:"winner"`
	Draw    bool            `json:"draw"`
	Players []core.PlayerID `json:"players"`
	Phase   uint64          `json:"phase"`
	Elapsed float64         `json:"elapsed"`
}

// Option configures a Match.
type Option func(*Match)

// WithLogger sets the logger. The default discards output.
func WithLogger(l *log.Logger) Option {
	return func(m *Match) {
		if l != nil {
			m.log = l
		}
	}
}

// WithSeed sets the random seed. The same seed, layout, config and call
// sequence produce the same events.
func WithSeed(seed int64) Option {
	return func(m *Match) {
		m.seed = seed
	}
}

// Match is one running game.
type Match struct {
	layout *layout.Layout
	cfg    config.MatchConfig
	log    *log.Logger
	seed   int64
	rng    *rand.Rand
	bus    *Bus

	grid    *grid.Grid
	engine  *engine.Engine
	clock   *engine.Clock
	players map[core.PlayerID]*Player
	order   []core.PlayerID
	teams   int // Teams at start

	towers   []*entity.Tower
	cores    []*entity.Core
	monsters []*entity.Monster
	items    []*entity.Item
	walls    []*entity.Wall

	cadence float64
	freeze  float64
	elapsed float64
	nextID  int
	result  *Result
}

// New creates a match on l with the given tuning.
func New(l *layout.Layout, cfg config.MatchConfig, opts ...Option) (*Match, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	m := &Match{
		layout: l,
		cfg:    cfg,
		log:    log.New(io.Discard),
		seed:   1,
		bus:    &Bus{},
	}
	for _, opt := range opts {
		opt(m)
	}
	m.Reset()
	return m, nil
}

// Reset rebuilds every entity from the layout. Subscribers stay attached.
func (m *Match) Reset() {
	m.rng = rand.New(rand.NewSource(m.seed))
	m.grid = m.layout.NewGrid()
	m.engine = engine.New(m.grid, engine.HookFunc(m.arrive))
	m.clock = engine.NewClock(m.cfg.Phase.Duration)
	m.players = make(map[core.PlayerID]*Player, len(m.layout.Players))
	m.order = m.order[:0]
	m.towers, m.cores, m.monsters, m.items, m.walls = nil, nil, nil, nil, nil
	m.cadence, m.freeze, m.elapsed, m.nextID = 0, 0, 0, 0
	m.result = nil

	teams := make(map[core.TeamID]bool)
	for _, lp := range m.layout.Players {
		p := &Player{
			ID:      lp.ID,
			Team:    lp.Team,
			Zone:    &entity.Zone{Player: lp.ID, Team: lp.Team, Bounds: lp.Zone},
			Stock:   entity.NewStock(m.cfg.Reflectors.StockStart, m.cfg.Reflectors.StockCap, m.cfg.Reflectors.Cooldown),
			Bonuses: entity.DefaultBonuses(),
		}
		p.Bonuses.Power = m.cfg.Balls.Power
		p.Bonuses.Speed = m.cfg.Balls.Speed
		m.players[p.ID] = p
		m.order = append(m.order, p.ID)
		teams[p.Team] = true
	}
	m.teams = len(teams)

	for _, t := range m.layout.Towers {
		gate := 0
		if t.Locked {
			gate = m.cfg.Towers.GateHP
		}
		m.towers = append(m.towers, entity.NewTower(m.id(), t.Pos, t.Owner, t.Dir, m.cfg.Towers.HP, gate))
	}
	for _, c := range m.layout.Cores {
		m.cores = append(m.cores, entity.NewCore(m.id(), c.Pos, c.Owner, m.cfg.Cores.HP))
	}
	for _, w := range m.layout.Walls {
		m.walls = append(m.walls, entity.NewWall(m.id(), w, core.Neutral, m.cfg.Walls.NeutralHP))
	}
	for _, pid := range m.order {
		m.topUp(m.players[pid].Zone)
	}
}

func (m *Match) id() int {
	m.nextID++
	return m.nextID
}

// Events returns the match event bus.
func (m *Match) Events() *Bus {
	return m.bus
}

// Config returns the match tuning.
func (m *Match) Config() config.MatchConfig {
	return m.cfg
}

// Layout returns the layout the match was built from.
func (m *Match) Layout() *layout.Layout {
	return m.layout
}

// Player returns the state of a seat.
func (m *Match) Player(id core.PlayerID) (*Player, bool) {
	p, ok := m.players[id]
	return p, ok
}

// Players returns the seat ids in layout order.
func (m *Match) Players() []core.PlayerID {
	out := make([]core.PlayerID, len(m.order))
	copy(out, m.order)
	return out
}

// Over reports whether the match has ended.
func (m *Match) Over() bool {
	return m.result != nil
}

// Result returns the outcome once the match is over.
func (m *Match) Result() (Result, bool) {
	if m.result == nil {
		return Result{}, false
	}
	return *m.result, true
}

// Phase returns the number of phases stepped so far.
func (m *Match) Phase() uint64 {
	return m.engine.Phase()
}

// Elapsed returns the simulated seconds played, excluding time-stops.
func (m *Match) Elapsed() float64 {
	return m.elapsed
}

// PhaseProgress returns how far the current phase has progressed, in [0, 1).
func (m *Match) PhaseProgress() float64 {
	return m.clock.Progress()
}

// Frozen reports whether a time-stop is active.
func (m *Match) Frozen() bool {
	return m.freeze > 0
}

// Update advances the match by delta seconds.
func (m *Match) Update(delta float64) {
	if m.Over() || delta <= 0 {
		return
	}
	if m.freeze > 0 {
		m.freeze -= delta
		if m.freeze > 0 {
			return
		}
		// The part of delta past the end of the freeze still runs.
		delta = -m.freeze
		m.freeze = 0
		m.emit(TimeStopChanged{Active: false})
		if delta <= 0 {
			return
		}
	}
	m.elapsed += delta

	m.tickStock(delta)
	m.tickTowers(delta)

	m.cadence += delta
	for m.cadence >= m.cfg.Phase.SpawnInterval {
		m.cadence -= m.cfg.Phase.SpawnInterval
		m.onCadence()
	}

	for n := m.clock.Advance(delta); n > 0 && !m.Over(); n-- {
		m.runPhase()
	}
	m.checkWin()
}

func (m *Match) emit(e Event) {
	m.bus.Publish(e)
}

func (m *Match) tickStock(delta float64) {
	for _, pid := range m.order {
		p := m.players[pid]
		if p.Eliminated {
			continue
		}
		if p.Stock.Tick(delta) > 0 {
			m.emit(StockChanged{Player: p.ID, Count: p.Stock.Count, Cap: p.Stock.Cap})
		}
	}
}

func (m *Match) tickTowers(delta float64) {
	for _, t := range m.towers {
		if m.eliminated(t.Owner) {
			continue
		}
		if t.Tick(delta) {
			m.emit(TowerRespawned{Tower: t.ID, Pos: t.Pos, Owner: t.Owner, HP: t.HP})
		}
	}
}

func (m *Match) onCadence() {
	for _, t := range m.towers {
		if !t.CanFire() || m.eliminated(t.Owner) {
			continue
		}
		if p, ok := m.players[t.Owner]; ok {
			t.Queue += p.Bonuses.Balls
		}
	}
	m.roam()
	for _, pid := range m.order {
		if z := m.players[pid].Zone; !z.Eliminated {
			m.topUp(z)
		}
	}
}

// runPhase drains at most one queued launch per tower, then steps the engine.
func (m *Match) runPhase() {
	for _, t := range m.towers {
		if !t.CanFire() || t.Queue == 0 {
			continue
		}
		t.Queue--
		p, ok := m.players[t.Owner]
		if !ok {
			continue
		}
		r := m.engine.Launch(t.Owner, p.Bonuses.Power, p.Bonuses.Speed, t.Pos, t.Dir)
		m.emit(BallCreated{
			Ball:  r.Ball.ID,
			Owner: r.Ball.Owner,
			Pos:   r.Pos,
			Dir:   r.Dir,
			Power: r.Ball.Power,
			Speed: r.Ball.Speed,
		})
	}

	res := m.engine.Step()

	parents := make(map[core.Coord]engine.Ended)
	for _, e := range res.Ended {
		if e.Cause == ball.CauseSplit {
			parents[e.Pos] = e
		}
	}
	for _, r := range res.Created {
		m.emit(BallCreated{
			Ball:   r.Ball.ID,
			Owner:  r.Ball.Owner,
			Pos:    r.Pos,
			Dir:    r.Dir,
			Power:  r.Ball.Power,
			Speed:  r.Ball.Speed,
			Parent: parents[r.Pos].Ball,
		})
	}
	m.emit(BallsMoved{Phase: res.Phase, PhaseDuration: m.cfg.Phase.Duration, Moves: res.Moves})
	for _, e := range res.Ended {
		m.emit(BallEnded{Ball: e.Ball, Owner: e.Owner, Pos: e.Pos, Cause: e.Cause})
	}
	m.checkWin()
}

func (m *Match) eliminated(id core.PlayerID) bool {
	p, ok := m.players[id]
	return !ok || p.Eliminated
}
