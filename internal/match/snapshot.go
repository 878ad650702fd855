package match

import (
	"github.com/vovakirdan/ricochet/internal/ball"
	"github.com/vovakirdan/ricochet/internal/core"
	"github.com/vovakirdan/ricochet/internal/entity"
	"github.com/vovakirdan/ricochet/internal/grid"
	"github.com/vovakirdan/ricochet/internal/tiles"
)

// Snapshot is a read-only copy of the visible match state.
type Snapshot struct {
	Width      int              `json:"width"`
	Height     int              `json:"height"`
	Phase      uint64           `json:"phase"`
	Progress   float64          `json:"progress"`
	Elapsed    float64          `json:"elapsed"`
	Frozen     float64          `json:"frozen"` // Seconds of time-stop left
	Tiles      []TileView       `json:"tiles"`
	Reflectors []grid.Reflector `json:"reflectors"`
	Towers     []entity.Tower   `json:"towers"`
	Cores      []entity.Core    `json:"cores"`
	Monsters   []entity.Monster `json:"monsters"`
	Items      []entity.Item    `json:"items"`
	Walls      []entity.Wall    `json:"walls"`
	Balls      []BallView       `json:"balls"`
	Players    []PlayerView     `json:"players"`
	Result     *Result          `json:"result,omitempty"`
}

// TileView is one board cell.
type TileView struct {
	Pos       core.Coord       `json:"pos"`
	Kind      tiles.Kind       `json:"kind"`
	Name      string           `json:"name"`
	Passable  bool             `json:"passable"`
	Reflector core.Orientation `json:"reflector"` // Fixed catalog reflector
}

// BallView is one ball in flight.
type BallView struct {
	ball.Ball
	Pos       core.Coord `json:"pos"`
	Dir       core.Dir   `json:"dir"`
	InTransit bool       `json:"in_transit"`
}

// PlayerView is one seat's public state.
type PlayerView struct {
	ID         core.PlayerID  `json:"id"`
	Team       core.TeamID    `json:"team"`
	Zone       core.Rect      `json:"zone"`
	Stock      entity.Stock   `json:"stock"`
	Bonuses    entity.Bonuses `json:"bonuses"`
	BoardCap   int            `json:"board_cap"`
	OnBoard    int            `json:"on_board"`
	Eliminated bool           `json:"eliminated"`
}

// Snapshot copies the current state for renderers and bots.
func (m *Match) Snapshot() Snapshot {
	s := Snapshot{
		Width:      m.grid.Width(),
		Height:     m.grid.Height(),
		Phase:      m.engine.Phase(),
		Progress:   m.clock.Progress(),
		Elapsed:    m.elapsed,
		Frozen:     m.freeze,
		Reflectors: m.grid.Reflectors(),
	}

	for _, c := range m.grid.Coords() {
		t, _ := m.grid.TileAt(c)
		s.Tiles = append(s.Tiles, TileView{
			Pos:       c,
			Kind:      t.Kind,
			Name:      t.Props.Name,
			Passable:  t.Props.Passable,
			Reflector: t.Props.FixedReflector,
		})
	}
	for _, t := range m.towers {
		tw := *t
		if t.Gate != nil {
			g := *t.Gate
			tw.Gate = &g
		}
		s.Towers = append(s.Towers, tw)
	}
	for _, c := range m.cores {
		s.Cores = append(s.Cores, *c)
	}
	for _, mon := range m.monsters {
		s.Monsters = append(s.Monsters, *mon)
	}
	for _, it := range m.items {
		s.Items = append(s.Items, *it)
	}
	for _, w := range m.walls {
		s.Walls = append(s.Walls, *w)
	}
	for _, r := range m.engine.Runs() {
		s.Balls = append(s.Balls, BallView{Ball: *r.Ball, Pos: r.Pos, Dir: r.Dir, InTransit: r.InTransit()})
	}
	for _, pid := range m.order {
		p := m.players[pid]
		s.Players = append(s.Players, PlayerView{
			ID:         p.ID,
			Team:       p.Team,
			Zone:       p.Zone.Bounds,
			Stock:      p.Stock,
			Bonuses:    p.Bonuses,
			BoardCap:   m.boardCap(p.ID),
			OnBoard:    len(p.placed),
			Eliminated: p.Eliminated,
		})
	}
	if m.result != nil {
		r := *m.result
		s.Result = &r
	}
	return s
}

// TowerAt returns the tower on c in the snapshot.
func (s *Snapshot) TowerAt(c core.Coord) (entity.Tower, bool) {
	for _, t := range s.Towers {
		if t.Pos == c {
			return t, true
		}
	}
	return entity.Tower{}, false
}

// CoreAt returns the core on c in the snapshot.
func (s *Snapshot) CoreAt(c core.Coord) (entity.Core, bool) {
	for _, cr := range s.Cores {
		if cr.Pos == c {
			return cr, true
		}
	}
	return entity.Core{}, false
}

// WallAt returns the wall on c in the snapshot.
func (s *Snapshot) WallAt(c core.Coord) (entity.Wall, bool) {
	for _, w := range s.Walls {
		if w.Pos == c {
			return w, true
		}
	}
	return entity.Wall{}, false
}

// Player returns a seat's view.
func (s *Snapshot) Player(id core.PlayerID) (PlayerView, bool) {
	for _, p := range s.Players {
		if p.ID == id {
			return p, true
		}
	}
	return PlayerView{}, false
}
