package match

import (
	"github.com/vovakirdan/ricochet/internal/core"
	"github.com/vovakirdan/ricochet/internal/entity"
)

// PlaceReflector puts a reflector of player on (x, y). Placing a new
// reflector costs one stock unit; turning one of the player's own
// reflectors is free. Rejected placements return false.
func (m *Match) PlaceReflector(player core.PlayerID, x, y int, o core.Orientation) bool {
	defer m.checkWin()

	p, ok := m.active(player)
	if !ok {
		return false
	}
	c := core.C(x, y)

	if existing, ok := m.grid.Overlay(x, y); ok && existing.Owner == player {
		if existing.Orientation == o {
			return true
		}
		if err := m.grid.PlaceReflector(x, y, o, player); err != nil {
			m.log.Debug("reflector rejected", "player", player, "pos", c, "err", err)
			return false
		}
		m.emit(ReflectorPlaced{Pos: c, Owner: player, Orientation: o, Replaced: true})
		return true
	}

	if m.occupied(c) {
		m.log.Debug("reflector rejected", "player", player, "pos", c, "err", "tile occupied")
		return false
	}
	if p.Stock.Count <= 0 {
		m.log.Debug("reflector rejected", "player", player, "pos", c, "err", "no stock")
		return false
	}
	if err := m.grid.PlaceReflector(x, y, o, player); err != nil {
		m.log.Debug("reflector rejected", "player", player, "pos", c, "err", err)
		return false
	}

	p.Stock.Take()
	p.placed = append(p.placed, c)
	m.emit(ReflectorPlaced{Pos: c, Owner: player, Orientation: o})
	m.emit(StockChanged{Player: player, Count: p.Stock.Count, Cap: p.Stock.Cap})
	m.enforceBoardCap(player)
	return true
}

// RemoveReflector takes one of player's reflectors off (x, y). Stock is not
// refunded.
func (m *Match) RemoveReflector(player core.PlayerID, x, y int) bool {
	defer m.checkWin()

	p, ok := m.active(player)
	if !ok {
		return false
	}
	existing, ok := m.grid.Overlay(x, y)
	if !ok || existing.Owner != player {
		return false
	}
	m.grid.RemoveReflector(x, y)
	p.forget(existing.Pos)
	m.emit(ReflectorRemoved{Pos: existing.Pos, Owner: player})
	return true
}

// PlaceWall builds a player wall on a free tile inside the player's zone.
func (m *Match) PlaceWall(player core.PlayerID, x, y int) bool {
	defer m.checkWin()

	p, ok := m.active(player)
	if !ok {
		return false
	}
	c := core.C(x, y)
	if !p.Zone.Contains(c) {
		m.log.Debug("wall rejected", "player", player, "pos", c, "err", "outside zone")
		return false
	}
	if !m.free(c) || m.ballAt(c) {
		m.log.Debug("wall rejected", "player", player, "pos", c, "err", "tile occupied")
		return false
	}
	owned := 0
	for _, w := range m.walls {
		if w.Owner == player {
			owned++
		}
	}
	if owned >= m.cfg.Walls.MaxPerPlayer {
		m.log.Debug("wall rejected", "player", player, "pos", c, "err", "wall limit")
		return false
	}

	w := entity.NewWall(m.id(), c, player, m.cfg.Walls.HP)
	m.walls = append(m.walls, w)
	m.emit(WallPlaced{Wall: w.ID, Pos: c, Owner: player, HP: w.HP})
	return true
}

// UseTimeStop spends one of player's time-stops and freezes the match.
func (m *Match) UseTimeStop(player core.PlayerID) bool {
	defer m.checkWin()

	p, ok := m.active(player)
	if !ok || p.Bonuses.TimeStops <= 0 || m.Frozen() || m.cfg.TimeStop.Duration <= 0 {
		return false
	}
	p.Bonuses.TimeStops--
	m.freeze = m.cfg.TimeStop.Duration
	m.emit(TimeStopChanged{Player: player, Count: p.Bonuses.TimeStops, Active: true, Remaining: m.freeze})
	return true
}

// EliminatePlayer removes a player from the match, for example on
// disconnect.
func (m *Match) EliminatePlayer(player core.PlayerID) {
	defer m.checkWin()

	if m.Over() {
		return
	}
	m.eliminate(player, "left")
}

func (m *Match) active(player core.PlayerID) (*Player, bool) {
	if m.Over() {
		return nil, false
	}
	p, ok := m.players[player]
	if !ok || p.Eliminated {
		return nil, false
	}
	return p, true
}
