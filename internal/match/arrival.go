package match

import (
	"github.com/vovakirdan/ricochet/internal/ball"
	"github.com/vovakirdan/ricochet/internal/core"
	"github.com/vovakirdan/ricochet/internal/engine"
	"github.com/vovakirdan/ricochet/internal/entity"
	"github.com/vovakirdan/ricochet/internal/grid"
)

// arrive resolves a ball reaching a tile. The first entity that applies
// decides the outcome: item, monster, wall, tower box, tower, core. Items
// never capture and an overkill on a monster carries the surplus power on
// to the rest of the checks.
func (m *Match) arrive(r *ball.Run, t *grid.Tile) engine.Outcome {
	pos := t.Pos
	by := r.Ball.Owner

	if it := m.itemAt(pos); it != nil {
		m.pickup(it, by)
	}

	if mon := m.monsterAt(pos); mon != nil {
		killed, surplus := mon.Hit(r.Ball.Power)
		if !killed {
			m.emit(MonsterDamaged{Monster: mon.ID, Pos: pos, By: by, HP: mon.HP, MaxHP: mon.MaxHP})
			return engine.Capture
		}
		m.kill(mon, by)
		if surplus <= 0 {
			return engine.Capture
		}
		r.Ball.Power = surplus
	}

	if w := m.wallAt(pos); w != nil {
		destroyed := w.Damage(r.Ball.Power)
		m.emit(WallDamaged{Wall: w.ID, Pos: pos, By: by, HP: w.HP, MaxHP: w.MaxHP})
		if destroyed {
			m.removeWall(w)
			m.emit(WallDestroyed{Wall: w.ID, Pos: pos, By: by})
		}
		return engine.Capture
	}

	if tw := m.towerAt(pos); tw != nil {
		return m.hitTower(tw, r.Ball.Power, by)
	}

	if c := m.coreAt(pos); c != nil && c.Active {
		m.hitCore(c, r.Ball.Power, by)
		return engine.Capture
	}

	return engine.Pass
}

func (m *Match) hitTower(t *entity.Tower, power int, by core.PlayerID) engine.Outcome {
	if t.Locked() {
		broke := t.DamageGate(power)
		m.emit(TowerDamaged{
			Tower: t.ID, Pos: t.Pos, Owner: t.Owner, By: by,
			HP: t.Gate.HP, MaxHP: t.Gate.MaxHP, Gate: true,
		})
		if broke {
			m.emit(TowerUnlocked{Tower: t.ID, Pos: t.Pos, Owner: t.Owner, By: by})
		}
		return engine.Capture
	}
	if !t.Active {
		return engine.Pass
	}

	if t.Owner == by {
		if t.Heal(power) > 0 {
			m.emit(TowerHealed{Tower: t.ID, Pos: t.Pos, HP: t.HP, MaxHP: t.MaxHP})
		}
		return engine.Capture
	}

	destroyed := t.Damage(power, m.cfg.Towers.RespawnBase, m.cfg.Towers.RespawnIncrement)
	m.emit(TowerDamaged{Tower: t.ID, Pos: t.Pos, Owner: t.Owner, By: by, HP: t.HP, MaxHP: t.MaxHP})
	if destroyed {
		m.emit(TowerDestroyed{Tower: t.ID, Pos: t.Pos, Owner: t.Owner, By: by, RespawnIn: t.RespawnIn})
		m.enforceBoardCap(t.Owner)
	}
	return engine.Capture
}

func (m *Match) hitCore(c *entity.Core, power int, by core.PlayerID) {
	if c.Owner == by {
		if c.Heal(power) > 0 {
			m.emit(CoreHealed{Core: c.ID, Pos: c.Pos, HP: c.HP, MaxHP: c.MaxHP})
		}
		return
	}

	destroyed := c.Damage(power)
	m.emit(CoreDamaged{Core: c.ID, Pos: c.Pos, Owner: c.Owner, By: by, HP: c.HP, MaxHP: c.MaxHP})
	if destroyed {
		m.emit(CoreDestroyed{Core: c.ID, Pos: c.Pos, Owner: c.Owner, By: by})
		m.onCoreDestroyed(c, by)
	}
}

// onCoreDestroyed hands the core to a live attacker. When it was the old
// owner's last active core, their towers follow and the old owner is
// eliminated. With no live attacker the core simply stays down.
func (m *Match) onCoreDestroyed(c *entity.Core, by core.PlayerID) {
	old := c.Owner
	last := m.activeCores(old) == 0
	attacker, ok := m.players[by]
	live := ok && !attacker.Eliminated && by != old

	if !live {
		m.log.Debug("core destroyed without transfer", "core", c.ID, "owner", old, "by", by)
		if last {
			m.eliminate(old, "core destroyed")
		}
		return
	}

	c.Capture(by)
	ev := OwnershipTransferred{From: old, To: by, Cores: []int{c.ID}}

	if last {
		for _, t := range m.towers {
			if t.Owner != old {
				continue
			}
			t.Owner = by
			if t.Destroyed() {
				t.Revive()
				m.emit(TowerRespawned{Tower: t.ID, Pos: t.Pos, Owner: t.Owner, HP: t.HP})
			}
			ev.Towers = append(ev.Towers, t.ID)
		}
	}
	m.emit(ev)
	m.log.Info("ownership transferred", "from", old, "to", by, "cores", len(ev.Cores), "towers", len(ev.Towers))

	if last {
		m.eliminate(old, "core captured")
	}
	m.enforceBoardCap(by)
}

func (m *Match) activeCores(owner core.PlayerID) int {
	n := 0
	for _, c := range m.cores {
		if c.Active && c.Owner == owner {
			n++
		}
	}
	return n
}

// eliminate removes a player from play. Their remaining towers and cores go
// dark, queued launches are dropped and their reflectors leave the board.
// Balls already in flight keep flying.
func (m *Match) eliminate(id core.PlayerID, reason string) {
	p, ok := m.players[id]
	if !ok || p.Eliminated {
		return
	}
	p.Eliminated = true
	p.Zone.Eliminated = true

	for _, t := range m.towers {
		if t.Owner == id {
			t.Active = false
			t.Queue = 0
			t.RespawnIn = 0
		}
	}
	for _, c := range m.cores {
		if c.Owner == id {
			c.Active = false
		}
	}
	for _, r := range m.grid.RemoveOwnedBy(id) {
		m.emit(ReflectorRemoved{Pos: r.Pos, Owner: r.Owner})
	}
	p.placed = nil

	m.emit(PlayerEliminated{Player: id, Reason: reason})
	m.log.Info("player eliminated", "player", id, "reason", reason)
}

// checkWin ends the match once at most one team holds an active core. A
// layout that starts with a single team only ends when no core is left.
func (m *Match) checkWin() {
	if m.Over() {
		return
	}

	holding := make(map[core.TeamID]bool)
	for _, c := range m.cores {
		if !c.Active {
			continue
		}
		if p, ok := m.players[c.Owner]; ok && !p.Eliminated {
			holding[p.Team] = true
		}
	}

	threshold := 1
	if m.teams < 2 {
		threshold = 0
	}
	if len(holding) > threshold {
		return
	}

	res := &Result{Draw: len(holding) == 0, Phase: m.engine.Phase(), Elapsed: m.elapsed}
	for team := range holding {
		res.Winner = team
	}
	for _, pid := range m.order {
		if !res.Draw && m.players[pid].Team == res.Winner {
			res.Players = append(res.Players, pid)
		}
	}
	m.result = res

	m.emit(GameOver{
		Winner:  res.Winner,
		Draw:    res.Draw,
		Players: res.Players,
		Phase:   res.Phase,
		Elapsed: res.Elapsed,
	})
	m.log.Info("match over", "winner", res.Winner, "draw", res.Draw, "phase", res.Phase, "elapsed", res.Elapsed)
}

func (m *Match) itemAt(c core.Coord) *entity.Item {
	for _, it := range m.items {
		if it.Pos == c && !it.PickedUp {
			return it
		}
	}
	return nil
}

func (m *Match) monsterAt(c core.Coord) *entity.Monster {
	for _, mon := range m.monsters {
		if mon.Pos == c && mon.Active {
			return mon
		}
	}
	return nil
}

func (m *Match) wallAt(c core.Coord) *entity.Wall {
	for _, w := range m.walls {
		if w.Pos == c {
			return w
		}
	}
	return nil
}

func (m *Match) towerAt(c core.Coord) *entity.Tower {
	for _, t := range m.towers {
		if t.Pos == c {
			return t
		}
	}
	return nil
}

func (m *Match) coreAt(c core.Coord) *entity.Core {
	for _, cr := range m.cores {
		if cr.Pos == c {
			return cr
		}
	}
	return nil
}

func (m *Match) removeWall(w *entity.Wall) {
	for i, x := range m.walls {
		if x == w {
			m.walls = append(m.walls[:i], m.walls[i+1:]...)
			return
		}
	}
}
