package match

import (
	"github.com/vovakirdan/ricochet/internal/core"
	"github.com/vovakirdan/ricochet/internal/entity"
	"github.com/vovakirdan/ricochet/internal/grid"
)

// pickup applies an item's bonus to player and patches their balls in
// flight.
func (m *Match) pickup(it *entity.Item, player core.PlayerID) {
	it.PickedUp = true
	m.removeItem(it)
	m.emit(ItemPickedUp{Item: it.ID, Kind: it.Kind, Pos: it.Pos, Player: player})

	p, ok := m.players[player]
	if !ok {
		return
	}
	b := &p.Bonuses
	switch it.Kind {
	case entity.ItemPower:
		b.Power += m.cfg.Items.Power
		m.engine.Patch(player, b.Power, b.Speed)
		m.emit(PowerChanged{Player: player, Power: b.Power})
	case entity.ItemExtraBall:
		b.Balls += m.cfg.Items.ExtraBalls
		m.emit(BallCountChanged{Player: player, Balls: b.Balls})
	case entity.ItemSpeed:
		b.Speed += m.cfg.Items.Speed
		m.engine.Patch(player, b.Power, b.Speed)
		m.emit(SpeedChanged{Player: player, Speed: b.Speed})
	case entity.ItemCapacity:
		b.Capacity += m.cfg.Items.Capacity
		m.emit(CapacityChanged{Player: player, Capacity: m.boardCap(player)})
	case entity.ItemTimeStop:
		b.TimeStops++
		m.emit(TimeStopChanged{Player: player, Count: b.TimeStops, Active: m.Frozen(), Remaining: m.freeze})
	}
}

func (m *Match) removeItem(it *entity.Item) {
	for i, x := range m.items {
		if x == it {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return
		}
	}
}

// kill drops the monster's item and respawns it elsewhere in its zone.
func (m *Match) kill(mon *entity.Monster, by core.PlayerID) {
	m.emit(MonsterKilled{Monster: mon.ID, Kind: mon.Kind, Pos: mon.Pos, By: by})

	z := m.zone(mon.Zone)
	kind := mon.Kind.Drop()
	if z != nil {
		z.Kills++
		if every := m.cfg.Items.TimeStopEvery; every > 0 && z.Kills%every == 0 {
			kind = entity.ItemTimeStop
		}
	}
	it := &entity.Item{ID: m.id(), Kind: kind, Pos: mon.Pos}
	m.items = append(m.items, it)
	m.emit(ItemDropped{Item: it.ID, Kind: it.Kind, Pos: it.Pos})

	if z == nil || z.Eliminated {
		m.removeMonster(mon)
		return
	}
	z.Generation++
	pos, ok := m.freeTile(z)
	if !ok {
		m.removeMonster(mon)
		return
	}
	mon.Kind = m.pickKind()
	mon.Pos = pos
	mon.Health = entity.Full(entity.MonsterHP(m.cfg.Monsters.BaseHP[mon.Kind], z.Generation))
	mon.Active = true
	m.emit(MonsterSpawned{Monster: mon.ID, Kind: mon.Kind, Pos: pos, Zone: z.Player, HP: mon.HP, Generation: z.Generation})
}

func (m *Match) removeMonster(mon *entity.Monster) {
	for i, x := range m.monsters {
		if x == mon {
			m.monsters = append(m.monsters[:i], m.monsters[i+1:]...)
			return
		}
	}
}

func (m *Match) zone(player core.PlayerID) *entity.Zone {
	if p, ok := m.players[player]; ok {
		return p.Zone
	}
	return nil
}

func (m *Match) pickKind() entity.MonsterKind {
	return entity.SpawnWeights(m.cfg.Monsters.Weights).Pick(m.rng)
}

// topUp spawns monsters until the zone holds its configured population.
func (m *Match) topUp(z *entity.Zone) {
	count := 0
	for _, mon := range m.monsters {
		if mon.Active && mon.Zone == z.Player {
			count++
		}
	}
	for ; count < m.cfg.Monsters.PerZone; count++ {
		pos, ok := m.freeTile(z)
		if !ok {
			return
		}
		kind := m.pickKind()
		hp := entity.MonsterHP(m.cfg.Monsters.BaseHP[kind], z.Generation)
		mon := entity.NewMonster(m.id(), kind, pos, z.Player, hp)
		m.monsters = append(m.monsters, mon)
		m.emit(MonsterSpawned{Monster: mon.ID, Kind: kind, Pos: pos, Zone: z.Player, HP: hp, Generation: z.Generation})
	}
}

// roam moves each monster to a random free neighbour with the configured
// chance.
func (m *Match) roam() {
	for _, mon := range m.monsters {
		if !mon.Active || m.rng.Float64() >= m.cfg.Monsters.MoveChance {
			continue
		}
		z := m.zone(mon.Zone)
		if z == nil {
			continue
		}
		var options []core.Coord
		for _, n := range mon.Pos.Neighbors() {
			if z.Contains(n) && m.free(n) {
				options = append(options, n)
			}
		}
		if len(options) == 0 {
			continue
		}
		to := options[m.rng.Intn(len(options))]
		from := mon.Pos
		mon.Pos = to
		m.emit(MonsterMoved{Monster: mon.ID, From: from, To: to})
	}
}

// freeTile picks a random free tile inside the zone.
func (m *Match) freeTile(z *entity.Zone) (core.Coord, bool) {
	var options []core.Coord
	for _, c := range z.Bounds.Coords() {
		if m.free(c) {
			options = append(options, c)
		}
	}
	if len(options) == 0 {
		return core.Coord{}, false
	}
	return options[m.rng.Intn(len(options))], true
}

// free reports whether a monster, wall or item may occupy c: a plain
// passable tile holding no entity and no reflector.
func (m *Match) free(c core.Coord) bool {
	t, ok := m.grid.TileAt(c)
	if !ok || !t.Props.Passable || !t.Props.ReflectorCapable {
		return false
	}
	if m.grid.ReflectorAt(c.X, c.Y) != grid.None {
		return false
	}
	return m.monsterAt(c) == nil && m.itemAt(c) == nil && m.wallAt(c) == nil &&
		m.towerAt(c) == nil && m.coreAt(c) == nil
}

// occupied reports whether an entity or a ball sits on c.
func (m *Match) occupied(c core.Coord) bool {
	return m.monsterAt(c) != nil || m.itemAt(c) != nil || m.wallAt(c) != nil ||
		m.towerAt(c) != nil || m.coreAt(c) != nil || m.ballAt(c)
}

// ballAt reports whether a ball outside portal transit is on c.
func (m *Match) ballAt(c core.Coord) bool {
	for _, r := range m.engine.Runs() {
		if r.Active() && !r.InTransit() && r.Pos == c {
			return true
		}
	}
	return false
}

// boardCap is how many reflectors player may keep on the board.
func (m *Match) boardCap(player core.PlayerID) int {
	p, ok := m.players[player]
	if !ok {
		return 0
	}
	limit := m.cfg.Reflectors.BoardCap + p.Bonuses.Capacity
	for _, t := range m.towers {
		if t.Owner == player && t.Destroyed() {
			limit--
		}
	}
	return max(0, limit)
}

// enforceBoardCap evicts the player's oldest reflectors until they fit.
func (m *Match) enforceBoardCap(player core.PlayerID) {
	p, ok := m.players[player]
	if !ok {
		return
	}
	limit := m.boardCap(player)
	for len(p.placed) > limit {
		oldest := p.placed[0]
		p.placed = p.placed[1:]
		if _, ok := m.grid.RemoveReflector(oldest.X, oldest.Y); ok {
			m.emit(ReflectorRemoved{Pos: oldest, Owner: player, Evicted: true})
		}
	}
}

func (p *Player) forget(c core.Coord) {
	for i, x := range p.placed {
		if x == c {
			p.placed = append(p.placed[:i], p.placed[i+1:]...)
			return
		}
	}
}
