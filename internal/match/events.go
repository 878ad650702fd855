package match

import (
	"sync"

	"github.com/vovakirdan/ricochet/internal/ball"
	"github.com/vovakirdan/ricochet/internal/core"
	"github.com/vovakirdan/ricochet/internal/engine"
	"github.com/vovakirdan/ricochet/internal/entity"
)

// Event is one state change emitted by a match.
type Event interface {
	Kind() string
	matchEvent()
}

// BallCreated is emitted when a tower launches a ball or a split creates one.
type BallCreated struct {
	Ball   ball.ID       `json:"ball"`
	Owner  core.PlayerID `json:"owner"`
	Pos    core.Coord    `json:"pos"`
	Dir    core.Dir      `json:"dir"`
	Power  int           `json:"power"`
	Speed  float64       `json:"speed"`
	Parent ball.ID       `json:"parent,omitempty"` // Set for split children
}

// BallsMoved is emitted exactly once per phase with every move of that phase.
type BallsMoved struct {
	Phase         uint64        `json:"phase"`
	PhaseDuration float64       `json:"phase_duration"`
	Moves         []engine.Move `json:"moves"`
}

// BallEnded is emitted when a run terminates.
type BallEnded struct {
	Ball  ball.ID       `json:"ball"`
	Owner core.PlayerID `json:"owner"`
	Pos   core.Coord    `json:"pos"`
	Cause ball.Cause    `json:"cause"`
}

// TowerDamaged is emitted when a tower or its gate loses hp.
type TowerDamaged struct {
	Tower int           `json:"tower"`
	Pos   core.Coord    `json:"pos"`
	Owner core.PlayerID `json:"owner"`
	By    core.PlayerID `json:"by"`
	HP    int           `json:"hp"`
	MaxHP int           `json:"max_hp"`
	Gate  bool          `json:"gate,omitempty"`
}

// TowerHealed is emitted when a same-owner ball heals a tower.
type TowerHealed struct {
	Tower int        `json:"tower"`
	Pos   core.Coord `json:"pos"`
	HP    int        `json:"hp"`
	MaxHP int        `json:"max_hp"`
}

// TowerDestroyed is emitted when a tower reaches zero hp.
type TowerDestroyed struct {
	Tower     int           `json:"tower"`
	Pos       core.Coord    `json:"pos"`
	Owner     core.PlayerID `json:"owner"`
	By        core.PlayerID `json:"by"`
	RespawnIn float64       `json:"respawn_in"`
}

// TowerRespawned is emitted when a destroyed tower comes back.
type TowerRespawned struct {
	Tower int           `json:"tower"`
	Pos   core.Coord    `json:"pos"`
	Owner core.PlayerID `json:"owner"`
	HP    int           `json:"hp"`
}

// TowerUnlocked is emitted when a tower box breaks.
type TowerUnlocked struct {
	Tower int           `json:"tower"`
	Pos   core.Coord    `json:"pos"`
	Owner core.PlayerID `json:"owner"`
	By    core.PlayerID `json:"by"`
}

// CoreDamaged is emitted when an enemy ball hits a core.
type CoreDamaged struct {
	Core  int           `json:"core"`
	Pos   core.Coord    `json:"pos"`
	Owner core.PlayerID `json:"owner"`
	By    core.PlayerID `json:"by"`
	HP    int           `json:"hp"`
	MaxHP int           `json:"max_hp"`
}

// CoreHealed is emitted when a same-owner ball heals a core.
type CoreHealed struct {
	Core  int        `json:"core"`
	Pos   core.Coord `json:"pos"`
	HP    int        `json:"hp"`
	MaxHP int        `json:"max_hp"`
}

// CoreDestroyed is emitted when a core reaches zero hp.
type CoreDestroyed struct {
	Core  int           `json:"core"`
	Pos   core.Coord    `json:"pos"`
	Owner core.PlayerID `json:"owner"`
	By    core.PlayerID `json:"by"`
}

// ReflectorPlaced is emitted for new and replaced reflectors.
type ReflectorPlaced struct {
	Pos         core.Coord       `json:"pos"`
	Owner       core.PlayerID    `json:"owner"`
	Orientation core.Orientation `json:"orientation"`
	Replaced    bool             `json:"replaced,omitempty"`
}

// ReflectorRemoved is emitted when a player reflector leaves the board.
type ReflectorRemoved struct {
	Pos     core.Coord    `json:"pos"`
	Owner   core.PlayerID `json:"owner"`
	Evicted bool          `json:"evicted,omitempty"` // Pushed out by the board cap
}

// StockChanged is emitted when a player's reflector stock changes.
type StockChanged struct {
	Player core.PlayerID `json:"player"`
	Count  int           `json:"count"`
	Cap    int           `json:"cap"`
}

// WallPlaced is emitted when a player builds a wall.
type WallPlaced struct {
	Wall  int           `json:"wall"`
	Pos   core.Coord    `json:"pos"`
	Owner core.PlayerID `json:"owner"`
	HP    int           `json:"hp"`
}

// WallDamaged is emitted when a ball hits a wall.
type WallDamaged struct {
	Wall  int           `json:"wall"`
	Pos   core.Coord    `json:"pos"`
	By    core.PlayerID `json:"by"`
	HP    int           `json:"hp"`
	MaxHP int           `json:"max_hp"`
}

// WallDestroyed is emitted when a wall reaches zero hp.
type WallDestroyed struct {
	Wall int           `json:"wall"`
	Pos  core.Coord    `json:"pos"`
	By   core.PlayerID `json:"by"`
}

// MonsterSpawned is emitted for new and respawned monsters.
type MonsterSpawned struct {
	Monster    int                `json:"monster"`
	Kind       entity.MonsterKind `json:"kind"`
	Pos        core.Coord         `json:"pos"`
	Zone       core.PlayerID      `json:"zone"`
	HP         int                `json:"hp"`
	Generation int                `json:"generation"`
}

// MonsterDamaged is emitted when a ball hits a monster without killing it.
type MonsterDamaged struct {
	Monster int           `json:"monster"`
	Pos     core.Coord    `json:"pos"`
	By      core.PlayerID `json:"by"`
	HP      int           `json:"hp"`
	MaxHP   int           `json:"max_hp"`
}

// MonsterKilled is emitted when a monster dies.
type MonsterKilled struct {
	Monster int                `json:"monster"`
	Kind    entity.MonsterKind `json:"kind"`
	Pos     core.Coord         `json:"pos"`
	By      core.PlayerID      `json:"by"`
}

// MonsterMoved is emitted when a monster roams to a neighbouring tile.
type MonsterMoved struct {
	Monster int        `json:"monster"`
	From    core.Coord `json:"from"`
	To      core.Coord `json:"to"`
}

// ItemDropped is emitted when a killed monster leaves an item.
type ItemDropped struct {
	Item int             `json:"item"`
	Kind entity.ItemKind `json:"kind"`
	Pos  core.Coord      `json:"pos"`
}

// ItemPickedUp is emitted when a ball collects an item.
type ItemPickedUp struct {
	Item   int             `json:"item"`
	Kind   entity.ItemKind `json:"kind"`
	Pos    core.Coord      `json:"pos"`
	Player core.PlayerID   `json:"player"`
}

// PowerChanged is emitted when a player's ball power changes.
type PowerChanged struct {
	Player core.PlayerID `json:"player"`
	Power  int           `json:"power"`
}

// BallCountChanged is emitted when a player's launches per cadence change.
type BallCountChanged struct {
	Player core.PlayerID `json:"player"`
	Balls  int           `json:"balls"`
}

// SpeedChanged is emitted when a player's ball speed multiplier changes.
type SpeedChanged struct {
	Player core.PlayerID `json:"player"`
	Speed  float64       `json:"speed"`
}

// CapacityChanged is emitted when a player's board reflector cap changes.
type CapacityChanged struct {
	Player   core.PlayerID `json:"player"`
	Capacity int           `json:"capacity"`
}

// TimeStopChanged is emitted when a player gains or uses a time-stop, and
// when the freeze ends.
type TimeStopChanged struct {
	Player    core.PlayerID `json:"player"`
	Count     int           `json:"count"`
	Active    bool          `json:"active"`
	Remaining float64       `json:"remaining"`
}

// OwnershipTransferred is emitted when a core capture hands a player's
// assets to the attacker.
type OwnershipTransferred struct {
	From   core.PlayerID `json:"from"`
	To     core.PlayerID `json:"to"`
	Cores  []int         `json:"cores"`
	Towers []int         `json:"towers"`
}

// PlayerEliminated is emitted once per eliminated player.
type PlayerEliminated struct {
	Player core.PlayerID `json:"player"`
	Reason string        `json:"reason"`
}

// GameOver is emitted once when the match ends.
type GameOver struct {
	Winner  core.TeamID     `json:"winner"`
	Draw    bool            `json:"draw"`
	Players []core.PlayerID `json:"players"` // Members of the winning team
	Phase   uint64          `json:"phase"`
	Elapsed float64         `json:"elapsed"`
}

func (BallCreated) Kind() string          { return "ball_created" }
func (BallsMoved) Kind() string           { return "balls_moved" }
func (BallEnded) Kind() string            { return "ball_ended" }
func (TowerDamaged) Kind() string         { return "tower_damaged" }
func (TowerHealed) Kind() string          { return "tower_healed" }
func (TowerDestroyed) Kind() string       { return "tower_destroyed" }
func (TowerRespawned) Kind() string       { return "tower_respawned" }
func (TowerUnlocked) Kind() string        { return "tower_unlocked" }
func (CoreDamaged) Kind() string          { return "core_damaged" }
func (CoreHealed) Kind() string           { return "core_healed" }
func (CoreDestroyed) Kind() string        { return "core_destroyed" }
func (ReflectorPlaced) Kind() string      { return "reflector_placed" }
func (ReflectorRemoved) Kind() string     { return "reflector_removed" }
func (StockChanged) Kind() string         { return "stock_changed" }
func (WallPlaced) Kind() string           { return "wall_placed" }
func (WallDamaged) Kind() string          { return "wall_damaged" }
func (WallDestroyed) Kind() string        { return "wall_destroyed" }
func (MonsterSpawned) Kind() string       { return "monster_spawned" }
func (MonsterDamaged) Kind() string       { return "monster_damaged" }
func (MonsterKilled) Kind() string        { return "monster_killed" }
func (MonsterMoved) Kind() string         { return "monster_moved" }
func (ItemDropped) Kind() string          { return "item_dropped" }
func (ItemPickedUp) Kind() string         { return "item_picked_up" }
func (PowerChanged) Kind() string         { return "power_changed" }
func (BallCountChanged) Kind() string     { return "ball_count_changed" }
func (SpeedChanged) Kind() string         { return "speed_changed" }
func (CapacityChanged) Kind() string      { return "capacity_changed" }
func (TimeStopChanged) Kind() string      { return "time_stop_changed" }
func (OwnershipTransferred) Kind() string { return "ownership_transferred" }
func (PlayerEliminated) Kind() string     { return "player_eliminated" }
func (GameOver) Kind() string             { return "game_over" }

func (BallCreated) matchEvent()          {}
func (BallsMoved) matchEvent()           {}
func (BallEnded) matchEvent()            {}
func (TowerDamaged) matchEvent()         {}
func (TowerHealed) matchEvent()          {}
func (TowerDestroyed) matchEvent()       {}
func (TowerRespawned) matchEvent()       {}
func (TowerUnlocked) matchEvent()        {}
func (CoreDamaged) matchEvent()          {}
func (CoreHealed) matchEvent()           {}
func (CoreDestroyed) matchEvent()        {}
func (ReflectorPlaced) matchEvent()      {}
func (ReflectorRemoved) matchEvent()     {}
func (StockChanged) matchEvent()         {}
func (WallPlaced) matchEvent()           {}
func (WallDamaged) matchEvent()          {}
func (WallDestroyed) matchEvent()        {}
func (MonsterSpawned) matchEvent()       {}
func (MonsterDamaged) matchEvent()       {}
func (MonsterKilled) matchEvent()        {}
func (MonsterMoved) matchEvent()         {}
func (ItemDropped) matchEvent()          {}
func (ItemPickedUp) matchEvent()         {}
func (PowerChanged) matchEvent()         {}
func (BallCountChanged) matchEvent()     {}
func (SpeedChanged) matchEvent()         {}
func (CapacityChanged) matchEvent()      {}
func (TimeStopChanged) matchEvent()      {}
func (OwnershipTransferred) matchEvent() {}
func (PlayerEliminated) matchEvent()     {}
func (GameOver) matchEvent()             {}

// Listener receives match events. Handle runs on the goroutine that drives
// the match and must not call back into it.
type Listener interface {
	Handle(Event)
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(Event)

// Handle calls f.
func (f ListenerFunc) Handle(e Event) {
	f(e)
}

// Bus fans events out to every subscribed listener in subscription order.
type Bus struct {
	mu        sync.Mutex
	next      int
	listeners []subscription
}

type subscription struct {
	id int
	l  Listener
}

// Subscribe registers l and returns a function that removes it. Calling the
// returned function more than once is a no-op.
func (b *Bus) Subscribe(l Listener) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.next++
	id := b.next
	b.listeners = append(b.listeners, subscription{id: id, l: l})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i, s := range b.listeners {
			if s.id == id {
				b.listeners = append(b.listeners[:i:i], b.listeners[i+1:]...)
				return
			}
		}
	}
}

// Len returns the number of subscribed listeners.
func (b *Bus) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.listeners)
}

// Publish delivers e to every listener.
func (b *Bus) Publish(e Event) {
	b.mu.Lock()
	subs := b.listeners
	b.mu.Unlock()

	for _, s := range subs {
		s.l.Handle(e)
	}
}
