// Package config provides YAML-based match configuration loading and pace
// presets.
package config

import (
	"errors"
	"fmt"
)

// MatchConfig contains all tuning for a match.
type MatchConfig struct {
	Phase      PhaseConfig     `yaml:"phase" json:"phase"`
	Towers     TowerConfig     `yaml:"towers" json:"towers"`
	Cores      CoreConfig      `yaml:"cores" json:"cores"`
	Balls      BallConfig      `yaml:"balls" json:"balls"`
	Reflectors ReflectorConfig `yaml:"reflectors" json:"reflectors"`
	Walls      WallConfig      `yaml:"walls" json:"walls"`
	Monsters   MonsterConfig   `yaml:"monsters" json:"monsters"`
	Items      ItemConfig      `yaml:"items" json:"items"`
	TimeStop   TimeStopConfig  `yaml:"time_stop" json:"time_stop"`
	Bots       BotConfig       `yaml:"bots" json:"bots"`
}

// PhaseConfig defines the two match clocks.
type PhaseConfig struct {
	Duration      float64 `yaml:"duration" json:"duration"`             // Seconds per movement phase
	SpawnInterval float64 `yaml:"spawn_interval" json:"spawn_interval"` // Seconds between tower/monster cadence ticks
}

// TowerConfig defines spawn tower parameters.
type TowerConfig struct {
	HP               int     `yaml:"hp" json:"hp"`
	GateHP           int     `yaml:"gate_hp" json:"gate_hp"`
	RespawnBase      float64 `yaml:"respawn_base" json:"respawn_base"`
	RespawnIncrement float64 `yaml:"respawn_increment" json:"respawn_increment"`
}

// CoreConfig defines core parameters.
type CoreConfig struct {
	HP int `yaml:"hp" json:"hp"`
}

// BallConfig defines the starting ball stats of every player.
type BallConfig struct {
	Power int     `yaml:"power" json:"power"`
	Speed float64 `yaml:"speed" json:"speed"`
}

// ReflectorConfig defines reflector stock and board occupancy.
type ReflectorConfig struct {
	StockStart int     `yaml:"stock_start" json:"stock_start"`
	StockCap   int     `yaml:"stock_cap" json:"stock_cap"`
	Cooldown   float64 `yaml:"cooldown" json:"cooldown"`   // Seconds per regenerated unit
	BoardCap   int     `yaml:"board_cap" json:"board_cap"` // Reflectors a player may have on the board
}

// WallConfig defines wall parameters.
type WallConfig struct {
	HP           int `yaml:"hp" json:"hp"`
	NeutralHP    int `yaml:"neutral_hp" json:"neutral_hp"`
	MaxPerPlayer int `yaml:"max_per_player" json:"max_per_player"`
}

// MonsterConfig defines the roaming population of each zone.
type MonsterConfig struct {
	PerZone    int     `yaml:"per_zone" json:"per_zone"`
	MoveChance float64 `yaml:"move_chance" json:"move_chance"` // Per cadence tick
	// Base hit points per tier, in slime, bat, golem, dragon order.
	BaseHP  [4]int `yaml:"base_hp" json:"base_hp"`
	Weights [4]int `yaml:"weights" json:"weights"`
}

// ItemConfig defines the bonus granted by each item.
type ItemConfig struct {
	Power         int     `yaml:"power" json:"power"`
	ExtraBalls    int     `yaml:"extra_balls" json:"extra_balls"`
	Speed         float64 `yaml:"speed" json:"speed"`
	Capacity      int     `yaml:"capacity" json:"capacity"`
	TimeStopEvery int     `yaml:"time_stop_every" json:"time_stop_every"` // 0 disables time-stop drops
}

// TimeStopConfig defines the freeze window.
type TimeStopConfig struct {
	Duration float64 `yaml:"duration" json:"duration"`
}

// BotConfig defines bot opponents.
type BotConfig struct {
	Interval   float64 `yaml:"interval" json:"interval"`       // Seconds between bot actions
	WallChance float64 `yaml:"wall_chance" json:"wall_chance"` // Chance an action places a wall
}

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("config: invalid value")

// Validate reports the first out-of-range value.
func (c MatchConfig) Validate() error {
	checks := []struct {
		ok   bool
		name string
	}{
		{c.Phase.Duration > 0, "phase.duration"},
		{c.Phase.SpawnInterval > 0, "phase.spawn_interval"},
		{c.Towers.HP > 0, "towers.hp"},
		{c.Towers.GateHP >= 0, "towers.gate_hp"},
		{c.Towers.RespawnBase >= 0, "towers.respawn_base"},
		{c.Towers.RespawnIncrement >= 0, "towers.respawn_increment"},
		{c.Cores.HP > 0, "cores.hp"},
		{c.Balls.Power > 0, "balls.power"},
		{c.Balls.Speed > 0, "balls.speed"},
		{c.Reflectors.StockCap >= 0, "reflectors.stock_cap"},
		{c.Reflectors.StockStart >= 0 && c.Reflectors.StockStart <= c.Reflectors.StockCap, "reflectors.stock_start"},
		{c.Reflectors.Cooldown > 0, "reflectors.cooldown"},
		{c.Reflectors.BoardCap >= 0, "reflectors.board_cap"},
		{c.Walls.HP > 0, "walls.hp"},
		{c.Walls.NeutralHP > 0, "walls.neutral_hp"},
		{c.Walls.MaxPerPlayer >= 0, "walls.max_per_player"},
		{c.Monsters.PerZone >= 0, "monsters.per_zone"},
		{c.Monsters.MoveChance >= 0 && c.Monsters.MoveChance <= 1, "monsters.move_chance"},
		{positive(c.Monsters.BaseHP[:]), "monsters.base_hp"},
		{nonNegative(c.Monsters.Weights[:]), "monsters.weights"},
		{c.Items.TimeStopEvery >= 0, "items.time_stop_every"},
		{c.TimeStop.Duration >= 0, "time_stop.duration"},
		{c.Bots.Interval > 0, "bots.interval"},
		{c.Bots.WallChance >= 0 && c.Bots.WallChance <= 1, "bots.wall_chance"},
	}
	for _, check := range checks {
		if !check.ok {
			return fmt.Errorf("%w: %s", ErrInvalid, check.name)
		}
	}
	return nil
}

func positive(vals []int) bool {
	for _, v := range vals {
		if v <= 0 {
			return false
		}
	}
	return true
}

func nonNegative(vals []int) bool {
	for _, v := range vals {
		if v < 0 {
			return false
		}
	}
	return true
}
