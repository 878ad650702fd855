package config

import (
	_ "embed"
)

//go:embed defaults/match.yaml
var defaultMatchYAML []byte

// Default returns the hardcoded match configuration.
func Default() MatchConfig {
	return MatchConfig{
		Phase: PhaseConfig{
			Duration:      0.25,
			SpawnInterval: 2.0,
		},
		Towers: TowerConfig{
			HP:               10,
			GateHP:           30,
			RespawnBase:      8,
			RespawnIncrement: 4,
		},
		Cores: CoreConfig{
			HP: 30,
		},
		Balls: BallConfig{
			Power: 1,
			Speed: 1.0,
		},
		Reflectors: ReflectorConfig{
			StockStart: 3,
			StockCap:   5,
			Cooldown:   3,
			BoardCap:   6,
		},
		Walls: WallConfig{
			HP:           10,
			NeutralHP:    20,
			MaxPerPlayer: 3,
		},
		Monsters: MonsterConfig{
			PerZone:    2,
			MoveChance: 0.3,
			BaseHP:     [4]int{1, 2, 4, 8},
			Weights:    [4]int{60, 25, 12, 3},
		},
		Items: ItemConfig{
			Power:         1,
			ExtraBalls:    1,
			Speed:         0.25,
			Capacity:      1,
			TimeStopEvery: 5,
		},
		TimeStop: TimeStopConfig{
			Duration: 5,
		},
		Bots: BotConfig{
			Interval:   1.5,
			WallChance: 0.2,
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultMatchYAML
}
