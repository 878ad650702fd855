package config

import (
	"fmt"
	"strings"
)

// PacePreset represents a named match pace.
type PacePreset string

const (
	PaceBlitz    PacePreset = "blitz"
	PaceStandard PacePreset = "standard"
	PaceSiege    PacePreset = "siege"
)

// BotPreset represents a named bot difficulty.
type BotPreset string

const (
	BotEasy   BotPreset = "easy"
	BotNormal BotPreset = "normal"
	BotHard   BotPreset = "hard"
)

// ParsePace parses a pace preset name. An empty name is standard.
func ParsePace(s string) (PacePreset, error) {
	switch p := PacePreset(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return PaceStandard, nil
	case PaceBlitz, PaceStandard, PaceSiege:
		return p, nil
	}
	return "", fmt.Errorf("config: unknown pace %q", s)
}

// ParseBot parses a bot preset name. An empty name is normal.
func ParseBot(s string) (BotPreset, error) {
	switch p := BotPreset(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return BotNormal, nil
	case BotEasy, BotNormal, BotHard:
		return p, nil
	}
	return "", fmt.Errorf("config: unknown bot difficulty %q", s)
}

// ApplyPacePreset modifies the config based on a pace preset.
func ApplyPacePreset(cfg *MatchConfig, preset PacePreset) {
	switch preset {
	case PaceBlitz:
		cfg.Phase.Duration = 0.15
		cfg.Phase.SpawnInterval = 1.2
		cfg.Reflectors.Cooldown = 2
		cfg.Cores.HP = 20
		cfg.Towers.RespawnBase = 5
	case PaceSiege:
		cfg.Phase.Duration = 0.35
		cfg.Phase.SpawnInterval = 3.0
		cfg.Reflectors.StockCap = 8
		cfg.Reflectors.BoardCap = 10
		cfg.Cores.HP = 60
		cfg.Towers.RespawnBase = 12
		cfg.Towers.RespawnIncrement = 6
	}
}

// ApplyBotPreset modifies the bot settings based on a difficulty preset.
func ApplyBotPreset(cfg *MatchConfig, preset BotPreset) {
	switch preset {
	case BotEasy:
		cfg.Bots.Interval = 3.0
		cfg.Bots.WallChance = 0.1
	case BotNormal:
		cfg.Bots.Interval = 1.5
		cfg.Bots.WallChance = 0.2
	case BotHard:
		cfg.Bots.Interval = 0.75
		cfg.Bots.WallChance = 0.3
	}
}
