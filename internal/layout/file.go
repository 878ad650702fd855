// Package layout loads match maps from YAML. A layout is a finished board
// plus the starting assignments of players, towers, cores and walls.
package layout

import (
	"github.com/vovakirdan/ricochet/internal/core"
)

// File is the on-disk layout format.
type File struct {
	Name        string            `yaml:"name" json:"name" jsonschema:"title=Layout name,pattern=^[a-z0-9-]+$,minLength=1,required"`
	Title       string            `yaml:"title,omitempty" json:"title,omitempty" jsonschema:"description=Human readable name"`
	Description string            `yaml:"description,omitempty" json:"description,omitempty"`
	Legend      map[string]string `yaml:"legend,omitempty" json:"legend,omitempty" jsonschema:"description=Extra row characters mapped to tile names"`
	Rows        []string          `yaml:"rows" json:"rows" jsonschema:"description=Board rows top to bottom; a space leaves the cell empty,minItems=1,required"`
	Portals     []FilePortal      `yaml:"portals,omitempty" json:"portals,omitempty"`
	Players     []FilePlayer      `yaml:"players" json:"players" jsonschema:"minItems=1,required"`
	Towers      []FileTower       `yaml:"towers,omitempty" json:"towers,omitempty"`
	Cores       []FileCore        `yaml:"cores,omitempty" json:"cores,omitempty"`
	Walls       []FileWall        `yaml:"walls,omitempty" json:"walls,omitempty"`
}

// FilePortal assigns a portal tile to a link group.
type FilePortal struct {
	X     int `yaml:"x" json:"x"`
	Y     int `yaml:"y" json:"y"`
	Group int `yaml:"group" json:"group" jsonschema:"description=Two portals sharing a group are linked,minimum=1"`
}

// FilePlayer declares a player seat with its team and zone.
type FilePlayer struct {
	ID   core.PlayerID `yaml:"id" json:"id" jsonschema:"minimum=1,required"`
	Team core.TeamID   `yaml:"team,omitempty" json:"team,omitempty" jsonschema:"description=Defaults to the player id"`
	Zone core.Rect     `yaml:"zone" json:"zone" jsonschema:"required"`
}

// FileTower places a spawn tower.
type FileTower struct {
	X      int           `yaml:"x" json:"x"`
	Y      int           `yaml:"y" json:"y"`
	Owner  core.PlayerID `yaml:"owner" json:"owner" jsonschema:"minimum=1"`
	Dir    core.Dir      `yaml:"dir" json:"dir" jsonschema:"type=string,enum=up,enum=right,enum=down,enum=left"`
	Locked bool          `yaml:"locked,omitempty" json:"locked,omitempty" jsonschema:"description=Starts behind a tower box"`
}

// FileCore places a core.
type FileCore struct {
	X     int           `yaml:"x" json:"x"`
	Y     int           `yaml:"y" json:"y"`
	Owner core.PlayerID `yaml:"owner" json:"owner" jsonschema:"minimum=1"`
}

// FileWall places a neutral structural wall.
type FileWall struct {
	X int `yaml:"x" json:"x"`
	Y int `yaml:"y" json:"y"`
}
