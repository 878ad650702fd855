package tui

import (
	"fmt"

	"github.com/vovakirdan/ricochet/internal/core"
	"github.com/vovakirdan/ricochet/internal/entity"
	"github.com/vovakirdan/ricochet/internal/match"
	"github.com/vovakirdan/ricochet/internal/tiles"
)

// hudWidth is the column count reserved right of the board.
const hudWidth = 38

// boardOrigin is the screen cell of board coordinate (0, 0), inside the
// frame.
var boardOrigin = core.Coord{X: 1, Y: 1}

// ScreenSize returns the screen needed to draw snap with its HUD.
func ScreenSize(snap *match.Snapshot) (w, h int) {
	w = snap.Width + 2 + 2 + hudWidth
	h = max(snap.Height+2, 8+2*len(snap.Players)+feedLines)
	return w, h
}

// ToScreen maps a board coordinate to its screen cell.
func ToScreen(c core.Coord) core.Coord {
	return core.Coord{X: c.X + boardOrigin.X, Y: c.Y + boardOrigin.Y}
}

// DrawBoard draws the framed board. Layers from bottom to top: tiles,
// zone tint, reflectors, cores, towers, walls, items, monsters, balls.
func DrawBoard(s *core.Screen, snap *match.Snapshot, seat core.PlayerID) {
	s.DrawBox(core.Rect{X: 0, Y: 0, W: snap.Width + 2, H: snap.Height + 2})

	set := func(c core.Coord, r rune, col core.Color) {
		p := ToScreen(c)
		s.SetColored(p.X, p.Y, r, col)
	}

	var zone core.Rect
	if p, ok := snap.Player(seat); ok {
		zone = p.Zone
	}

	for _, t := range snap.Tiles {
		r, col := tileGlyph(t)
		if t.Kind == tiles.Floor && zone.Contains(t.Pos) {
			col = core.PlayerColor(seat)
		}
		set(t.Pos, r, col)
	}
	for _, rf := range snap.Reflectors {
		set(rf.Pos, rf.Orientation.Glyph(), core.PlayerColor(rf.Owner))
	}
	for _, c := range snap.Cores {
		if c.Active {
			set(c.Pos, '◆', core.PlayerColor(c.Owner))
		} else {
			set(c.Pos, '◇', core.ColorGray)
		}
	}
	for _, t := range snap.Towers {
		switch {
		case t.Locked():
			set(t.Pos, '▣', core.PlayerColor(t.Owner))
		case !t.Active:
			set(t.Pos, 'x', core.ColorGray)
		default:
			set(t.Pos, 'T', core.PlayerColor(t.Owner))
		}
	}
	for _, w := range snap.Walls {
		set(w.Pos, '▓', core.PlayerColor(w.Owner))
	}
	for _, it := range snap.Items {
		if !it.PickedUp {
			set(it.Pos, itemGlyph(it.Kind), core.ColorBrightYellow)
		}
	}
	for _, m := range snap.Monsters {
		if m.Active {
			r, col := monsterGlyph(m.Kind)
			set(m.Pos, r, col)
		}
	}
	for _, b := range snap.Balls {
		if !b.InTransit {
			set(b.Pos, '●', core.PlayerColor(b.Owner))
		}
	}
}

// DrawHUD draws match status, the seats and the recent event feed right of
// the board.
func DrawHUD(s *core.Screen, snap *match.Snapshot, layout string, seat core.PlayerID, feed []string) {
	x := snap.Width + 4
	y := 0
	line := func(text string, col core.Color) {
		if len([]rune(text)) > hudWidth {
			text = string([]rune(text)[:hudWidth])
		}
		s.DrawTextColored(x, y, text, col)
		y++
	}

	line("R I C O C H E T  "+layout, core.ColorBrightWhite)
	line(fmt.Sprintf("phase %d  %.1fs", snap.Phase, snap.Elapsed), core.ColorDefault)
	if snap.Frozen > 0 {
		line(fmt.Sprintf("TIME STOP %.1fs", snap.Frozen), core.ColorBrightBlue)
	} else {
		line("", core.ColorDefault)
	}
	y++

	for _, p := range snap.Players {
		col := core.PlayerColor(p.ID)
		who := fmt.Sprintf("P%d", p.ID)
		if p.ID == seat {
			who += " (you)"
		}
		if p.Eliminated {
			line(who+"  out", core.ColorGray)
			y++
			continue
		}
		cores := 0
		for _, c := range snap.Cores {
			if c.Active && c.Owner == p.ID {
				cores++
			}
		}
		line(fmt.Sprintf("%s  ◆%d  stock %d/%d  board %d/%d", who, cores, p.Stock.Count, p.Stock.Cap, p.OnBoard, p.BoardCap), col)
		line(fmt.Sprintf("   pow +%d  balls +%d  cap +%d  stops %d", p.Bonuses.Power, p.Bonuses.Balls, p.Bonuses.Capacity, p.Bonuses.TimeStops), col)
	}
	y++

	if snap.Result != nil {
		line(resultLine(*snap.Result), core.ColorBrightYellow)
		line("press b for menu, q to quit", core.ColorGray)
		return
	}
	for _, f := range feed {
		line(f, core.ColorGray)
	}
}

func resultLine(r match.Result) string {
	if r.Draw {
		return "DRAW"
	}
	return fmt.Sprintf("TEAM %d WINS", r.Winner)
}

func tileGlyph(t match.TileView) (rune, core.Color) {
	switch t.Kind {
	case tiles.Floor:
		return '·', core.ColorGray
	case tiles.Block:
		return '█', core.ColorWhite
	case tiles.Spawn:
		return 's', core.ColorGray
	case tiles.CoreTile:
		return '◇', core.ColorGray
	case tiles.Portal:
		return 'O', core.ColorMagenta
	case tiles.SplitHorizontal:
		return '═', core.ColorCyan
	case tiles.SplitVertical:
		return '║', core.ColorCyan
	}
	if t.Reflector.Valid() {
		col := core.ColorWhite
		if t.Kind >= tiles.SolidTopLeft && t.Kind <= tiles.SolidBottomRight {
			col = core.ColorBrightWhite
		}
		return t.Reflector.Glyph(), col
	}
	if !t.Passable {
		return '█', core.ColorWhite
	}
	return '·', core.ColorGray
}

func itemGlyph(k entity.ItemKind) rune {
	switch k {
	case entity.ItemPower:
		return 'p'
	case entity.ItemExtraBall:
		return 'b'
	case entity.ItemSpeed:
		return 'v'
	case entity.ItemCapacity:
		return 'c'
	case entity.ItemTimeStop:
		return 't'
	}
	return '?'
}

func monsterGlyph(k entity.MonsterKind) (rune, core.Color) {
	switch k {
	case entity.Slime:
		return 'm', core.ColorGreen
	case entity.Bat:
		return 'w', core.ColorMagenta
	case entity.Golem:
		return 'G', core.ColorOrange
	case entity.Dragon:
		return 'D', core.ColorBrightRed
	}
	return '?', core.ColorRed
}
