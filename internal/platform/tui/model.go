package tui

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/ricochet/internal/config"
	"github.com/vovakirdan/ricochet/internal/core"
	"github.com/vovakirdan/ricochet/internal/match"
	"github.com/vovakirdan/ricochet/internal/registry"
	"github.com/vovakirdan/ricochet/internal/room"
)

const (
	defaultTickRate = 30
	feedLines       = 6
)

// GameOptions configure a local match against bots.
type GameOptions struct {
	Layout   string
	Config   config.MatchConfig
	Seed     int64 // Zero picks a time-based seed
	TickRate int
	Saver    room.ResultSaver // Optional
	Logger   *log.Logger      // Optional, discards by default
}

// GameModel is the Bubble Tea model for a local match. The human takes the
// first seat and bots play the rest.
type GameModel struct {
	opts    GameOptions
	room    *room.Room
	match   *match.Match
	session *room.ChannelSession
	seat    core.PlayerID
	seed    int64

	cursor core.Coord
	feed   *eventFeed
	status string
	keys   GameKeyMap
	help   help.Model
	screen *core.Screen

	saved      bool
	quitting   bool
	backToMenu bool
}

// NewGameModel builds a match on the named layout.
func NewGameModel(opts GameOptions) (GameModel, error) {
	if opts.TickRate <= 0 {
		opts.TickRate = defaultTickRate
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}

	m := GameModel{
		opts: opts,
		keys: DefaultGameKeyMap(),
		help: help.New(),
	}
	if err := m.start(opts.Seed); err != nil {
		return GameModel{}, err
	}
	return m, nil
}

// start builds a fresh match and room and seats the human.
func (m *GameModel) start(seed int64) error {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	l, err := registry.Create(m.opts.Layout)
	if err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	mt, err := match.New(l, m.opts.Config, match.WithSeed(seed), match.WithLogger(m.opts.Logger))
	if err != nil {
		return fmt.Errorf("tui: %w", err)
	}

	seats := mt.Players()
	r := room.New(room.ID(uuid.NewString()), mt,
		room.WithTPS(m.opts.TickRate),
		room.WithLogger(m.opts.Logger),
		room.WithBots(seed, seats[1:]...),
	)
	session := room.NewChannelSession("local", 0)
	seat, err := r.Join(session)
	if err != nil {
		return fmt.Errorf("tui: %w", err)
	}

	m.room = r
	m.match = mt
	m.session = session
	m.seat = seat
	m.seed = seed
	m.feed = &eventFeed{}
	m.status = ""
	m.saved = false

	snap := mt.Snapshot()
	if p, ok := snap.Player(seat); ok {
		m.cursor = core.Coord{X: p.Zone.X + p.Zone.W/2, Y: p.Zone.Y + p.Zone.H/2}
	}
	w, h := ScreenSize(&snap)
	m.screen = core.NewScreen(w, h)
	return nil
}

// Init starts the tick loop.
func (m GameModel) Init() tea.Cmd {
	return tickCmd(m.opts.TickRate)
}

// Update handles messages and updates the model state.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Back):
		m.backToMenu = true
		return m, nil
	}

	if m.match.Over() {
		if key.Matches(msg, m.keys.Restart) {
			if err := m.start(0); err != nil {
				m.status = err.Error()
			}
		}
		return m, nil
	}

	if dx, dy, ok := m.keys.Move(msg); ok {
		m.moveCursor(dx, dy)
		return m, nil
	}
	if o, ok := m.keys.Orientation(msg); ok {
		m.submit(room.PlaceReflector{Player: m.seat, X: m.cursor.X, Y: m.cursor.Y, Orientation: o})
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Remove):
		m.submit(room.RemoveReflector{Player: m.seat, X: m.cursor.X, Y: m.cursor.Y})
	case key.Matches(msg, m.keys.Wall):
		m.submit(room.PlaceWall{Player: m.seat, X: m.cursor.X, Y: m.cursor.Y})
	case key.Matches(msg, m.keys.TimeStop):
		m.submit(room.UseTimeStop{Player: m.seat})
	}
	return m, nil
}

func (m *GameModel) moveCursor(dx, dy int) {
	snap := m.match.Snapshot()
	m.cursor.X = min(max(m.cursor.X+dx, 0), snap.Width-1)
	m.cursor.Y = min(max(m.cursor.Y+dy, 0), snap.Height-1)
}

func (m *GameModel) submit(c room.Command) {
	if err := m.room.Submit(c); err != nil {
		m.status = err.Error()
		return
	}
	m.status = ""
}

// handleTick advances the room by one frame.
func (m GameModel) handleTick() (tea.Model, tea.Cmd) {
	res, over := m.room.Tick(1 / float64(m.opts.TickRate))
	m.drain()

	// Save the result on game over (once)
	if over && !m.saved {
		if m.opts.Saver != nil {
			data := room.NewResultData(m.room.ID(), m.opts.Layout, len(m.match.Players()), m.seed, res, "completed")
			if err := m.opts.Saver.SaveMatchResult(data); err != nil {
				m.opts.Logger.Warn("could not save result", "error", err)
			}
		}
		m.saved = true
	}

	return m, tickCmd(m.opts.TickRate)
}

// drain moves session messages into the feed and status line.
func (m *GameModel) drain() {
	for {
		select {
		case msg := <-m.session.Messages():
			switch msg.Type {
			case room.TypeRejected:
				m.status = "not allowed here"
			default:
				if e, ok := msg.Payload.(match.Event); ok {
					m.feed.Handle(e)
				}
			}
		default:
			return
		}
	}
}

// View renders the current state to a string for display.
func (m GameModel) View() string {
	if m.quitting {
		return ""
	}

	snap := m.match.Snapshot()
	w, h := ScreenSize(&snap)
	if w != m.screen.Width() || h != m.screen.Height() {
		m.screen.Resize(w, h)
	}
	m.screen.Clear()
	DrawBoard(m.screen, &snap, m.seat)
	DrawHUD(m.screen, &snap, m.opts.Layout, m.seat, m.feed.Lines())

	out := RenderScreen(m.screen, ToScreen(m.cursor))
	out += "\n" + m.status + "\n" + m.help.View(m.keys)
	return out
}

// Seat returns the human player's seat.
func (m GameModel) Seat() core.PlayerID {
	return m.seat
}

// Cursor returns the selected board cell.
func (m GameModel) Cursor() core.Coord {
	return m.cursor
}

// Match returns the running match.
func (m GameModel) Match() *match.Match {
	return m.match
}

// IsQuitting returns true if user requested to quit entirely.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m GameModel) BackToMenu() bool {
	return m.backToMenu
}

// RunGame starts the Bubble Tea program for a local match.
func RunGame(opts GameOptions) error {
	model, err := NewGameModel(opts)
	if err != nil {
		return err
	}

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	_, err = p.Run()
	return err
}

// eventFeed keeps the last few notable match events as text.
type eventFeed struct {
	lines []string
}

// Handle implements match.Listener.
func (f *eventFeed) Handle(e match.Event) {
	text := describe(e)
	if text == "" {
		return
	}
	f.lines = append(f.lines, text)
	if len(f.lines) > feedLines {
		f.lines = f.lines[len(f.lines)-feedLines:]
	}
}

// Lines returns the feed, oldest first.
func (f *eventFeed) Lines() []string {
	return f.lines
}

func describe(e match.Event) string {
	switch e := e.(type) {
	case match.CoreDestroyed:
		return fmt.Sprintf("P%d core lost to P%d", e.Owner, e.By)
	case match.TowerDestroyed:
		return fmt.Sprintf("P%d tower down (%.0fs)", e.Owner, e.RespawnIn)
	case match.TowerRespawned:
		return fmt.Sprintf("P%d tower back", e.Owner)
	case match.TowerUnlocked:
		return fmt.Sprintf("P%d freed a tower", e.By)
	case match.MonsterKilled:
		return fmt.Sprintf("P%d slew a %s", e.By, e.Kind)
	case match.ItemPickedUp:
		return fmt.Sprintf("P%d got %s", e.Player, e.Kind)
	case match.WallDestroyed:
		return fmt.Sprintf("P%d broke a wall", e.By)
	case match.TimeStopChanged:
		if e.Active {
			return fmt.Sprintf("P%d stopped time", e.Player)
		}
	case match.OwnershipTransferred:
		return fmt.Sprintf("P%d captured from P%d", e.To, e.From)
	case match.PlayerEliminated:
		return fmt.Sprintf("P%d eliminated", e.Player)
	case match.GameOver:
		return resultLine(match.Result{Winner: e.Winner, Draw: e.Draw})
	}
	return ""
}
