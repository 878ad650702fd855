// Package room runs matches for connected sessions. Each Room owns one match
// and drives it from a single goroutine at a fixed tick rate; commands from
// sessions are queued and applied between ticks.
package room

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/ricochet/internal/bot"
	"github.com/vovakirdan/ricochet/internal/core"
	"github.com/vovakirdan/ricochet/internal/match"
)

// ID uniquely identifies a room.
type ID string

var (
	ErrNoSeat    = errors.New("room: no free seat")
	ErrClosed    = errors.New("room: closed")
	ErrQueueFull = errors.New("room: command queue full")
)

const (
	defaultTPS   = 30
	commandQueue = 256
)

// Info is a summary of a room for listings.
type Info struct {
	ID         ID              `json:"id"`
	Layout     string          `json:"layout"`
	Seats      []core.PlayerID `json:"seats"`
	Humans     []core.PlayerID `json:"humans"`
	Bots       []core.PlayerID `json:"bots"`
	Spectators int             `json:"spectators"`
	Phase      uint64          `json:"phase"`
	Elapsed    float64         `json:"elapsed"`
	Over       bool            `json:"over"`
	Created    time.Time       `json:"created"`
}

// Room owns one match.
type Room struct {
	id      ID
	layout  string
	log     *log.Logger
	match   *match.Match
	tps     int
	seats   []core.PlayerID
	bots    []*bot.Bot
	cmds    chan Command
	created time.Time

	mu       sync.RWMutex
	members  map[string]*member
	taken    map[core.PlayerID]string
	phase    uint64
	elapsed  float64
	over     bool
	closed   bool
	done     chan struct{}
	doneOnce sync.Once
}

type member struct {
	session Session
	seat    core.PlayerID // 0 for spectators
}

// Option configures a Room.
type Option func(*Room)

// WithTPS sets the tick rate.
func WithTPS(tps int) Option {
	return func(r *Room) {
		if tps > 0 {
			r.tps = tps
		}
	}
}

// WithLogger sets the room logger.
func WithLogger(l *log.Logger) Option {
	return func(r *Room) {
		r.log = l
	}
}

// WithBots hands the given seats to random bots seeded from seed.
func WithBots(seed int64, seats ...core.PlayerID) Option {
	return func(r *Room) {
		for _, s := range seats {
			r.bots = append(r.bots, bot.New(s, r.match.Config(), seed))
		}
	}
}

// New wraps m in a room.
func New(id ID, m *match.Match, opts ...Option) *Room {
	r := &Room{
		id:      id,
		layout:  m.Layout().Name,
		log:     log.Default(),
		match:   m,
		tps:     defaultTPS,
		seats:   m.Players(),
		cmds:    make(chan Command, commandQueue),
		created: time.Now(),
		members: make(map[string]*member),
		taken:   make(map[core.PlayerID]string),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	m.Events().Subscribe(match.ListenerFunc(func(e match.Event) {
		r.broadcast(EventMessage(e))
	}))
	return r
}

// ID returns the room id.
func (r *Room) ID() ID {
	return r.id
}

// Done is closed when Run returns.
func (r *Room) Done() <-chan struct{} {
	return r.done
}

// Info returns a summary of the room.
func (r *Room) Info() Info {
	r.mu.RLock()
	defer r.mu.RUnlock()

	info := Info{
		ID:      r.id,
		Layout:  r.layout,
		Seats:   slices.Clone(r.seats),
		Phase:   r.phase,
		Elapsed: r.elapsed,
		Over:    r.over,
		Created: r.created,
	}
	for _, b := range r.bots {
		info.Bots = append(info.Bots, b.Player)
	}
	for seat := range r.taken {
		info.Humans = append(info.Humans, seat)
	}
	slices.Sort(info.Humans)
	for _, m := range r.members {
		if m.seat == 0 {
			info.Spectators++
		}
	}
	return info
}

// Join seats s in the first free seat that no bot holds.
func (r *Room) Join(s Session) (core.PlayerID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return 0, ErrClosed
	}
	for _, seat := range r.seats {
		if r.isBot(seat) {
			continue
		}
		if _, ok := r.taken[seat]; ok {
			continue
		}
		r.taken[seat] = s.ID()
		r.members[s.ID()] = &member{session: s, seat: seat}
		s.Send(Message{Type: TypeWelcome, Payload: Welcome{Room: r.id, Layout: r.layout, Seat: int(seat)}})
		r.log.Info("session joined", "room", r.id, "session", s.ID(), "seat", seat)
		return seat, nil
	}
	return 0, ErrNoSeat
}

// Watch adds s as a spectator.
func (r *Room) Watch(s Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrClosed
	}
	r.members[s.ID()] = &member{session: s}
	s.Send(Message{Type: TypeWelcome, Payload: Welcome{Room: r.id, Layout: r.layout}})
	return nil
}

// Leave removes the session. A seated player is eliminated.
func (r *Room) Leave(sessionID string) {
	r.mu.Lock()
	m, ok := r.members[sessionID]
	if ok {
		delete(r.members, sessionID)
		if m.seat != 0 {
			delete(r.taken, m.seat)
		}
	}
	r.mu.Unlock()

	if ok && m.seat != 0 {
		r.log.Info("session left", "room", r.id, "session", sessionID, "seat", m.seat)
		//nolint:errcheck // Best effort, the seat is already released
		r.Submit(Leave{Player: m.seat})
	}
}

// Submit queues a command for the next tick.
func (r *Room) Submit(c Command) error {
	select {
	case <-r.done:
		return ErrClosed
	default:
	}
	select {
	case r.cmds <- c:
		return nil
	default:
		return ErrQueueFull
	}
}

// Run drives the match until it ends or ctx is cancelled.
func (r *Room) Run(ctx context.Context) (match.Result, error) {
	defer r.close()

	interval := time.Second / time.Duration(r.tps)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	delta := 1 / float64(r.tps)
	r.log.Info("room started", "room", r.id, "layout", r.layout, "tps", r.tps)
	r.broadcastSnapshot()

	for {
		select {
		case <-ctx.Done():
			r.log.Info("room cancelled", "room", r.id)
			return match.Result{}, ctx.Err()
		case <-ticker.C:
			if res, over := r.Tick(delta); over {
				r.log.Info("room finished", "room", r.id, "winner", res.Winner, "draw", res.Draw)
				return res, nil
			}
		}
	}
}

// Tick applies queued commands, then advances bots and the match by delta
// seconds. Run calls it on every tick; tests may call it directly instead of
// Run.
func (r *Room) Tick(delta float64) (match.Result, bool) {
	r.reap()
	r.drain()

	for _, b := range r.bots {
		b.Update(r.match, delta)
	}
	r.match.Update(delta)

	res, over := r.match.Result()

	r.mu.Lock()
	r.phase = r.match.Phase()
	r.elapsed = r.match.Elapsed()
	announce := over && !r.over
	r.over = over
	r.mu.Unlock()

	if announce {
		r.broadcastSnapshot()
	}
	return res, over
}

// Snapshot sends the current state to one session, or to everyone when
// sessionID is empty. It must run on the room goroutine.
func (r *Room) Snapshot(sessionID string) {
	msg := Message{Type: TypeSnapshot, Payload: r.match.Snapshot()}
	if sessionID == "" {
		r.broadcast(msg)
		return
	}
	r.mu.RLock()
	m, ok := r.members[sessionID]
	r.mu.RUnlock()
	if ok {
		m.session.Send(msg)
	}
}

func (r *Room) broadcastSnapshot() {
	r.Snapshot("")
}

func (r *Room) drain() {
	for {
		select {
		case c := <-r.cmds:
			if snap, ok := c.(snapshotRequest); ok {
				r.Snapshot(snap.session)
				continue
			}
			if !c.apply(r.match) {
				r.log.Debug("command rejected", "room", r.id, "seat", c.Seat())
				r.reject(c)
			}
		default:
			return
		}
	}
}

func (r *Room) reject(c Command) {
	r.mu.RLock()
	id, ok := r.taken[c.Seat()]
	var m *member
	if ok {
		m = r.members[id]
	}
	r.mu.RUnlock()
	if m != nil {
		m.session.Send(Message{Type: TypeRejected, Payload: c})
	}
}

// reap drops sessions whose transport has gone away.
func (r *Room) reap() {
	var gone []string
	r.mu.RLock()
	for id, m := range r.members {
		select {
		case <-m.session.Done():
			gone = append(gone, id)
		default:
		}
	}
	r.mu.RUnlock()
	for _, id := range gone {
		r.Leave(id)
	}
}

func (r *Room) broadcast(msg Message) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, m := range r.members {
		m.session.Send(msg)
	}
}

func (r *Room) isBot(seat core.PlayerID) bool {
	for _, b := range r.bots {
		if b.Player == seat {
			return true
		}
	}
	return false
}

func (r *Room) close() {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()
	r.doneOnce.Do(func() {
		close(r.done)
	})
}

// RequestSnapshot asks the room goroutine to send the current state to the
// session.
func (r *Room) RequestSnapshot(sessionID string) error {
	return r.Submit(snapshotRequest{session: sessionID})
}

type snapshotRequest struct {
	session string
}

func (snapshotRequest) Seat() core.PlayerID     { return 0 }
func (snapshotRequest) apply(*match.Match) bool { return true }
