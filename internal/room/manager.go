package room

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/ricochet/internal/config"
	"github.com/vovakirdan/ricochet/internal/match"
	"github.com/vovakirdan/ricochet/internal/registry"
)

// ResultSaver persists finished matches. It lets the manager save results
// without depending on the storage package.
type ResultSaver interface {
	SaveMatchResult(result ResultData) error
}

// ResultData is a finished match ready for persistence.
type ResultData struct {
	MatchID string
	Layout  string
	Winner  int
	Draw    bool
	Players []int // Winning seats
	Seats   int
	Phases  uint64
	Elapsed float64
	Seed    int64
	Reason  string // "completed" or "cancelled"
}

// NewResultData converts a match result.
func NewResultData(id ID, layout string, seats int, seed int64, res match.Result, reason string) ResultData {
	d := ResultData{
		MatchID: string(id),
		Layout:  layout,
		Winner:  int(res.Winner),
		Draw:    res.Draw,
		Seats:   seats,
		Phases:  res.Phase,
		Elapsed: res.Elapsed,
		Seed:    seed,
		Reason:  reason,
	}
	for _, p := range res.Players {
		d.Players = append(d.Players, int(p))
	}
	return d
}

// ManagerConfig holds configuration for the manager.
type ManagerConfig struct {
	Match config.MatchConfig
	TPS   int
	Seed  int64 // Zero picks a time-based seed per room
}

// CreateOptions describe a new room.
type CreateOptions struct {
	Layout string
	Humans int // Seats left for sessions; the rest get bots
}

// Manager tracks running rooms.
type Manager struct {
	cfg   ManagerConfig
	log   *log.Logger
	saver ResultSaver

	mu    sync.RWMutex
	rooms map[ID]*Room
	wg    sync.WaitGroup
}

// NewManager creates a manager.
func NewManager(cfg ManagerConfig, logger *log.Logger) *Manager {
	if logger == nil {
		logger = log.Default()
	}
	return &Manager{
		cfg:   cfg,
		log:   logger,
		rooms: make(map[ID]*Room),
	}
}

// SetResultSaver sets the optional result saver.
func (m *Manager) SetResultSaver(s ResultSaver) {
	m.saver = s
}

// Create builds a room on the named layout and starts it. The room stops
// when the match ends or ctx is cancelled.
func (m *Manager) Create(ctx context.Context, opts CreateOptions) (*Room, error) {
	l, err := registry.Create(opts.Layout)
	if err != nil {
		return nil, fmt.Errorf("room: %w", err)
	}

	id := ID(uuid.NewString())
	seed := m.cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	logger := m.log.With("room", id)

	mt, err := match.New(l, m.cfg.Match, match.WithSeed(seed), match.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("room: %w", err)
	}

	seats := mt.Players()
	humans := min(max(opts.Humans, 0), len(seats))
	r := New(id, mt, WithTPS(m.cfg.TPS), WithLogger(logger), WithBots(seed, seats[humans:]...))

	m.mu.Lock()
	m.rooms[id] = r
	m.mu.Unlock()

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		res, runErr := r.Run(ctx)

		m.mu.Lock()
		delete(m.rooms, id)
		m.mu.Unlock()

		reason := "completed"
		if runErr != nil {
			reason = "cancelled"
			res, _ = mt.Result()
		}
		m.save(NewResultData(id, l.Name, len(seats), seed, res, reason))
	}()

	return r, nil
}

func (m *Manager) save(d ResultData) {
	if m.saver == nil {
		return
	}
	if err := m.saver.SaveMatchResult(d); err != nil {
		m.log.Warn("could not save result", "room", d.MatchID, "error", err)
	}
}

// Get returns a running room.
func (m *Manager) Get(id ID) (*Room, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.rooms[id]
	return r, ok
}

// List returns every running room, oldest first.
func (m *Manager) List() []Info {
	m.mu.RLock()
	rooms := make([]*Room, 0, len(m.rooms))
	for _, r := range m.rooms {
		rooms = append(rooms, r)
	}
	m.mu.RUnlock()

	out := make([]Info, 0, len(rooms))
	for _, r := range rooms {
		out = append(out, r.Info())
	}
	slices.SortFunc(out, func(a, b Info) int {
		if c := a.Created.Compare(b.Created); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}

// Len returns the number of running rooms.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rooms)
}

// Wait blocks until every room goroutine has returned.
func (m *Manager) Wait() {
	m.wg.Wait()
}
