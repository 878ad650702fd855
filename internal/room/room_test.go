package room

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/ricochet/internal/config"
	"github.com/vovakirdan/ricochet/internal/core"
	"github.com/vovakirdan/ricochet/internal/layout"
	"github.com/vovakirdan/ricochet/internal/match"
)

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func newRoom(t *testing.T, opts ...Option) *Room {
	t.Helper()
	l, err := layout.Builtin("duel")
	if err != nil {
		t.Fatalf("Builtin() failed: %v", err)
	}
	cfg := config.Default()
	cfg.Phase.SpawnInterval = 1000
	m, err := match.New(l, cfg, match.WithSeed(1))
	if err != nil {
		t.Fatalf("match.New() failed: %v", err)
	}
	return New("test", m, append([]Option{WithLogger(quietLogger())}, opts...)...)
}

func drainKinds(s *ChannelSession) []string {
	var out []string
	for {
		select {
		case msg := <-s.Messages():
			out = append(out, msg.Type)
		default:
			return out
		}
	}
}

func contains(kinds []string, want string) bool {
	for _, k := range kinds {
		if k == want {
			return true
		}
	}
	return false
}

func TestChannelSessionDropsOldest(t *testing.T) {
	s := NewChannelSession("s", 2)
	s.Send(Message{Type: "a"})
	s.Send(Message{Type: "b"})
	s.Send(Message{Type: "c"})

	got := drainKinds(s)
	if len(got) != 2 || got[0] != "b" || got[1] != "c" {
		t.Errorf("messages = %v, expected [b c]", got)
	}

	s.Close()
	s.Close()
	s.Send(Message{Type: "d"})
	if len(drainKinds(s)) != 0 {
		t.Error("closed session should not queue messages")
	}
}

func TestJoinAssignsFreeSeats(t *testing.T) {
	r := newRoom(t, WithBots(1, 2))
	a := NewChannelSession("a", 16)
	b := NewChannelSession("b", 16)

	seat, err := r.Join(a)
	if err != nil || seat != 1 {
		t.Fatalf("Join() = %d, %v", seat, err)
	}
	if _, err := r.Join(b); !errors.Is(err, ErrNoSeat) {
		t.Errorf("expected ErrNoSeat, got %v", err)
	}
	if err := r.Watch(b); err != nil {
		t.Fatalf("Watch() failed: %v", err)
	}

	info := r.Info()
	if len(info.Humans) != 1 || info.Humans[0] != 1 {
		t.Errorf("humans = %v", info.Humans)
	}
	if len(info.Bots) != 1 || info.Bots[0] != 2 {
		t.Errorf("bots = %v", info.Bots)
	}
	if info.Spectators != 1 {
		t.Errorf("spectators = %d", info.Spectators)
	}
	if kinds := drainKinds(a); !contains(kinds, TypeWelcome) {
		t.Errorf("expected welcome, got %v", kinds)
	}
}

func TestTickAppliesCommands(t *testing.T) {
	r := newRoom(t)
	s := NewChannelSession("a", 256)
	seat, _ := r.Join(s)

	if err := r.Submit(PlaceReflector{Player: seat, X: 2, Y: 3, Orientation: core.OrientTopLeft}); err != nil {
		t.Fatalf("Submit() failed: %v", err)
	}
	r.Tick(0.01)

	refl := r.match.Snapshot().Reflectors
	if len(refl) != 1 || refl[0].Pos != core.C(2, 3) {
		t.Errorf("reflectors = %+v", refl)
	}
	if kinds := drainKinds(s); !contains(kinds, "reflector_placed") {
		t.Errorf("expected reflector_placed, got %v", kinds)
	}
}

func TestRejectedCommandNotifiesSender(t *testing.T) {
	r := newRoom(t)
	s := NewChannelSession("a", 256)
	seat, _ := r.Join(s)

	r.Submit(PlaceReflector{Player: seat, X: 0, Y: 2, Orientation: core.OrientTopLeft})
	r.Tick(0.01)

	if kinds := drainKinds(s); !contains(kinds, TypeRejected) {
		t.Errorf("expected rejected, got %v", kinds)
	}
}

func TestClosedSessionIsEliminated(t *testing.T) {
	r := newRoom(t, WithBots(1, 2))
	s := NewChannelSession("a", 256)
	r.Join(s)

	s.Close()
	res, over := r.Tick(0.01)

	if !over || res.Winner != 2 {
		t.Fatalf("Tick() = %+v, %v; expected win for team 2", res, over)
	}
	if len(r.Info().Humans) != 0 {
		t.Error("seat should be released")
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	r := newRoom(t, WithTPS(200))
	ctx, cancel := context.WithCancel(context.Background())

	var err error
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err = r.Run(ctx)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()
	wg.Wait()

	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, expected context.Canceled", err)
	}
	select {
	case <-r.Done():
	default:
		t.Error("Done() should be closed")
	}
	if err := r.Submit(UseTimeStop{Player: 1}); !errors.Is(err, ErrClosed) {
		t.Errorf("Submit() after close = %v", err)
	}
	if _, err := r.Join(NewChannelSession("late", 1)); !errors.Is(err, ErrClosed) {
		t.Errorf("Join() after close = %v", err)
	}
}

func TestRunReturnsResult(t *testing.T) {
	r := newRoom(t, WithTPS(200))
	s := NewChannelSession("a", 1024)
	r.Watch(s)
	r.Submit(Leave{Player: 1})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	res, err := r.Run(ctx)
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if res.Winner != 2 {
		t.Errorf("winner = %d, expected 2", res.Winner)
	}
	kinds := drainKinds(s)
	if !contains(kinds, "game_over") || !contains(kinds, TypeSnapshot) {
		t.Errorf("spectator missed the ending: %v", kinds)
	}
}

type memorySaver struct {
	mu      sync.Mutex
	results []ResultData
}

func (m *memorySaver) SaveMatchResult(r ResultData) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results = append(m.results, r)
	return nil
}

func TestManagerLifecycle(t *testing.T) {
	cfg := ManagerConfig{Match: config.Default(), TPS: 100, Seed: 7}
	mgr := NewManager(cfg, quietLogger())
	saver := &memorySaver{}
	mgr.SetResultSaver(saver)

	ctx, cancel := context.WithCancel(context.Background())
	r, err := mgr.Create(ctx, CreateOptions{Layout: "duel", Humans: 1})
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if _, ok := mgr.Get(r.ID()); !ok {
		t.Error("Get() missed the room")
	}
	list := mgr.List()
	if len(list) != 1 || list[0].Layout != "duel" || len(list[0].Bots) != 1 {
		t.Errorf("List() = %+v", list)
	}

	cancel()
	mgr.Wait()

	if mgr.Len() != 0 {
		t.Errorf("Len() = %d after cancel", mgr.Len())
	}
	saver.mu.Lock()
	defer saver.mu.Unlock()
	if len(saver.results) != 1 || saver.results[0].Reason != "cancelled" || saver.results[0].Layout != "duel" {
		t.Errorf("saved = %+v", saver.results)
	}
}

func TestManagerUnknownLayout(t *testing.T) {
	mgr := NewManager(ManagerConfig{Match: config.Default()}, quietLogger())
	if _, err := mgr.Create(context.Background(), CreateOptions{Layout: "nope"}); err == nil {
		t.Error("expected error for unknown layout")
	}
}
