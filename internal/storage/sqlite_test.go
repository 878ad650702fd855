package storage

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/vovakirdan/ricochet/internal/room"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreReopenKeepsResults(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if _, err := store.SaveResult(MatchRecord{MatchID: "a", Layout: "duel", Reason: "completed"}); err != nil {
		t.Fatalf("SaveResult() failed: %v", err)
	}
	store.Close()

	store, err = Open(dbPath)
	if err != nil {
		t.Fatalf("second Open() failed: %v", err)
	}
	defer store.Close()
	got, err := store.ResultByID("a")
	if err != nil || got == nil {
		t.Fatalf("ResultByID() = %v, %v", got, err)
	}
}

func TestStoreSaveAndRetrieve(t *testing.T) {
	store := openStore(t)

	in := MatchRecord{
		MatchID: "m-1",
		Layout:  "crossfire",
		Winner:  2,
		Players: []int{2, 4},
		Seats:   4,
		Phases:  812,
		Elapsed: 101.5,
		Seed:    42,
		Reason:  "completed",
	}
	id, err := store.SaveResult(in)
	if err != nil {
		t.Fatalf("SaveResult() failed: %v", err)
	}
	if id == 0 {
		t.Error("Expected a non-zero row ID")
	}

	got, err := store.ResultByID("m-1")
	if err != nil {
		t.Fatalf("ResultByID() failed: %v", err)
	}
	if got == nil {
		t.Fatal("Expected a stored result")
	}
	if got.Layout != in.Layout || got.Winner != 2 || got.Draw || got.Seats != 4 {
		t.Errorf("ResultByID() = %+v", got)
	}
	if !slices.Equal(got.Players, in.Players) {
		t.Errorf("Players = %v, expected %v", got.Players, in.Players)
	}
	if got.Phases != 812 || got.Elapsed != 101.5 || got.Seed != 42 || got.Reason != "completed" {
		t.Errorf("ResultByID() = %+v", got)
	}
	if got.CreatedAt.IsZero() {
		t.Error("Expected created_at to be set")
	}
}

func TestStoreResultByIDMissing(t *testing.T) {
	store := openStore(t)
	got, err := store.ResultByID("nope")
	if err != nil {
		t.Fatalf("ResultByID() failed: %v", err)
	}
	if got != nil {
		t.Errorf("Expected nil for a missing match, got %+v", got)
	}
}

func TestStoreDuplicateMatchID(t *testing.T) {
	store := openStore(t)
	r := MatchRecord{MatchID: "dup", Layout: "duel", Reason: "completed"}
	if _, err := store.SaveResult(r); err != nil {
		t.Fatalf("SaveResult() failed: %v", err)
	}
	if _, err := store.SaveResult(r); err == nil {
		t.Error("Expected an error for a duplicate match ID")
	}
}

func TestStoreRecentResultsNewestFirst(t *testing.T) {
	store := openStore(t)
	for _, id := range []string{"first", "second", "third"} {
		if _, err := store.SaveResult(MatchRecord{MatchID: id, Layout: "duel", Reason: "completed"}); err != nil {
			t.Fatalf("SaveResult() failed: %v", err)
		}
	}

	recent, err := store.RecentResults(2)
	if err != nil {
		t.Fatalf("RecentResults() failed: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("Expected 2 results with limit, got %d", len(recent))
	}
	if recent[0].MatchID != "third" || recent[1].MatchID != "second" {
		t.Errorf("Results not newest first: %s, %s", recent[0].MatchID, recent[1].MatchID)
	}
}

func TestStoreLayoutResultsAndClear(t *testing.T) {
	store := openStore(t)
	store.SaveResult(MatchRecord{MatchID: "a", Layout: "duel", Reason: "completed"})      //nolint:errcheck // Checked by the reads
	store.SaveResult(MatchRecord{MatchID: "b", Layout: "duel", Reason: "completed"})      //nolint:errcheck // Checked by the reads
	store.SaveResult(MatchRecord{MatchID: "c", Layout: "crossfire", Reason: "completed"}) //nolint:errcheck // Checked by the reads

	duel, err := store.LayoutResults("duel", 10)
	if err != nil {
		t.Fatalf("LayoutResults() failed: %v", err)
	}
	if len(duel) != 2 {
		t.Errorf("Expected 2 duel results, got %d", len(duel))
	}

	if err := store.ClearResults("duel"); err != nil {
		t.Fatalf("ClearResults() failed: %v", err)
	}
	duel, _ = store.LayoutResults("duel", 10)
	if len(duel) != 0 {
		t.Errorf("Expected 0 duel results after clear, got %d", len(duel))
	}
	cross, _ := store.LayoutResults("crossfire", 10)
	if len(cross) != 1 {
		t.Error("Crossfire results should not be affected by clearing duel")
	}
}

func TestStoreSaveMatchResult(t *testing.T) {
	store := openStore(t)
	data := room.ResultData{
		MatchID: "room-1",
		Layout:  "duel",
		Draw:    true,
		Seats:   2,
		Phases:  40,
		Elapsed: 12,
		Seed:    9,
		Reason:  "cancelled",
	}
	if err := store.SaveMatchResult(data); err != nil {
		t.Fatalf("SaveMatchResult() failed: %v", err)
	}

	got, err := store.ResultByID("room-1")
	if err != nil || got == nil {
		t.Fatalf("ResultByID() = %v, %v", got, err)
	}
	if !got.Draw || got.Winner != 0 || len(got.Players) != 0 || got.Reason != "cancelled" {
		t.Errorf("ResultByID() = %+v", got)
	}
}

func TestStoreLayoutStats(t *testing.T) {
	store := openStore(t)

	empty, err := store.GetLayoutStats("duel")
	if err != nil {
		t.Fatalf("GetLayoutStats() failed: %v", err)
	}
	if empty.Matches != 0 || !empty.LastPlayed.IsZero() {
		t.Errorf("Expected empty stats, got %+v", empty)
	}

	records := []MatchRecord{
		{MatchID: "a", Layout: "duel", Winner: 1, Phases: 100, Elapsed: 10, Reason: "completed"},
		{MatchID: "b", Layout: "duel", Draw: true, Phases: 300, Elapsed: 30, Reason: "completed"},
		{MatchID: "c", Layout: "duel", Phases: 200, Elapsed: 20, Reason: "cancelled"},
		{MatchID: "d", Layout: "crossfire", Winner: 3, Phases: 50, Elapsed: 5, Reason: "completed"},
	}
	for _, r := range records {
		if _, err := store.SaveResult(r); err != nil {
			t.Fatalf("SaveResult() failed: %v", err)
		}
	}

	stats, err := store.GetLayoutStats("duel")
	if err != nil {
		t.Fatalf("GetLayoutStats() failed: %v", err)
	}
	if stats.Layout != "duel" || stats.Matches != 3 || stats.Draws != 1 || stats.Cancelled != 1 {
		t.Errorf("GetLayoutStats() = %+v", stats)
	}
	if stats.AvgPhases != 200 || stats.Longest != 30 {
		t.Errorf("AvgPhases = %v, Longest = %v", stats.AvgPhases, stats.Longest)
	}
	if stats.LastPlayed.IsZero() {
		t.Error("Expected LastPlayed to be set")
	}

	all, err := store.GetAllLayoutStats()
	if err != nil {
		t.Fatalf("GetAllLayoutStats() failed: %v", err)
	}
	if len(all) != 2 || all["crossfire"] == nil || all["crossfire"].Matches != 1 {
		t.Errorf("GetAllLayoutStats() = %+v", all)
	}
}

func TestStoreExpandHomePath(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}

func TestSeatList(t *testing.T) {
	tests := []struct {
		seats []int
		text  string
	}{
		{nil, ""},
		{[]int{1}, "1"},
		{[]int{2, 4}, "2,4"},
	}
	for _, tt := range tests {
		if got := joinSeats(tt.seats); got != tt.text {
			t.Errorf("joinSeats(%v) = %q, expected %q", tt.seats, got, tt.text)
		}
		if got := splitSeats(tt.text); !slices.Equal(got, tt.seats) {
			t.Errorf("splitSeats(%q) = %v, expected %v", tt.text, got, tt.seats)
		}
	}
}
