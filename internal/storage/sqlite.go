// Package storage provides SQLite-based persistence for finished matches.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/ricochet/internal/room"
)

// Store manages the SQLite database connection for match results.
type Store struct {
	db *sql.DB
}

// MatchRecord is one stored match result.
type MatchRecord struct {
	ID        int64
	MatchID   string
	Layout    string
	Winner    int // Team that won, 0 on a draw
	Draw      bool
	Players   []int // Winning seats
	Seats     int
	Phases    uint64
	Elapsed   float64 // Seconds of game time
	Seed      int64
	Reason    string // "completed" or "cancelled"
	CreatedAt time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS match_results (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			match_id TEXT NOT NULL UNIQUE,
			layout TEXT NOT NULL,
			winner INTEGER NOT NULL DEFAULT 0,
			draw INTEGER NOT NULL DEFAULT 0,
			players TEXT NOT NULL DEFAULT '',
			seats INTEGER NOT NULL DEFAULT 0,
			phases INTEGER NOT NULL DEFAULT 0,
			elapsed REAL NOT NULL DEFAULT 0,
			seed INTEGER NOT NULL DEFAULT 0,
			reason TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_match_results_layout ON match_results(layout);
		CREATE INDEX IF NOT EXISTS idx_match_results_created ON match_results(created_at DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveResult records a finished match.
// Returns the ID of the inserted record.
func (s *Store) SaveResult(r MatchRecord) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO match_results
		 (match_id, layout, winner, draw, players, seats, phases, elapsed, seed, reason)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.MatchID,
		r.Layout,
		r.Winner,
		r.Draw,
		joinSeats(r.Players),
		r.Seats,
		int64(r.Phases),
		r.Elapsed,
		r.Seed,
		r.Reason,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save result: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

const resultColumns = `id, match_id, layout, winner, draw, players, seats, phases, elapsed, seed, reason, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (MatchRecord, error) {
	var r MatchRecord
	var players string
	var phases int64
	var createdAt any
	err := row.Scan(
		&r.ID,
		&r.MatchID,
		&r.Layout,
		&r.Winner,
		&r.Draw,
		&players,
		&r.Seats,
		&phases,
		&r.Elapsed,
		&r.Seed,
		&r.Reason,
		&createdAt,
	)
	if err != nil {
		return r, err
	}
	r.Players = splitSeats(players)
	r.Phases = uint64(phases)
	r.CreatedAt = parseTime(createdAt)
	return r, nil
}

// ResultByID retrieves a match by its match ID.
// Returns nil without error if no such match was stored.
func (s *Store) ResultByID(matchID string) (*MatchRecord, error) {
	row := s.db.QueryRow(
		`SELECT `+resultColumns+`
		 FROM match_results
		 WHERE match_id = ?`,
		matchID,
	)
	r, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query result: %w", err)
	}
	return &r, nil
}

// RecentResults retrieves the most recent matches, newest first.
func (s *Store) RecentResults(limit int) ([]MatchRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.queryResults(
		`SELECT `+resultColumns+`
		 FROM match_results
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		limit,
	)
}

// LayoutResults retrieves the most recent matches played on one layout.
func (s *Store) LayoutResults(layout string, limit int) ([]MatchRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.queryResults(
		`SELECT `+resultColumns+`
		 FROM match_results
		 WHERE layout = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		layout, limit,
	)
}

func (s *Store) queryResults(query string, args ...any) ([]MatchRecord, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query results: %w", err)
	}
	defer rows.Close()

	var results []MatchRecord
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		results = append(results, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return results, nil
}

// ClearResults deletes every stored result for the layout.
func (s *Store) ClearResults(layout string) error {
	_, err := s.db.Exec("DELETE FROM match_results WHERE layout = ?", layout)
	if err != nil {
		return fmt.Errorf("storage: cannot clear results: %w", err)
	}
	return nil
}

// SaveMatchResult implements room.ResultSaver.
func (s *Store) SaveMatchResult(data room.ResultData) error {
	_, err := s.SaveResult(MatchRecord{
		MatchID: data.MatchID,
		Layout:  data.Layout,
		Winner:  data.Winner,
		Draw:    data.Draw,
		Players: data.Players,
		Seats:   data.Seats,
		Phases:  data.Phases,
		Elapsed: data.Elapsed,
		Seed:    data.Seed,
		Reason:  data.Reason,
	})
	return err
}

// Ensure Store implements ResultSaver
var _ room.ResultSaver = (*Store)(nil)

// LayoutStats contains aggregated statistics for a layout.
type LayoutStats struct {
	Layout     string
	Matches    int
	Draws      int
	Cancelled  int
	AvgPhases  float64
	Longest    float64 // Longest match in seconds of game time
	LastPlayed time.Time
}

// GetLayoutStats retrieves aggregated statistics for one layout.
func (s *Store) GetLayoutStats(layout string) (*LayoutStats, error) {
	row := s.db.QueryRow(
		`SELECT layout, COUNT(*), COALESCE(SUM(draw), 0),
		        COALESCE(SUM(CASE WHEN reason = 'cancelled' THEN 1 ELSE 0 END), 0),
		        COALESCE(AVG(phases), 0), COALESCE(MAX(elapsed), 0), MAX(created_at)
		 FROM match_results
		 WHERE layout = ?`,
		layout,
	)
	var name sql.NullString
	stats, err := scanStats(row, &name)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get layout stats: %w", err)
	}
	stats.Layout = layout
	return stats, nil
}

// GetAllLayoutStats retrieves statistics for every layout that has been
// played.
func (s *Store) GetAllLayoutStats() (map[string]*LayoutStats, error) {
	rows, err := s.db.Query(
		`SELECT layout, COUNT(*), SUM(draw),
		        SUM(CASE WHEN reason = 'cancelled' THEN 1 ELSE 0 END),
		        AVG(phases), MAX(elapsed), MAX(created_at)
		 FROM match_results
		 GROUP BY layout`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get all layout stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*LayoutStats)
	for rows.Next() {
		var name sql.NullString
		st, err := scanStats(rows, &name)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		st.Layout = name.String
		stats[st.Layout] = st
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return stats, nil
}

func scanStats(row scanner, name *sql.NullString) (*LayoutStats, error) {
	var st LayoutStats
	var lastPlayed any
	if err := row.Scan(name, &st.Matches, &st.Draws, &st.Cancelled, &st.AvgPhases, &st.Longest, &lastPlayed); err != nil {
		return nil, err
	}
	st.LastPlayed = parseTime(lastPlayed)
	return &st, nil
}

// parseTime handles both the time.Time and the string forms the driver
// returns for DATETIME columns.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

func joinSeats(seats []int) string {
	parts := make([]string, len(seats))
	for i, s := range seats {
		parts[i] = strconv.Itoa(s)
	}
	return strings.Join(parts, ",")
}

func splitSeats(s string) []int {
	if s == "" {
		return nil
	}
	var seats []int
	for _, part := range strings.Split(s, ",") {
		if n, err := strconv.Atoi(part); err == nil {
			seats = append(seats, n)
		}
	}
	return seats
}
