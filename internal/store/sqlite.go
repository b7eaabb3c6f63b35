// Package store keeps league snapshots in SQLite so a league can be restored to any
// committed point.
package store

import (
	"bytes"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/Alexrocks4325/puck-powerhouse-pro-sub001/internal/models"
)

var ErrSnapshotNotFound = errors.New("snapshot not found")

// Snapshot describes one stored league state
type Snapshot struct {
	ID        string    `json:"id"`
	Season    string    `json:"season"`
	Label     string    `json:"label"` // What produced it, e.g. "sim TOR vs BOS"
	Teams     int       `json:"teams"`
	Players   int       `json:"players"`
	CreatedAt time.Time `json:"createdAt"`
}

// SQLiteDB stores snapshots in a SQLite file
type SQLiteDB struct {
	db *sql.DB
}

// NewSQLiteDB opens (or creates) the database at path; ":memory:" works for tests
func NewSQLiteDB(path string) (*SQLiteDB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection keeps an in-memory database alive and serialises writers
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	return &SQLiteDB{db: db}, nil
}

func (s *SQLiteDB) Close() error {
	return s.db.Close()
}

// Migrate creates the schema; running it again is a no-op
func (s *SQLiteDB) Migrate() error {
	baseMigrations := []string{
		`CREATE TABLE IF NOT EXISTS snapshots (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			season TEXT NOT NULL,
			label TEXT NOT NULL DEFAULT '',
			state_json TEXT NOT NULL,
			created_at TEXT NOT NULL
		)`,
	}
	for _, migration := range baseMigrations {
		if _, err := s.db.Exec(migration); err != nil {
			return fmt.Errorf("base migration failed: %w", err)
		}
	}

	alterMigrations := []string{
		`ALTER TABLE snapshots ADD COLUMN team_count INTEGER DEFAULT 0`,
		`ALTER TABLE snapshots ADD COLUMN player_count INTEGER DEFAULT 0`,
	}
	for _, migration := range alterMigrations {
		if _, err := s.db.Exec(migration); err != nil && !isDuplicateColumnError(err) {
			return fmt.Errorf("alter migration failed: %w", err)
		}
	}

	indexMigrations := []string{
		`CREATE INDEX IF NOT EXISTS idx_snapshots_season ON snapshots(season, seq DESC)`,
	}
	for _, migration := range indexMigrations {
		if _, err := s.db.Exec(migration); err != nil {
			return fmt.Errorf("index migration failed: %w", err)
		}
	}
	return nil
}

func isDuplicateColumnError(err error) bool {
	return strings.Contains(err.Error(), "duplicate column name")
}

// SaveSnapshot stores the league under a new id
func (s *SQLiteDB) SaveSnapshot(state *models.LeagueState, label string) (*Snapshot, error) {
	var buf bytes.Buffer
	if err := models.EncodeLeague(&buf, state); err != nil {
		return nil, err
	}

	snap := &Snapshot{
		ID:        uuid.New().String(),
		Season:    state.Season.Label,
		Label:     label,
		Teams:     len(state.Teams),
		Players:   len(state.Players),
		CreatedAt: time.Now().UTC(),
	}

	_, err := s.db.Exec(`INSERT INTO snapshots (id, season, label, state_json, created_at, team_count, player_count)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		snap.ID, snap.Season, snap.Label, buf.String(), snap.CreatedAt.Format(time.RFC3339Nano),
		snap.Teams, snap.Players,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to save snapshot: %w", err)
	}
	return snap, nil
}

// LoadSnapshot returns the stored league and its description
func (s *SQLiteDB) LoadSnapshot(id string) (*models.LeagueState, *Snapshot, error) {
	row := s.db.QueryRow(`SELECT id, season, label, team_count, player_count, created_at, state_json
		FROM snapshots WHERE id = ?`, id)
	return scanState(row)
}

// LatestSnapshot returns the most recently saved league
func (s *SQLiteDB) LatestSnapshot() (*models.LeagueState, *Snapshot, error) {
	row := s.db.QueryRow(`SELECT id, season, label, team_count, player_count, created_at, state_json
		FROM snapshots ORDER BY seq DESC LIMIT 1`)
	return scanState(row)
}

// ListSnapshots returns up to limit snapshots, newest first; season filters when set
func (s *SQLiteDB) ListSnapshots(season string, limit int) ([]Snapshot, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `SELECT id, season, label, team_count, player_count, created_at FROM snapshots`
	args := []any{}
	if season != "" {
		query += ` WHERE season = ?`
		args = append(args, season)
	}
	query += ` ORDER BY seq DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	defer rows.Close()

	var snaps []Snapshot
	for rows.Next() {
		var snap Snapshot
		var created string
		if err := rows.Scan(&snap.ID, &snap.Season, &snap.Label, &snap.Teams, &snap.Players, &created); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		snap.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		snaps = append(snaps, snap)
	}
	return snaps, rows.Err()
}

func scanState(row *sql.Row) (*models.LeagueState, *Snapshot, error) {
	var snap Snapshot
	var created, stateJSON string
	err := row.Scan(&snap.ID, &snap.Season, &snap.Label, &snap.Teams, &snap.Players, &created, &stateJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, ErrSnapshotNotFound
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	snap.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)

	state, err := models.DecodeLeague(strings.NewReader(stateJSON))
	if err != nil {
		return nil, nil, fmt.Errorf("snapshot %s: %w", snap.ID, err)
	}
	return state, &snap, nil
}
