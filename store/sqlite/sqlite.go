/*
Package sqlite provides SQLite-backed persistence for per-person travel
records.

PURPOSE:
  Stores the one durable record the tracker needs per person: display name,
  safety buffer setting, and the ordered travel history. The engine itself
  never touches storage; binaries load a person, build a residence.History,
  and query it in memory.

KEY TABLES:
  people:         id (caller-chosen slug), name, buffer_days
  travel_periods: country + inclusive date range per row, with an explicit
                  position column preserving insertion order so that
                  stable-sort ties in the engine reproduce across reloads

CONCURRENCY:
  Uses sync.RWMutex for thread-safety across HTTP handlers. SQLite is
  opened with WAL (Write-Ahead Logging) so readers do not block.

USAGE:
  store, err := sqlite.New("./residence.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  person, err := store.GetPerson(ctx, "omer")
  periods, err := store.LoadHistory(ctx, "omer")

MIGRATION:
  Schema is auto-migrated on New(). Use ":memory:" for tests.
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/warp/residence-engine/residence"
)

// ErrPersonNotFound is returned when a person id has no record.
var ErrPersonNotFound = errors.New("person not found")

// Person is the stored settings record for one tracked person.
type Person struct {
	ID         string
	Name       string
	BufferDays int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// TravelPeriod is one stored travel history row.
type TravelPeriod struct {
	Position int // insertion order, 0-based
	Country  string
	Start    residence.Date
	End      residence.Date
}

// Interval converts the stored row to an engine interval.
func (tp TravelPeriod) Interval() residence.Interval {
	return residence.Interval{Country: tp.Country, Start: tp.Start, End: tp.End}
}

// Store implements person-record persistence on SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS people (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		buffer_days INTEGER NOT NULL DEFAULT 12,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS travel_periods (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		person_id TEXT NOT NULL REFERENCES people(id) ON DELETE CASCADE,
		country TEXT NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		position INTEGER NOT NULL
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_travel_periods_person_position
		ON travel_periods(person_id, position);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// PEOPLE
// =============================================================================

// SavePerson inserts or updates a person's settings record.
func (s *Store) SavePerson(ctx context.Context, p Person) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC().Format(time.RFC3339)
	query := `
		INSERT INTO people (id, name, buffer_days, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			buffer_days = excluded.buffer_days,
			updated_at = excluded.updated_at
	`
	_, err := s.db.ExecContext(ctx, query, p.ID, p.Name, p.BufferDays, now, now)
	if err != nil {
		return fmt.Errorf("failed to save person: %w", err)
	}
	return nil
}

// GetPerson loads one person's settings record.
func (s *Store) GetPerson(ctx context.Context, id string) (*Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `SELECT id, name, buffer_days, created_at, updated_at FROM people WHERE id = ?`

	var p Person
	var createdAt, updatedAt string
	err := s.db.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.Name, &p.BufferDays, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPersonNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get person: %w", err)
	}

	p.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	p.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &p, nil
}

// ListPeople returns all people ordered by id.
func (s *Store) ListPeople(ctx context.Context) ([]Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, buffer_days, created_at, updated_at FROM people ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list people: %w", err)
	}
	defer rows.Close()

	var people []Person
	for rows.Next() {
		var p Person
		var createdAt, updatedAt string
		if err := rows.Scan(&p.ID, &p.Name, &p.BufferDays, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan person: %w", err)
		}
		p.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		p.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
		people = append(people, p)
	}
	return people, rows.Err()
}

// DeletePerson removes a person and, via foreign key cascade, their history.
func (s *Store) DeletePerson(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM people WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete person: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrPersonNotFound
	}
	return nil
}

// =============================================================================
// TRAVEL HISTORY
// =============================================================================

// LoadHistory returns a person's travel periods in insertion order.
func (s *Store) LoadHistory(ctx context.Context, personID string) ([]TravelPeriod, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT position, country, start_date, end_date
		FROM travel_periods
		WHERE person_id = ?
		ORDER BY position ASC
	`
	rows, err := s.db.QueryContext(ctx, query, personID)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	defer rows.Close()

	var periods []TravelPeriod
	for rows.Next() {
		var tp TravelPeriod
		var start, end string
		if err := rows.Scan(&tp.Position, &tp.Country, &start, &end); err != nil {
			return nil, fmt.Errorf("failed to scan period: %w", err)
		}
		if tp.Start, err = residence.ParseDate(start); err != nil {
			return nil, fmt.Errorf("corrupt start_date %q: %w", start, err)
		}
		if tp.End, err = residence.ParseDate(end); err != nil {
			return nil, fmt.Errorf("corrupt end_date %q: %w", end, err)
		}
		periods = append(periods, tp)
	}
	return periods, rows.Err()
}

// ReplaceHistory atomically replaces a person's travel history. Positions
// are assigned from the slice order.
func (s *Store) ReplaceHistory(ctx context.Context, personID string, intervals []residence.Interval) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requirePerson(ctx, personID); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM travel_periods WHERE person_id = ?`, personID); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}

	insert := `
		INSERT INTO travel_periods (person_id, country, start_date, end_date, position)
		VALUES (?, ?, ?, ?, ?)
	`
	for i, iv := range intervals {
		if _, err := tx.ExecContext(ctx, insert,
			personID, iv.Country, iv.Start.String(), iv.End.String(), i); err != nil {
			return fmt.Errorf("failed to insert period %d: %w", i, err)
		}
	}

	return tx.Commit()
}

// AddPeriod appends one travel period at the next free position.
func (s *Store) AddPeriod(ctx context.Context, personID string, iv residence.Interval) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requirePerson(ctx, personID); err != nil {
		return err
	}

	query := `
		INSERT INTO travel_periods (person_id, country, start_date, end_date, position)
		VALUES (?, ?, ?, ?,
			(SELECT COALESCE(MAX(position) + 1, 0) FROM travel_periods WHERE person_id = ?))
	`
	_, err := s.db.ExecContext(ctx, query,
		personID, iv.Country, iv.Start.String(), iv.End.String(), personID)
	if err != nil {
		return fmt.Errorf("failed to add period: %w", err)
	}
	return nil
}

// DeletePeriod removes the period at the given position. Later positions
// are shifted down so the sequence stays dense.
func (s *Store) DeletePeriod(ctx context.Context, personID string, position int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`DELETE FROM travel_periods WHERE person_id = ? AND position = ?`, personID, position)
	if err != nil {
		return fmt.Errorf("failed to delete period: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("no period at position %d for %s", position, personID)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE travel_periods SET position = position - 1 WHERE person_id = ? AND position > ?`,
		personID, position); err != nil {
		return fmt.Errorf("failed to compact positions: %w", err)
	}

	return tx.Commit()
}

// requirePerson checks existence without taking the mutex (callers hold it).
func (s *Store) requirePerson(ctx context.Context, personID string) error {
	var count int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM people WHERE id = ?`, personID).Scan(&count); err != nil {
		return fmt.Errorf("failed to check person: %w", err)
	}
	if count == 0 {
		return ErrPersonNotFound
	}
	return nil
}

// =============================================================================
// ADMIN
// =============================================================================

// Reset clears all data. Used by demo scenario loading; never call in
// production setups.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, table := range []string{"travel_periods", "people"} {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to reset %s: %w", table, err)
		}
	}
	return nil
}
