// Package persistence provides SQLite storage for character mutation
// snapshots and their journals.
package persistence

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/appengine-ltd/survive-it/internal/character"
	"github.com/appengine-ltd/survive-it/internal/mutation"
)

var ErrNotFound = errors.New("character not found")

// DB wraps a SQLite connection.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// Keeps in-memory databases alive between calls.
	conn.SetMaxOpenConns(1)

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS characters (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		seed INTEGER NOT NULL,
		traits TEXT NOT NULL,
		highest_category TEXT NOT NULL,
		total_strength INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS mutation_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		character_id TEXT NOT NULL,
		seq INTEGER NOT NULL,
		kind TEXT NOT NULL,
		trait TEXT NOT NULL,
		category TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_events_character ON mutation_events(character_id, seq);
	`
	if _, err := db.conn.Exec(schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Summary is one row of the character listing.
type Summary struct {
	ID              string `db:"id"`
	Name            string `db:"name"`
	Seed            int64  `db:"seed"`
	Traits          string `db:"traits"`
	HighestCategory string `db:"highest_category"`
	TotalStrength   int    `db:"total_strength"`
	UpdatedAt       int64  `db:"updated_at"`
}

type eventRow struct {
	Seq      int    `db:"seq"`
	Kind     string `db:"kind"`
	Trait    string `db:"trait"`
	Category string `db:"category"`
}

// SaveCharacter replaces the stored snapshot and journal of c.
func (db *DB) SaveCharacter(c *character.Character) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return fmt.Errorf("begin save %s: %w", c.ID, err)
	}
	defer tx.Rollback()

	s := c.Mutations
	_, err = tx.Exec(`INSERT OR REPLACE INTO characters
		(id, name, seed, traits, highest_category, total_strength, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.ID.String(), c.Name, c.Seed, strings.TrimSpace(s.String()),
		string(s.HighestCategory()), s.TotalStrength(), time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("save character %s: %w", c.ID, err)
	}

	if _, err := tx.Exec("DELETE FROM mutation_events WHERE character_id = ?", c.ID.String()); err != nil {
		return fmt.Errorf("clear events %s: %w", c.ID, err)
	}
	stmt, err := tx.Preparex(`INSERT INTO mutation_events
		(character_id, seq, kind, trait, category) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare event insert: %w", err)
	}
	defer stmt.Close()
	for _, e := range c.Journal {
		if _, err := stmt.Exec(c.ID.String(), e.Seq, string(e.Kind), string(e.Trait), string(e.Category)); err != nil {
			return fmt.Errorf("insert event %d: %w", e.Seq, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save %s: %w", c.ID, err)
	}
	slog.Debug("character saved", "id", c.ID, "traits", s.Len(), "events", len(c.Journal))
	return nil
}

// LoadCharacter rebuilds a character against reg. Held traits are replayed,
// so strength comes from the registry rather than from storage.
func (db *DB) LoadCharacter(reg *mutation.Registry, id uuid.UUID) (*character.Character, error) {
	var row Summary
	err := db.conn.Get(&row, "SELECT * FROM characters WHERE id = ?", id.String())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("load %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", id, err)
	}

	var rows []eventRow
	err = db.conn.Select(&rows,
		"SELECT seq, kind, trait, category FROM mutation_events WHERE character_id = ? ORDER BY seq",
		id.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("load events %s: %w", id, err)
	}
	journal := make([]character.Event, 0, len(rows))
	for _, r := range rows {
		journal = append(journal, character.Event{
			Seq:      r.Seq,
			Kind:     character.EventKind(r.Kind),
			Trait:    mutation.TraitID(r.Trait),
			Category: mutation.CategoryID(r.Category),
		})
	}

	var traits []mutation.TraitID
	for _, f := range strings.Fields(row.Traits) {
		traits = append(traits, mutation.TraitID(f))
	}
	return character.Restore(reg, id, row.Name, row.Seed, traits, journal)
}

// ListCharacters returns stored characters, most recently saved first.
func (db *DB) ListCharacters(limit int) ([]Summary, error) {
	var out []Summary
	err := db.conn.Select(&out,
		"SELECT * FROM characters ORDER BY updated_at DESC, name LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list characters: %w", err)
	}
	return out, nil
}
