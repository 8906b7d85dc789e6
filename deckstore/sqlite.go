// Package deckstore persists deck pile snapshots in SQLite.
package deckstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/phanxgames/cardtable"

	_ "modernc.org/sqlite"
)

// ErrNoSnapshot is returned by Load when no snapshot is stored for a deck.
var ErrNoSnapshot = errors.New("deckstore: no snapshot")

// Current schema version - increment this when the schema changes.
const schemaVersion = 1

const schema = `
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY
);

CREATE TABLE IF NOT EXISTS decks (
    name       TEXT PRIMARY KEY,
    available  TEXT NOT NULL,  -- JSON array of card names
    drawn      TEXT NOT NULL,
    discarded  TEXT NOT NULL,
    updated_at INTEGER NOT NULL -- UnixNano
);
`

// SQLiteStore stores one snapshot per deck name.
type SQLiteStore struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path. Use ":memory:" for
// a throwaway store.
func Open(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("deckstore: open %s: %w", path, err)
	}
	// One connection keeps ":memory:" databases alive and serializes writers.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("deckstore: create schema: %w", err)
	}
	if _, err := db.ExecContext(ctx,
		`INSERT OR IGNORE INTO schema_version (version) VALUES (?)`, schemaVersion); err != nil {
		db.Close()
		return nil, fmt.Errorf("deckstore: record schema version: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Save writes snap, replacing any earlier snapshot of the same deck.
func (s *SQLiteStore) Save(ctx context.Context, snap cardtable.DeckSnapshot) error {
	if snap.Deck == "" {
		return errors.New("deckstore: snapshot has no deck name")
	}
	piles := make([]string, 0, 3)
	for _, pile := range [][]string{snap.Available, snap.Drawn, snap.Discarded} {
		if pile == nil {
			pile = []string{}
		}
		b, err := json.Marshal(pile)
		if err != nil {
			return fmt.Errorf("deckstore: encode %s: %w", snap.Deck, err)
		}
		piles = append(piles, string(b))
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO decks (name, available, drawn, discarded, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			available = excluded.available,
			drawn = excluded.drawn,
			discarded = excluded.discarded,
			updated_at = excluded.updated_at`,
		snap.Deck, piles[0], piles[1], piles[2], time.Now().UnixNano())
	if err != nil {
		return fmt.Errorf("deckstore: save %s: %w", snap.Deck, err)
	}
	return nil
}

// Load returns the stored snapshot for deck.
func (s *SQLiteStore) Load(ctx context.Context, deck string) (cardtable.DeckSnapshot, error) {
	var available, drawn, discarded string
	err := s.db.QueryRowContext(ctx,
		`SELECT available, drawn, discarded FROM decks WHERE name = ?`, deck).
		Scan(&available, &drawn, &discarded)
	if errors.Is(err, sql.ErrNoRows) {
		return cardtable.DeckSnapshot{}, fmt.Errorf("%w for deck %q", ErrNoSnapshot, deck)
	}
	if err != nil {
		return cardtable.DeckSnapshot{}, fmt.Errorf("deckstore: load %s: %w", deck, err)
	}

	snap := cardtable.DeckSnapshot{Deck: deck}
	for _, p := range []struct {
		raw string
		dst *[]string
	}{
		{available, &snap.Available},
		{drawn, &snap.Drawn},
		{discarded, &snap.Discarded},
	} {
		if err := json.Unmarshal([]byte(p.raw), p.dst); err != nil {
			return cardtable.DeckSnapshot{}, fmt.Errorf("deckstore: decode %s: %w", deck, err)
		}
	}
	return snap, nil
}

// Delete removes the snapshot for deck. Deleting a missing deck is not an error.
func (s *SQLiteStore) Delete(ctx context.Context, deck string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM decks WHERE name = ?`, deck); err != nil {
		return fmt.Errorf("deckstore: delete %s: %w", deck, err)
	}
	return nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
