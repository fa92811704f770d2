// Copyright © 2026 Texemoji contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: overlay/store.go
// Summary: SQLite-backed byte cache for fetched remote emoji images.

package overlay

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Current schema version - bump when schema changes require a rebuild.
const storeSchemaVersion = 1

// Store persists raw fetched image bytes keyed by their URL so that
// restarting the application does not refetch every custom emoji.
// It sits below the in-memory render cache: the loader consults it
// before going to the network and writes through after a fetch.
type Store struct {
	mu sync.Mutex
	db *sql.DB
}

// OpenStore opens (creating if needed) the image store at path. A
// store whose schema version does not match is rebuilt empty.
func OpenStore(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("overlay: create store dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("overlay: open store: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate() error {
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS meta (
		key TEXT PRIMARY KEY,
		value INTEGER
	)`); err != nil {
		return fmt.Errorf("overlay: store meta: %w", err)
	}

	var version int
	err := s.db.QueryRow(`SELECT value FROM meta WHERE key = 'schema_version'`).Scan(&version)
	if err != nil && err != sql.ErrNoRows {
		return fmt.Errorf("overlay: store version: %w", err)
	}
	if version != storeSchemaVersion {
		if _, err := s.db.Exec(`DROP TABLE IF EXISTS images`); err != nil {
			return fmt.Errorf("overlay: store rebuild: %w", err)
		}
	}

	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS images (
		url        TEXT PRIMARY KEY,
		data       BLOB NOT NULL,
		fetched_at INTEGER NOT NULL
	)`); err != nil {
		return fmt.Errorf("overlay: store schema: %w", err)
	}
	if _, err := s.db.Exec(
		`INSERT OR REPLACE INTO meta (key, value) VALUES ('schema_version', ?)`,
		storeSchemaVersion,
	); err != nil {
		return fmt.Errorf("overlay: store version write: %w", err)
	}
	return nil
}

// Get returns the stored bytes for url, if present.
func (s *Store) Get(url string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var data []byte
	err := s.db.QueryRow(`SELECT data FROM images WHERE url = ?`, url).Scan(&data)
	if err != nil {
		return nil, false
	}
	return data, true
}

// Put stores fetched bytes for url, replacing any previous entry.
func (s *Store) Put(url string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO images (url, data, fetched_at) VALUES (?, ?, ?)`,
		url, data, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("overlay: store put: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}
