// Package store provides SQLite-backed persistence for newsbrief.
//
// Everything the engine persists (bookmarked URLs, per-source enabled
// state, user settings, the cached snapshot) is kept as an opaque JSON
// blob in a single key-value table. Absent or malformed values are
// always treated as absent and replaced by safe defaults; reads never
// fail the pipeline.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/newsbrief/newsbrief/model"
	_ "modernc.org/sqlite"
)

// Well-known keys in the kv table.
const (
	keyBookmarks    = "bookmarks"
	keySourceStates = "source_states"
	keyCustomSrcs   = "custom_sources"
	keySettings     = "settings"
	keySnapshot     = "snapshot"
)

// Store manages the SQLite database.
type Store struct {
	db *sql.DB
}

// New creates a new Store with the given database path.
// Use ":memory:" for an in-memory database (useful for testing).
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}

	if err := store.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS kv (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Get retrieves a raw value. The second return is false when the key is
// missing or the read fails; callers fall back to defaults either way.
func (s *Store) Get(key string) (string, bool) {
	var value string
	err := s.db.QueryRow("SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if err != nil {
		return "", false
	}
	return value, true
}

// Set stores a raw value, replacing any previous one.
func (s *Store) Set(key, value string) error {
	_, err := s.db.Exec(
		"INSERT INTO kv (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value,
	)
	if err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

// getJSON deserializes a stored blob into out. Any failure counts as absent.
func (s *Store) getJSON(key string, out interface{}) bool {
	raw, ok := s.Get(key)
	if !ok {
		return false
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return false
	}
	return true
}

func (s *Store) setJSON(key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	return s.Set(key, string(data))
}

// Bookmarks returns the set of bookmarked article URLs. Missing or
// malformed state yields an empty set.
func (s *Store) Bookmarks() map[string]bool {
	var urls []string
	if !s.getJSON(keyBookmarks, &urls) {
		return map[string]bool{}
	}

	set := make(map[string]bool, len(urls))
	for _, u := range urls {
		if u != "" {
			set[u] = true
		}
	}
	return set
}

// SetBookmark adds or removes a URL from the bookmark set. Adding an
// already-bookmarked URL (or removing an absent one) is a no-op.
func (s *Store) SetBookmark(url string, bookmarked bool) error {
	if url == "" {
		return nil
	}

	set := s.Bookmarks()
	if set[url] == bookmarked {
		return nil
	}
	if bookmarked {
		set[url] = true
	} else {
		delete(set, url)
	}

	urls := make([]string, 0, len(set))
	for u := range set {
		urls = append(urls, u)
	}
	return s.setJSON(keyBookmarks, urls)
}

// IsBookmarked reports whether the URL is in the bookmark set.
func (s *Store) IsBookmarked(url string) bool {
	return s.Bookmarks()[url]
}

// SourceStates returns the persisted enabled flag per source ID.
func (s *Store) SourceStates() map[string]bool {
	var states map[string]bool
	if !s.getJSON(keySourceStates, &states) || states == nil {
		return map[string]bool{}
	}
	return states
}

// SetSourceEnabled persists the enabled flag for a source ID. Idempotent.
func (s *Store) SetSourceEnabled(id string, enabled bool) error {
	states := s.SourceStates()
	if current, ok := states[id]; ok && current == enabled {
		return nil
	}
	states[id] = enabled
	return s.setJSON(keySourceStates, states)
}

// CustomSources returns user-added sources (e.g. from an OPML import).
func (s *Store) CustomSources() []model.Source {
	var sources []model.Source
	if !s.getJSON(keyCustomSrcs, &sources) {
		return nil
	}
	return sources
}

// SaveCustomSources replaces the stored list of user-added sources.
func (s *Store) SaveCustomSources(sources []model.Source) error {
	return s.setJSON(keyCustomSrcs, sources)
}

// Settings returns the stored settings record, or defaults when absent
// or malformed.
func (s *Store) Settings() model.Settings {
	settings := model.DefaultSettings()
	var stored model.Settings
	if s.getJSON(keySettings, &stored) {
		settings = stored
		if settings.IntervalMinutes <= 0 {
			settings.IntervalMinutes = model.DefaultSettings().IntervalMinutes
		}
	}
	return settings
}

// SaveSettings persists the settings record.
func (s *Store) SaveSettings(settings model.Settings) error {
	return s.setJSON(keySettings, settings)
}

// Snapshot returns the raw cached snapshot blob, if any.
func (s *Store) Snapshot() (string, bool) {
	return s.Get(keySnapshot)
}

// SaveSnapshot replaces the cached snapshot blob.
func (s *Store) SaveSnapshot(raw string) error {
	return s.Set(keySnapshot, raw)
}
