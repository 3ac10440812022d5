// Package store persists playback preferences and position checkpoints in a
// local SQLite database.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	gap "github.com/muesli/go-app-paths"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS prefs (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS checkpoints (
	doc        TEXT PRIMARY KEY,
	position   INTEGER NOT NULL,
	total      INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
);
`

// DB is the SQLite-backed preference and checkpoint store.
type DB struct {
	db *sql.DB
}

// DefaultPath returns the per-user database location.
func DefaultPath() (string, error) {
	scope := gap.NewScope(gap.User, "readaloud")
	path, err := scope.DataPath("readaloud.db")
	if err != nil {
		return "", fmt.Errorf("resolve data path: %w", err)
	}
	return path, nil
}

// Open creates the database and schema as needed.
func Open(path string) (*DB, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return &DB{db: db}, nil
}

// Close releases the underlying database.
func (d *DB) Close() error {
	return d.db.Close()
}

// ForDocument returns a tts.Store view scoped to one piece of content.
// Preferences are global; checkpoints are per document.
func (d *DB) ForDocument(doc string) *DocumentStore {
	return &DocumentStore{db: d.db, doc: doc}
}

// DocumentStore implements tts.Store. Persistence is best effort: failures
// are logged and playback continues.
type DocumentStore struct {
	db  *sql.DB
	doc string
}

// Rate returns the persisted rate preference.
func (s *DocumentStore) Rate() (float64, bool) {
	v, ok := s.pref("rate")
	if !ok {
		return 0, false
	}
	r, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return r, true
}

// SaveRate persists the rate preference.
func (s *DocumentStore) SaveRate(rate float64) {
	s.savePref("rate", strconv.FormatFloat(rate, 'f', -1, 64))
}

// VoiceName returns the persisted voice preference.
func (s *DocumentStore) VoiceName() (string, bool) {
	return s.pref("voice")
}

// SaveVoiceName persists the voice preference.
func (s *DocumentStore) SaveVoiceName(name string) {
	s.savePref("voice", name)
}

// SaveCheckpoint persists the playback position for this document.
func (s *DocumentStore) SaveCheckpoint(position, total int) {
	_, err := s.db.Exec(
		`INSERT INTO checkpoints (doc, position, total, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(doc) DO UPDATE SET position = excluded.position,
		     total = excluded.total, updated_at = excluded.updated_at`,
		s.doc, position, total, time.Now().Unix(),
	)
	if err != nil {
		log.Warn("checkpoint not saved", "doc", s.doc, "err", err)
	}
}

// Checkpoint returns the persisted position for this document.
func (s *DocumentStore) Checkpoint() (int, bool) {
	var position int
	err := s.db.QueryRow(
		`SELECT position FROM checkpoints WHERE doc = ?`, s.doc,
	).Scan(&position)
	if err != nil {
		if err != sql.ErrNoRows {
			log.Warn("checkpoint not read", "doc", s.doc, "err", err)
		}
		return 0, false
	}
	return position, true
}

func (s *DocumentStore) pref(key string) (string, bool) {
	var v string
	err := s.db.QueryRow(`SELECT value FROM prefs WHERE key = ?`, key).Scan(&v)
	if err != nil {
		if err != sql.ErrNoRows {
			log.Warn("preference not read", "key", key, "err", err)
		}
		return "", false
	}
	return v, true
}

func (s *DocumentStore) savePref(key, value string) {
	_, err := s.db.Exec(
		`INSERT INTO prefs (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value,
		     updated_at = excluded.updated_at`,
		key, value, time.Now().Unix(),
	)
	if err != nil {
		log.Warn("preference not saved", "key", key, "err", err)
	}
}
