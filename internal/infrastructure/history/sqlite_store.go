package history

import (
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/doeshing/be-go/internal/domain"
	"github.com/doeshing/be-go/internal/ports"
)

// SQLiteStore persists sessions in a SQLite database. When the database
// cannot be opened it degrades to a JSONL file next to it.
type SQLiteStore struct {
	db       *sql.DB
	path     string
	fallback *FileStore
	mu       sync.Mutex
}

// NewSQLiteStore creates (or opens) the database at path.
func NewSQLiteStore(path string) *SQLiteStore {
	fallback := NewFileStore(strings.TrimSuffix(path, filepath.Ext(path)) + ".jsonl")
	if err := os.MkdirAll(filepath.Dir(path), domain.DirectoryPermissions); err != nil {
		return &SQLiteStore{path: path, fallback: fallback}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return &SQLiteStore{path: path, fallback: fallback}
	}
	store := &SQLiteStore{db: db, path: path, fallback: fallback}
	if err := store.init(); err != nil {
		_ = db.Close()
		return &SQLiteStore{path: path, fallback: fallback}
	}
	return store
}

func (s *SQLiteStore) init() error {
	if s.db == nil {
		return os.ErrInvalid
	}
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS sessions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		started_at TEXT,
		item TEXT,
		shell TEXT,
		development_dir TEXT,
		entered INTEGER,
		duration_ms INTEGER,
		exit_code INTEGER
	);`)
	return err
}

// Save inserts a new session.
func (s *SQLiteStore) Save(session domain.Session) error {
	if s.db == nil {
		return s.fallback.Save(session)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec(`INSERT INTO sessions
		(started_at, item, shell, development_dir, entered, duration_ms, exit_code)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		session.StartedAt.UTC().Format(time.RFC3339Nano),
		session.Item,
		session.Shell,
		session.DevelopmentDirectory,
		boolToInt(session.Entered),
		session.Duration.Milliseconds(),
		session.ExitCode,
	)
	return err
}

// Records returns the most recent sessions first. limit <= 0 returns all.
func (s *SQLiteStore) Records(limit int) ([]domain.Session, error) {
	if s.db == nil {
		return s.fallback.Records(limit)
	}
	query := "SELECT started_at, item, shell, development_dir, entered, duration_ms, exit_code FROM sessions ORDER BY id DESC"
	var args []interface{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []domain.Session
	for rows.Next() {
		var session domain.Session
		var startedAt string
		var entered int
		var durationMS int64
		if err := rows.Scan(&startedAt, &session.Item, &session.Shell, &session.DevelopmentDirectory, &entered, &durationMS, &session.ExitCode); err != nil {
			return nil, err
		}
		if t, err := time.Parse(time.RFC3339Nano, startedAt); err == nil {
			session.StartedAt = t
		}
		session.Entered = entered == 1
		session.Duration = time.Duration(durationMS) * time.Millisecond
		sessions = append(sessions, session)
	}
	return sessions, rows.Err()
}

// Clear deletes all sessions.
func (s *SQLiteStore) Clear() error {
	if s.db == nil {
		return s.fallback.Clear()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec("DELETE FROM sessions")
	return err
}

// Path returns the file sessions are written to.
func (s *SQLiteStore) Path() string {
	if s.db == nil {
		return s.fallback.Path()
	}
	return s.path
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

var _ ports.SessionRepository = (*SQLiteStore)(nil)
