// Package session persists per-session conversation history. Cross-query
// memory lives here, outside the round engine, as a formatted history string.
package session

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

const defaultMaxHistory = 2

// Store keeps question/answer exchanges per session in SQLite.
type Store struct {
	db         *sql.DB
	maxHistory int
}

// Open opens or creates the database at dbPath. maxHistory bounds how many
// recent exchanges History returns; <= 0 means the default of 2.
func Open(dbPath string, maxHistory int) (*Store, error) {
	if dbPath == "" {
		return nil, errors.New("session db path required")
	}
	if maxHistory <= 0 {
		maxHistory = defaultMaxHistory
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}
	s := &Store{db: db, maxHistory: maxHistory}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS exchanges (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL,
		question TEXT NOT NULL,
		answer TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_exchanges_session ON exchanges(session_id, id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Create returns a fresh session ID. Sessions materialise lazily; the first
// AddExchange writes the first row.
func (s *Store) Create() string {
	return newSessionID()
}

// AddExchange appends one question/answer pair to a session.
func (s *Store) AddExchange(sessionID, question, answer string) error {
	if sessionID == "" {
		return errors.New("session id required")
	}
	_, err := s.db.Exec(
		`INSERT INTO exchanges (session_id, question, answer) VALUES (?, ?, ?)`,
		sessionID, question, answer,
	)
	return err
}

// History returns the most recent exchanges of a session formatted as
// alternating "User:"/"Assistant:" lines, oldest first. Returns "" for an
// unknown or empty session.
func (s *Store) History(sessionID string) (string, error) {
	if sessionID == "" {
		return "", nil
	}
	rows, err := s.db.Query(
		`SELECT question, answer FROM (
			SELECT id, question, answer FROM exchanges
			WHERE session_id = ? ORDER BY id DESC LIMIT ?
		) ORDER BY id ASC`,
		sessionID, s.maxHistory,
	)
	if err != nil {
		return "", err
	}
	defer rows.Close()

	var lines []string
	for rows.Next() {
		var q, a string
		if err := rows.Scan(&q, &a); err != nil {
			return "", err
		}
		lines = append(lines, fmt.Sprintf("User: %s", q), fmt.Sprintf("Assistant: %s", a))
	}
	if err := rows.Err(); err != nil {
		return "", err
	}
	return strings.Join(lines, "\n"), nil
}

// Clear removes all exchanges of a session.
func (s *Store) Clear(sessionID string) error {
	if sessionID == "" {
		return errors.New("session id required")
	}
	_, err := s.db.Exec(`DELETE FROM exchanges WHERE session_id = ?`, sessionID)
	return err
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
