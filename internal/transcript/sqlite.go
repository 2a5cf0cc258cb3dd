package transcript

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"faqbot/internal/session"
)

// ErrNotFound is returned by Load for unknown session IDs.
var ErrNotFound = errors.New("session not found")

// SQLiteSink keeps every saved session, its messages and transcript in a
// SQLite database. Saving the same session again replaces its rows.
type SQLiteSink struct {
	db   *sql.DB
	path string
}

// OpenSQLite opens (creating if needed) the database at path.
func OpenSQLite(path string) (*SQLiteSink, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("cannot create database directory: %w", err)
	}
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("cannot open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := &SQLiteSink{db: db, path: path}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database migration failed: %w", err)
	}
	return s, nil
}

func (s *SQLiteSink) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		id          TEXT PRIMARY KEY,
		started_at  DATETIME NOT NULL,
		saved_at    DATETIME DEFAULT CURRENT_TIMESTAMP,
		language    TEXT,
		transcript  TEXT
	);

	CREATE TABLE IF NOT EXISTS messages (
		session_id  TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
		seq         INTEGER NOT NULL,
		role        TEXT NOT NULL,
		content     TEXT,
		created_at  DATETIME,
		PRIMARY KEY (session_id, seq)
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database.
func (s *SQLiteSink) Close() error { return s.db.Close() }

// Save upserts the session and rewrites its messages.
func (s *SQLiteSink) Save(ctx context.Context, sess *session.Session) (string, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO sessions (id, started_at, language, transcript) VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET language = excluded.language, transcript = excluded.transcript, saved_at = CURRENT_TIMESTAMP`,
		sess.ID, sess.StartedAt, sess.Language, sess.Transcript,
	); err != nil {
		return "", fmt.Errorf("save session: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM messages WHERE session_id = ?`, sess.ID); err != nil {
		return "", fmt.Errorf("clear messages: %w", err)
	}
	for i, m := range sess.History {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO messages (session_id, seq, role, content, created_at) VALUES (?, ?, ?, ?, ?)`,
			sess.ID, i, string(m.Role), m.Text, m.At,
		); err != nil {
			return "", fmt.Errorf("save message: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return "", err
	}
	return s.path + "#" + sess.ID, nil
}

// Load reads a saved session back. The capture state is not persisted and
// comes back as idle.
func (s *SQLiteSink) Load(ctx context.Context, id string) (*session.Session, error) {
	sess := session.New(0)
	var language, transcript sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT id, started_at, language, transcript FROM sessions WHERE id = ?`, id,
	).Scan(&sess.ID, &sess.StartedAt, &language, &transcript)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	sess.Language = language.String
	sess.Transcript = transcript.String

	rows, err := s.db.QueryContext(ctx,
		`SELECT role, content, created_at FROM messages WHERE session_id = ? ORDER BY seq`, id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			m       session.Message
			role    string
			content sql.NullString
		)
		if err := rows.Scan(&role, &content, &m.At); err != nil {
			return nil, err
		}
		m.Role = session.Role(role)
		m.Text = content.String
		sess.History = append(sess.History, m)
	}
	return sess, rows.Err()
}
