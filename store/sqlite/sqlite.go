// Package sqlite persists sessions, review state, and parent notes in a
// local SQLite database via the pure-Go modernc.org/sqlite driver.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/kidlingo/kidlingo/core"
)

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	session_id TEXT PRIMARY KEY,
	learner_id TEXT NOT NULL,
	age_band   TEXT NOT NULL,
	goal       TEXT NOT NULL,
	locale     TEXT NOT NULL,
	state_json TEXT NOT NULL,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_sessions_learner ON sessions (learner_id, goal, updated_at);

CREATE TABLE IF NOT EXISTS progress (
	session_id TEXT NOT NULL,
	card_id    TEXT NOT NULL,
	level      INTEGER NOT NULL,
	interval   INTEGER NOT NULL,
	due_step   INTEGER NOT NULL,
	PRIMARY KEY (session_id, card_id)
);

CREATE TABLE IF NOT EXISTS parent_notes (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id TEXT NOT NULL,
	note       TEXT NOT NULL,
	created_at TEXT NOT NULL
);
`

// Store implements core.SessionStore, core.ReviewStore, and core.NoteStore
// on a single SQLite database file.
type Store struct {
	db *sql.DB
}

var (
	_ core.SessionStore = (*Store)(nil)
	_ core.ReviewStore  = (*Store)(nil)
	_ core.NoteStore    = (*Store)(nil)
)

// Open opens (creating if needed) the database at path and applies the
// schema. The parent directory is created when missing.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	dsn := path + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save upserts the session. The full session state is stored as JSON; the
// indexed columns exist only for lookups.
func (s *Store) Save(ctx context.Context, sess *core.Session) error {
	state, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session state: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO sessions (session_id, learner_id, age_band, goal, locale, state_json, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(session_id) DO UPDATE SET
			learner_id = excluded.learner_id,
			age_band   = excluded.age_band,
			goal       = excluded.goal,
			locale     = excluded.locale,
			state_json = excluded.state_json,
			updated_at = excluded.updated_at`,
		sess.ID, sess.LearnerID, sess.AgeBand, sess.Goal, sess.Locale,
		string(state), sess.Created.UTC().Format(time.RFC3339Nano), sess.Updated.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Get returns the session by ID, or core.ErrSessionNotFound.
func (s *Store) Get(ctx context.Context, sessionID string) (*core.Session, error) {
	var state string
	err := s.db.QueryRowContext(ctx,
		`SELECT state_json FROM sessions WHERE session_id = ?`, sessionID).Scan(&state)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return unmarshalSession(state)
}

// LatestForLearner returns the most recently updated session for the learner
// and goal, or (nil, nil) when the learner has none.
func (s *Store) LatestForLearner(ctx context.Context, learnerID, goal string) (*core.Session, error) {
	var state string
	err := s.db.QueryRowContext(ctx, `
		SELECT state_json FROM sessions
		WHERE learner_id = ? AND goal = ?
		ORDER BY updated_at DESC LIMIT 1`, learnerID, goal).Scan(&state)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest session for learner: %w", err)
	}
	return unmarshalSession(state)
}

func unmarshalSession(state string) (*core.Session, error) {
	var sess core.Session
	if err := json.Unmarshal([]byte(state), &sess); err != nil {
		return nil, fmt.Errorf("unmarshal session state: %w", err)
	}
	return &sess, nil
}

// Upsert stores the review card keyed by (session, card).
func (s *Store) Upsert(ctx context.Context, card core.ReviewCard) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO progress (session_id, card_id, level, interval, due_step)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(session_id, card_id) DO UPDATE SET
			level    = excluded.level,
			interval = excluded.interval,
			due_step = excluded.due_step`,
		card.SessionID, card.CardID, card.Level, card.Interval, card.DueStep)
	if err != nil {
		return fmt.Errorf("upsert review card: %w", err)
	}
	return nil
}

// GetCard returns the review card, or (nil, nil) when the card has no review
// state yet.
func (s *Store) GetCard(ctx context.Context, sessionID, cardID string) (*core.ReviewCard, error) {
	card := core.ReviewCard{SessionID: sessionID, CardID: cardID}
	err := s.db.QueryRowContext(ctx, `
		SELECT level, interval, due_step FROM progress
		WHERE session_id = ? AND card_id = ?`, sessionID, cardID).
		Scan(&card.Level, &card.Interval, &card.DueStep)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get review card: %w", err)
	}
	return &card, nil
}

// List returns all review cards for the session, ordered by card ID.
func (s *Store) List(ctx context.Context, sessionID string) ([]core.ReviewCard, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT card_id, level, interval, due_step FROM progress
		WHERE session_id = ? ORDER BY card_id`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list review cards: %w", err)
	}
	defer rows.Close()

	var out []core.ReviewCard
	for rows.Next() {
		card := core.ReviewCard{SessionID: sessionID}
		if err := rows.Scan(&card.CardID, &card.Level, &card.Interval, &card.DueStep); err != nil {
			return nil, fmt.Errorf("scan review card: %w", err)
		}
		out = append(out, card)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate review cards: %w", err)
	}
	return out, nil
}

// Append records a parent note for the session.
func (s *Store) Append(ctx context.Context, note core.ParentNote) error {
	created := note.Created
	if created.IsZero() {
		created = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO parent_notes (session_id, note, created_at) VALUES (?, ?, ?)`,
		note.SessionID, note.Text, created.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("append parent note: %w", err)
	}
	return nil
}

// Notes returns all parent notes for the session in insertion order.
func (s *Store) Notes(ctx context.Context, sessionID string) ([]core.ParentNote, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT note, created_at FROM parent_notes
		WHERE session_id = ? ORDER BY id`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list parent notes: %w", err)
	}
	defer rows.Close()

	var out []core.ParentNote
	for rows.Next() {
		n := core.ParentNote{SessionID: sessionID}
		var created string
		if err := rows.Scan(&n.Text, &created); err != nil {
			return nil, fmt.Errorf("scan parent note: %w", err)
		}
		if t, err := time.Parse(time.RFC3339Nano, created); err == nil {
			n.Created = t
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate parent notes: %w", err)
	}
	return out, nil
}
