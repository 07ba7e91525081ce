// Package store provides persistence for sessions, review state, and parent
// notes. InMemory is the zero-configuration default; the sqlite subpackage
// offers durable storage with the same interfaces.
package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/kidlingo/kidlingo/core"
)

// InMemory keeps all state in process memory, guarded by a single RWMutex.
// Reads return deep copies so callers can mutate results freely.
type InMemory struct {
	mu       sync.RWMutex
	sessions map[string]*core.Session
	reviews  map[string]map[string]core.ReviewCard
	notes    map[string][]core.ParentNote
}

var (
	_ core.SessionStore = (*InMemory)(nil)
	_ core.ReviewStore  = (*InMemory)(nil)
	_ core.NoteStore    = (*InMemory)(nil)
)

// NewInMemory creates an empty in-memory store.
func NewInMemory() *InMemory {
	return &InMemory{
		sessions: make(map[string]*core.Session),
		reviews:  make(map[string]map[string]core.ReviewCard),
		notes:    make(map[string][]core.ParentNote),
	}
}

// Save stores a deep copy of the session keyed by its ID.
func (s *InMemory) Save(_ context.Context, sess *core.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[sess.ID] = sess.Clone()
	return nil
}

// Get returns a deep copy of the session, or core.ErrSessionNotFound.
func (s *InMemory) Get(_ context.Context, sessionID string) (*core.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, core.ErrSessionNotFound
	}
	return sess.Clone(), nil
}

// LatestForLearner returns the most recently updated session for the learner
// and goal, or (nil, nil) when the learner has none.
func (s *InMemory) LatestForLearner(_ context.Context, learnerID, goal string) (*core.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var latest *core.Session
	for _, sess := range s.sessions {
		if sess.LearnerID != learnerID || sess.Goal != goal {
			continue
		}
		if latest == nil || sess.Updated.After(latest.Updated) {
			latest = sess
		}
	}
	if latest == nil {
		return nil, nil
	}
	return latest.Clone(), nil
}

// Upsert stores the review card keyed by (session, card).
func (s *InMemory) Upsert(_ context.Context, card core.ReviewCard) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	bySession, ok := s.reviews[card.SessionID]
	if !ok {
		bySession = make(map[string]core.ReviewCard)
		s.reviews[card.SessionID] = bySession
	}
	bySession[card.CardID] = card
	return nil
}

// GetCard returns a copy of the review card, or (nil, nil) when the card has
// no review state yet.
func (s *InMemory) GetCard(_ context.Context, sessionID, cardID string) (*core.ReviewCard, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	card, ok := s.reviews[sessionID][cardID]
	if !ok {
		return nil, nil
	}
	return &card, nil
}

// List returns all review cards for the session, ordered by card ID.
func (s *InMemory) List(_ context.Context, sessionID string) ([]core.ReviewCard, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bySession := s.reviews[sessionID]
	out := make([]core.ReviewCard, 0, len(bySession))
	for _, card := range bySession {
		out = append(out, card)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CardID < out[j].CardID })
	return out, nil
}

// Append records a parent note. A zero Created timestamp is filled in.
func (s *InMemory) Append(_ context.Context, note core.ParentNote) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if note.Created.IsZero() {
		note.Created = time.Now().UTC()
	}
	s.notes[note.SessionID] = append(s.notes[note.SessionID], note)
	return nil
}

// Notes returns all parent notes for the session in append order.
func (s *InMemory) Notes(_ context.Context, sessionID string) ([]core.ParentNote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]core.ParentNote(nil), s.notes[sessionID]...), nil
}
