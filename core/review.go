package core

import (
	"context"
	"time"
)

// ReviewCard is the spaced-repetition state for one card inside one session.
// Created the first time the card is shown, updated after every attempt.
// DueStep is monotonically non-decreasing across updates for the same card.
type ReviewCard struct {
	SessionID string `json:"session_id"`
	CardID    string `json:"card_id"`
	Interval  int    `json:"interval"`
	DueStep   int    `json:"due_step"`
	Level     int    `json:"level"`
}

// ReviewStore persists review cards keyed by (session id, card id).
// GetCard returns (nil, nil) when no state exists yet for the pair.
type ReviewStore interface {
	Upsert(ctx context.Context, card ReviewCard) error
	GetCard(ctx context.Context, sessionID, cardID string) (*ReviewCard, error)
	List(ctx context.Context, sessionID string) ([]ReviewCard, error)
}

// ParentNote is a caretaker-facing note attached to a session.
type ParentNote struct {
	SessionID string    `json:"session_id"`
	Text      string    `json:"text"`
	Created   time.Time `json:"created"`
}

// NoteStore appends and lists parent notes per session.
type NoteStore interface {
	Append(ctx context.Context, note ParentNote) error
	Notes(ctx context.Context, sessionID string) ([]ParentNote, error)
}
