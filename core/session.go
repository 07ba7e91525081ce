package core

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Outcome classifies one scored attempt.
type Outcome string

const (
	// OutcomeFail means the utterance missed the target; the card is
	// remediated immediately.
	OutcomeFail Outcome = "fail"
	// OutcomePartial means a near miss worth gentle repetition.
	OutcomePartial Outcome = "partial"
	// OutcomePass means the target phrase was produced well enough.
	OutcomePass Outcome = "pass"
)

// MasteryDelta maps an outcome onto the discrete mastery adjustment applied
// to the card's level: -1, 0 or +2.
func (o Outcome) MasteryDelta() int {
	switch o {
	case OutcomeFail:
		return -1
	case OutcomePartial:
		return 0
	default:
		return 2
	}
}

// Attempt records one scored submission inside a session snapshot.
type Attempt struct {
	CardID  string    `json:"card_id"`
	Outcome Outcome   `json:"outcome"`
	Score   int       `json:"score"`
	At      time.Time `json:"at"`
}

// PendingCard captures the activity currently awaiting an utterance so a
// resumed session re-issues the same prompt instead of planning a new one.
type PendingCard struct {
	CardID       string   `json:"card_id"`
	PromptText   string   `json:"prompt_text"`
	TargetPhrase string   `json:"target_phrase"`
	Rubric       string   `json:"rubric"`
	ScaffoldCN   string   `json:"scaffold_cn,omitempty"`
	TimeboxSec   int      `json:"timebox_sec"`
	LexiconWords []string `json:"lexicon_words,omitempty"`
	Attempts     int      `json:"attempts"`
}

// Session tracks one learner's progress through a curriculum goal. It is a
// plain data record: stores hand out copies and the engine serializes all
// mutation per session id, so no internal locking is required.
type Session struct {
	ID        string    `json:"id"`
	LearnerID string    `json:"learner_id"`
	AgeBand   string    `json:"age_band"`
	Goal      string    `json:"goal"`
	Locale    string    `json:"locale"`
	Created   time.Time `json:"created"`
	Updated   time.Time `json:"updated"`

	XP       int `json:"xp"`
	Stickers int `json:"stickers"`

	// Step is the scheduler's per-session pick counter. Keeping it here (and
	// not process-global) keeps sessions independent under concurrency.
	Step           int `json:"step"`
	NewSinceReview int `json:"new_since_review"`

	// RemediationCardID names a card that just failed and must be the very
	// next pick, ahead of any other due card.
	RemediationCardID string `json:"remediation_card_id,omitempty"`

	LastCardID string         `json:"last_card_id,omitempty"`
	Mastery    map[string]int `json:"mastery"`
	Pending    *PendingCard   `json:"pending,omitempty"`
	Attempts   []Attempt      `json:"attempts,omitempty"`
}

// NewSession creates a fresh session for a learner and goal.
func NewSession(learnerID, ageBand, goal, locale string) *Session {
	now := time.Now().UTC()
	return &Session{
		ID:        NewSessionID(),
		LearnerID: learnerID,
		AgeBand:   ageBand,
		Goal:      goal,
		Locale:    locale,
		Created:   now,
		Updated:   now,
		Mastery:   map[string]int{},
	}
}

// Clone returns a deep copy safe for independent mutation.
func (s *Session) Clone() *Session {
	clone := *s
	clone.Mastery = make(map[string]int, len(s.Mastery))
	for k, v := range s.Mastery {
		clone.Mastery[k] = v
	}
	clone.Attempts = make([]Attempt, len(s.Attempts))
	copy(clone.Attempts, s.Attempts)
	if s.Pending != nil {
		pending := *s.Pending
		pending.LexiconWords = append([]string(nil), s.Pending.LexiconWords...)
		clone.Pending = &pending
	}
	return &clone
}

// AddMastery adjusts the card's mastery level by delta, floored at zero.
func (s *Session) AddMastery(cardID string, delta int) {
	if s.Mastery == nil {
		s.Mastery = map[string]int{}
	}
	level := s.Mastery[cardID] + delta
	if level < 0 {
		level = 0
	}
	s.Mastery[cardID] = level
}

// Snapshot renders the externally visible view of the session.
func (s *Session) Snapshot() SessionSnapshot {
	attempts := make([]Attempt, len(s.Attempts))
	copy(attempts, s.Attempts)
	return SessionSnapshot{
		SessionID: s.ID,
		LearnerID: s.LearnerID,
		AgeBand:   s.AgeBand,
		Goal:      s.Goal,
		Locale:    s.Locale,
		XP:        s.XP,
		Stickers:  s.Stickers,
		Attempts:  attempts,
	}
}

// SessionStore persists sessions keyed by session id with a learner/goal
// lookup for resumption. Get returns ErrSessionNotFound for unknown ids.
type SessionStore interface {
	Save(ctx context.Context, s *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	LatestForLearner(ctx context.Context, learnerID, goal string) (*Session, error)
}

// NewID generates a unique identifier for requests and streams.
func NewID() string { return uuid.NewString() }

// NewSessionID generates an opaque session token.
func NewSessionID() string {
	return "sess_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}
