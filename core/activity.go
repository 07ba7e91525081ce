package core

// Activity is a teaching card rendered for a session: a short prompt the
// child speaks back, plus scaffold metadata for the caller's UI. Activities
// are derived from immutable catalog cards and never mutated after return.
type Activity struct {
	CardID       string   `json:"card_id"`
	PromptText   string   `json:"prompt_text"`
	TargetPhrase string   `json:"target_phrase"`
	Rubric       string   `json:"rubric"`
	TimeboxSec   int      `json:"timebox_sec"`
	ScaffoldCN   string   `json:"scaffold_cn,omitempty"`
	LexiconWords []string `json:"lexicon_words,omitempty"`

	// GoalComplete marks the terminal activity returned once both the new
	// and due pools are exhausted.
	GoalComplete bool `json:"goal_complete,omitempty"`
}

// Award reports the reward side effects of one submission.
type Award struct {
	XP       int `json:"xp"`
	Stickers int `json:"stickers"`
}

// Feedback is the transient result of scoring one utterance.
type Feedback struct {
	FeedbackText   string    `json:"feedback_text"`
	MasteryDelta   int       `json:"mastery_delta"`
	XPAwarded      int       `json:"xp_awarded"`
	StickerAwarded int       `json:"sticker_awarded"`
	ScaffoldCN     string    `json:"scaffold_cn,omitempty"`
	Award          *Award    `json:"award,omitempty"`
	NextActivity   *Activity `json:"next_activity,omitempty"`
	ReviewCard     *Activity `json:"review_card,omitempty"`
}

// SessionSnapshot is the externally visible session state.
type SessionSnapshot struct {
	SessionID string    `json:"session_id"`
	LearnerID string    `json:"learner_id"`
	AgeBand   string    `json:"age_band"`
	Goal      string    `json:"goal"`
	Locale    string    `json:"locale"`
	XP        int       `json:"xp"`
	Stickers  int       `json:"stickers"`
	Attempts  []Attempt `json:"attempts"`
}

// StartResult is returned by the start_session operation.
type StartResult struct {
	SessionID     string          `json:"session_id"`
	NextActivity  *Activity       `json:"next_activity"`
	StateSnapshot SessionSnapshot `json:"state_snapshot"`
}

// GoalProgress is the per-goal slice of a progress summary.
type GoalProgress struct {
	CardsSeen int `json:"cards_seen"`
	Mastered  int `json:"mastered"`
}

// ProgressSummary is the caretaker-facing roll-up produced by get_progress.
type ProgressSummary struct {
	CEFRBandEstimate string                  `json:"cefr_band_estimate"`
	XPTotal          int                     `json:"xp_total"`
	StickerCount     int                     `json:"sticker_count"`
	MasteredCards    int                     `json:"mastered_card_count"`
	RecentCards      []string                `json:"recent_cards"`
	DueReviews       int                     `json:"due_reviews"`
	Goals            map[string]GoalProgress `json:"goals"`
}
