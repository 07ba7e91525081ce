// Package scheduler implements the simplified spaced-repetition policy that
// decides which teaching card a session sees next and how far out a card is
// pushed after each attempt.
//
// Selection interleaves two pools: cards never shown in this session ("new")
// and cards whose due step has arrived ("due"). The rolling ratio is two new
// picks per due review while both pools are non-empty. A card that just
// failed bypasses both pools and is served first.
package scheduler

import (
	"context"
	"fmt"
	"sort"

	"github.com/kidlingo/kidlingo/core"
)

const (
	// growthFactor doubles a card's review interval on every pass.
	growthFactor = 2
	// minInterval is the smallest review spacing, in steps.
	minInterval = 1
	// newPerReview is how many new cards are shown before a due review is
	// interleaved.
	newPerReview = 2
)

// Scheduler selects cards and maintains review spacing. All mutable state
// lives on the session (step counter, interleave counter) and in the review
// store, so a single Scheduler serves every session.
type Scheduler struct {
	reviews core.ReviewStore
}

// New creates a Scheduler over the given review store.
func New(reviews core.ReviewStore) *Scheduler {
	return &Scheduler{reviews: reviews}
}

// Pick advances the session's step counter and returns the next card from
// the pool, or nil when both the new and due pools are exhausted (goal
// complete). The returned bool reports whether the card is new to this
// session.
func (s *Scheduler) Pick(ctx context.Context, sess *core.Session, pool []core.Card) (*core.Card, bool, error) {
	sess.Step++
	step := sess.Step

	byID := make(map[string]core.Card, len(pool))
	for _, card := range pool {
		byID[card.ID] = card
	}

	states, err := s.reviews.List(ctx, sess.ID)
	if err != nil {
		return nil, false, fmt.Errorf("list review cards: %w", err)
	}
	seen := make(map[string]core.ReviewCard, len(states))
	for _, st := range states {
		seen[st.CardID] = st
	}

	// A just-failed card preempts both pools.
	if id := sess.RemediationCardID; id != "" {
		sess.RemediationCardID = ""
		if card, ok := byID[id]; ok {
			sess.NewSinceReview = 0
			return &card, false, nil
		}
	}

	var due []core.ReviewCard
	var fresh []core.Card
	for _, card := range pool {
		st, shown := seen[card.ID]
		switch {
		case !shown:
			fresh = append(fresh, card)
		case st.DueStep <= step:
			due = append(due, st)
		}
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].DueStep != due[j].DueStep {
			return due[i].DueStep < due[j].DueStep
		}
		return due[i].CardID < due[j].CardID
	})
	sort.Slice(fresh, func(i, j int) bool { return fresh[i].ID < fresh[j].ID })

	switch {
	case len(due) > 0 && (len(fresh) == 0 || sess.NewSinceReview >= newPerReview):
		card := byID[due[0].CardID]
		sess.NewSinceReview = 0
		return &card, false, nil
	case len(fresh) > 0:
		card := fresh[0]
		sess.NewSinceReview++
		// Review state is created the first time a card is shown.
		if err := s.reviews.Upsert(ctx, core.ReviewCard{
			SessionID: sess.ID,
			CardID:    card.ID,
			Interval:  minInterval,
			DueStep:   step,
		}); err != nil {
			return nil, false, fmt.Errorf("create review card: %w", err)
		}
		return &card, true, nil
	default:
		return nil, false, nil
	}
}

// Update recomputes a card's interval and due step after an attempt:
//
//	delta +2: level up, interval doubles, due pushed out by the new interval
//	delta  0: interval unchanged, due rescheduled from the current step
//	delta -1: level and interval reset, card immediately due again
//
// DueStep never decreases for a given card.
func (s *Scheduler) Update(ctx context.Context, sess *core.Session, cardID string, delta int) error {
	st, err := s.reviews.GetCard(ctx, sess.ID, cardID)
	if err != nil {
		return fmt.Errorf("get review card: %w", err)
	}
	if st == nil {
		st = &core.ReviewCard{SessionID: sess.ID, CardID: cardID, Interval: minInterval}
	}
	step := sess.Step

	switch {
	case delta > 0:
		st.Level++
		st.Interval *= growthFactor
		if st.Interval < minInterval {
			st.Interval = minInterval
		}
		st.DueStep = maxInt(st.DueStep, step+st.Interval)
	case delta < 0:
		st.Level = 0
		st.Interval = minInterval
		st.DueStep = maxInt(st.DueStep, step)
	default:
		st.DueStep = maxInt(st.DueStep, step+st.Interval)
	}

	if err := s.reviews.Upsert(ctx, *st); err != nil {
		return fmt.Errorf("update review card: %w", err)
	}
	return nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
