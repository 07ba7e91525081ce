package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kidlingo/kidlingo/core"
)

func TestSessionRoundtrip(t *testing.T) {
	ctx := context.Background()
	s := NewInMemory()

	sess := core.NewSession("kid-1", "3-6", "greetings", "zh-CN")
	sess.XP = 15
	require.NoError(t, s.Save(ctx, sess))

	got, err := s.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, sess.ID, got.ID)
	assert.Equal(t, 15, got.XP)

	// Stored state is isolated from later caller mutation.
	got.XP = 99
	again, err := s.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, 15, again.XP)
}

func TestGetUnknownSession(t *testing.T) {
	s := NewInMemory()
	_, err := s.Get(context.Background(), "sess_missing")
	assert.ErrorIs(t, err, core.ErrSessionNotFound)
}

func TestLatestForLearnerPicksNewest(t *testing.T) {
	ctx := context.Background()
	s := NewInMemory()

	older := core.NewSession("kid-1", "3-6", "greetings", "zh-CN")
	older.Updated = time.Now().Add(-time.Hour)
	newer := core.NewSession("kid-1", "3-6", "greetings", "zh-CN")
	other := core.NewSession("kid-1", "3-6", "phonics", "zh-CN")
	require.NoError(t, s.Save(ctx, older))
	require.NoError(t, s.Save(ctx, newer))
	require.NoError(t, s.Save(ctx, other))

	got, err := s.LatestForLearner(ctx, "kid-1", "greetings")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, newer.ID, got.ID)

	none, err := s.LatestForLearner(ctx, "kid-2", "greetings")
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestReviewCardLifecycle(t *testing.T) {
	ctx := context.Background()
	s := NewInMemory()

	missing, err := s.GetCard(ctx, "sess_1", "c1")
	require.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, s.Upsert(ctx, core.ReviewCard{SessionID: "sess_1", CardID: "c2", Interval: 1, DueStep: 1}))
	require.NoError(t, s.Upsert(ctx, core.ReviewCard{SessionID: "sess_1", CardID: "c1", Interval: 2, DueStep: 3, Level: 1}))
	require.NoError(t, s.Upsert(ctx, core.ReviewCard{SessionID: "sess_1", CardID: "c1", Interval: 4, DueStep: 7, Level: 2}))

	got, err := s.GetCard(ctx, "sess_1", "c1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 4, got.Interval)
	assert.Equal(t, 2, got.Level)

	list, err := s.List(ctx, "sess_1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "c1", list[0].CardID)
	assert.Equal(t, "c2", list[1].CardID)
}

func TestNotesAppendOrder(t *testing.T) {
	ctx := context.Background()
	s := NewInMemory()

	require.NoError(t, s.Append(ctx, core.ParentNote{SessionID: "sess_1", Text: "first"}))
	require.NoError(t, s.Append(ctx, core.ParentNote{SessionID: "sess_1", Text: "second"}))

	notes, err := s.Notes(ctx, "sess_1")
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, "first", notes[0].Text)
	assert.Equal(t, "second", notes[1].Text)
	assert.False(t, notes[0].Created.IsZero())
}
