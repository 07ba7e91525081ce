package vector

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kidlingo/kidlingo/core"
)

func TestHashEmbedderDeterministic(t *testing.T) {
	e := NewHashEmbedder(64)
	a := e.Embed("hello world")
	b := e.Embed("hello world")
	assert.Equal(t, a, b)
	assert.Len(t, a, 64)
}

func TestHashEmbedderNormalized(t *testing.T) {
	e := NewHashEmbedder(0) // falls back to DefaultDim
	vec := e.Embed("one two three")
	require.Len(t, vec, DefaultDim)

	var sum float64
	for _, v := range vec {
		sum += v * v
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestSearchRanksExactMatchFirst(t *testing.T) {
	ctx := context.Background()
	s := NewInMemorySearcher()
	require.NoError(t, s.Index(ctx, []core.SearchItem{
		{Text: "Good morning!", Goal: "greetings", Topic: "greet-003"},
		{Text: "I want water.", Goal: "daily-life", Topic: "daily-001"},
		{Text: "The ball is red.", Goal: "colors-numbers", Topic: "color-001"},
	}))

	results, err := s.Search(ctx, "good morning", 2)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "greet-003", results[0].Item.Topic)
	assert.LessOrEqual(t, len(results), 2)
}

func TestSearchMinScoreFilters(t *testing.T) {
	ctx := context.Background()
	s := NewInMemorySearcher(func(o *Options) { o.MinScore = 0.99 })
	require.NoError(t, s.Index(ctx, []core.SearchItem{
		{Text: "Good morning!", Topic: "a"},
		{Text: "completely unrelated phrase", Topic: "b"},
	}))

	results, err := s.Search(ctx, "good morning", 5)
	require.NoError(t, err)
	for _, res := range results {
		assert.GreaterOrEqual(t, res.Score, 0.99)
	}
}

func TestSearchEmptyIndex(t *testing.T) {
	s := NewInMemorySearcher()
	results, err := s.Search(context.Background(), "anything", 3)
	require.NoError(t, err)
	assert.Empty(t, results)
}
