package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	s, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:8765", s.Addr)
	assert.Empty(t, s.DatabasePath)
	assert.Equal(t, 128, s.EmbeddingDim)
	assert.InDelta(t, 0.35, s.MinSimilarity, 1e-9)
	assert.False(t, s.OpenAIEmbeddings)
	assert.False(t, s.AnthropicCoach)
	assert.Equal(t, "info", s.LogLevel)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("KIDLINGO_ADDR", "0.0.0.0:9000")
	t.Setenv("KIDLINGO_DB_PATH", "/tmp/kidlingo.db")
	t.Setenv("KIDLINGO_EMBEDDING_DIM", "256")
	t.Setenv("KIDLINGO_ANTHROPIC_COACH", "true")
	t.Setenv("KIDLINGO_LOG_LEVEL", "debug")

	s, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:9000", s.Addr)
	assert.Equal(t, "/tmp/kidlingo.db", s.DatabasePath)
	assert.Equal(t, 256, s.EmbeddingDim)
	assert.True(t, s.AnthropicCoach)
	assert.Equal(t, "debug", s.LogLevel)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("KIDLINGO_EMBEDDING_DIM", "not-a-number")
	_, err := Load()
	assert.Error(t, err)
}
