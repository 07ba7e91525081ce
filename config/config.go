// Package config loads server settings from KIDLINGO_* environment
// variables. Flags in cmd/kidlingo may override individual values.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Settings hold every tunable of the server process.
type Settings struct {
	// Addr is the HTTP listen address.
	Addr string `env:"KIDLINGO_ADDR" envDefault:"127.0.0.1:8765"`

	// DatabasePath enables the SQLite store when non-empty; empty keeps all
	// state in memory.
	DatabasePath string `env:"KIDLINGO_DB_PATH"`

	// CurriculumPath points at a catalog JSON file; empty uses the embedded
	// default catalog.
	CurriculumPath string `env:"KIDLINGO_CURRICULUM_PATH"`

	// ReferencesPath points at the reference lexicon directory.
	ReferencesPath string `env:"KIDLINGO_REFERENCES_PATH"`

	// EmbeddingDim is the hashing embedder width for the fallback searcher.
	EmbeddingDim int `env:"KIDLINGO_EMBEDDING_DIM" envDefault:"128"`

	// MinSimilarity drops similarity matches below this cosine score.
	MinSimilarity float64 `env:"KIDLINGO_MIN_SIMILARITY" envDefault:"0.35"`

	// OpenAIEmbeddings switches the searcher to the OpenAI embeddings API
	// (requires OPENAI_API_KEY).
	OpenAIEmbeddings bool `env:"KIDLINGO_OPENAI_EMBEDDINGS"`

	// AnthropicCoach switches feedback generation to the Anthropic Messages
	// API (requires ANTHROPIC_API_KEY).
	AnthropicCoach bool `env:"KIDLINGO_ANTHROPIC_COACH"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `env:"KIDLINGO_LOG_LEVEL" envDefault:"info"`
}

// Load reads settings from the environment.
func Load() (Settings, error) {
	var s Settings
	if err := env.Parse(&s); err != nil {
		return Settings{}, fmt.Errorf("parse environment: %w", err)
	}
	return s, nil
}
