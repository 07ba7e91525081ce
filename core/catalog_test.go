package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAgeBand(t *testing.T) {
	tests := []struct {
		band    string
		lo, hi  int
		wantErr bool
	}{
		{band: "3-6", lo: 3, hi: 6},
		{band: "7-10", lo: 7, hi: 10},
		{band: "5-5", lo: 5, hi: 5},
		{band: "6-3", wantErr: true},
		{band: "abc", wantErr: true},
		{band: "0-4", wantErr: true},
		{band: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.band, func(t *testing.T) {
			lo, hi, err := ParseAgeBand(tt.band)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrUnknownAgeBand)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.lo, lo)
			assert.Equal(t, tt.hi, hi)
		})
	}
}

func TestMaxPromptTokens(t *testing.T) {
	assert.Equal(t, 8, MaxPromptTokens("3-6"))
	assert.Equal(t, 12, MaxPromptTokens("7-10"))
	assert.Equal(t, 12, MaxPromptTokens("5-10"))
	// Unparseable bands fall back to the longer budget.
	assert.Equal(t, 12, MaxPromptTokens("toddler"))
}

func TestPromptAtRotatesAndTrims(t *testing.T) {
	card := Card{
		ID:     "c1",
		Target: "Hello!",
		Patterns: []string{
			"Say hello to me!",
			"one two three four five six seven eight nine ten",
		},
	}

	assert.Equal(t, "Say hello to me!", card.PromptAt(0, "3-6"))
	assert.Equal(t, "one two three four five six seven eight", card.PromptAt(1, "3-6"))
	assert.Equal(t, "Say hello to me!", card.PromptAt(2, "3-6"))

	// Without patterns the target itself is the prompt.
	bare := Card{ID: "c2", Target: "Good morning!"}
	assert.Equal(t, "Good morning!", bare.PromptAt(5, "3-6"))
}
