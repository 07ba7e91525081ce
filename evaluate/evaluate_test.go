package evaluate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kidlingo/kidlingo/core"
)

func TestEvaluateOutcomes(t *testing.T) {
	target := "I go to school by bus"

	tests := []struct {
		name      string
		utterance string
		want      core.Outcome
	}{
		{name: "exact match passes", utterance: "I go to school by bus", want: core.OutcomePass},
		{name: "case and punctuation ignored", utterance: "i GO to school, by bus!", want: core.OutcomePass},
		{name: "half the vocabulary is partial", utterance: "school bus", want: core.OutcomePartial},
		{name: "unrelated words fail", utterance: "banana", want: core.OutcomeFail},
		{name: "empty fails", utterance: "", want: core.OutcomeFail},
		{name: "whitespace fails", utterance: "   ", want: core.OutcomeFail},
	}

	eval := NewHeuristic()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := eval.Evaluate(tt.utterance, target, "")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Outcome)
		})
	}
}

func TestEvaluateScoreComponents(t *testing.T) {
	eval := NewHeuristic()

	// Exact match: meaning 2 + form 2 + pronunciation 1 + fluency 1.
	got, err := eval.Evaluate("Hello!", "Hello!", "")
	require.NoError(t, err)
	assert.Equal(t, 6, got.Score)

	// A trailing ellipsis forfeits the fluency point.
	got, err = eval.Evaluate("Hello ...", "Hello!", "")
	require.NoError(t, err)
	assert.Equal(t, 5, got.Score)

	// Empty input scores zero everywhere.
	got, err = eval.Evaluate("", "Hello!", "")
	require.NoError(t, err)
	assert.Equal(t, 0, got.Score)
}

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"don't", "stop"}, Tokenize("Don't stop!"))
	assert.Equal(t, []string{"one", "two", "three"}, Tokenize("One, two, three!"))
	assert.Empty(t, Tokenize("123 !!!"))
}
