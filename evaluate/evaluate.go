// Package evaluate scores spoken-text utterances against a target phrase
// using a bounded heuristic rubric: token overlap for meaning, exact order
// for form, plus small pronunciation/fluency rewards. The rubric is
// intentionally shallow; it exists to drive the practice loop, not to
// understand language.
package evaluate

import (
	"regexp"
	"strings"

	"github.com/kidlingo/kidlingo/core"
)

var tokenRE = regexp.MustCompile(`[a-zA-Z']+`)

// Heuristic is the default core.Evaluator. Stateless and safe for concurrent
// use.
type Heuristic struct{}

// NewHeuristic returns the heuristic rubric evaluator.
func NewHeuristic() *Heuristic { return &Heuristic{} }

var _ core.Evaluator = (*Heuristic)(nil)

// Evaluate scores the utterance on four axes (meaning, form, pronunciation,
// fluency, 0-2/0-2/0-1/0-1) and maps the total onto an outcome:
// total <= 2 fail, <= 4 partial, otherwise pass.
func (h *Heuristic) Evaluate(utterance, targetPhrase, _ string) (core.Evaluation, error) {
	utterTokens := Tokenize(utterance)
	targetTokens := Tokenize(targetPhrase)

	meaning, form := compareTokens(utterTokens, targetTokens)

	pronunciation := 0
	if len(utterTokens) > 0 {
		pronunciation = 1
	}
	fluency := 0
	if utterance != "" && !strings.HasSuffix(strings.TrimSpace(utterance), "...") {
		fluency = 1
	}

	total := meaning + form + pronunciation + fluency
	return core.Evaluation{Outcome: outcomeForScore(total), Score: total}, nil
}

// Tokenize lowercases and extracts word tokens (letters and apostrophes).
func Tokenize(text string) []string {
	matches := tokenRE.FindAllString(text, -1)
	tokens := make([]string, 0, len(matches))
	for _, m := range matches {
		tokens = append(tokens, strings.ToLower(m))
	}
	return tokens
}

// compareTokens returns (meaning, form). Meaning rewards covering at least
// half of the target vocabulary; form rewards exact token order.
func compareTokens(utter, target []string) (int, int) {
	if len(utter) == 0 {
		return 0, 0
	}

	targetSet := make(map[string]struct{}, len(target))
	for _, tok := range target {
		targetSet[tok] = struct{}{}
	}
	overlapSet := make(map[string]struct{})
	for _, tok := range utter {
		if _, ok := targetSet[tok]; ok {
			overlapSet[tok] = struct{}{}
		}
	}
	overlap := len(overlapSet)

	meaning := 0
	switch {
	case overlap >= maxInt(1, len(target)/2):
		meaning = 2
	case overlap > 0:
		meaning = 1
	}

	form := 0
	switch {
	case equalTokens(utter, target):
		form = 2
	case overlap > 0:
		form = 1
	}
	return meaning, form
}

func outcomeForScore(score int) core.Outcome {
	switch {
	case score <= 2:
		return core.OutcomeFail
	case score <= 4:
		return core.OutcomePartial
	default:
		return core.OutcomePass
	}
}

func equalTokens(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
