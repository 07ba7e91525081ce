package core

import (
	"fmt"
	"strconv"
	"strings"
)

// Card is an immutable curriculum entry: a target phrase plus the prompt
// patterns used to elicit it. Sessions reference cards by id, never copy and
// mutate them.
type Card struct {
	ID       string   `json:"id"`
	Goal     string   `json:"goal"`
	MinAge   int      `json:"min_age"`
	MaxAge   int      `json:"max_age"`
	Target   string   `json:"target"`
	Patterns []string `json:"patterns,omitempty"`
}

// PromptAt returns the n-th prompt pattern (rotating), trimmed to the age
// band's token budget. Falls back to the target phrase when the card carries
// no patterns.
func (c Card) PromptAt(n int, ageBand string) string {
	pattern := c.Target
	if len(c.Patterns) > 0 {
		if n < 0 {
			n = -n
		}
		pattern = c.Patterns[n%len(c.Patterns)]
	}
	limit := MaxPromptTokens(ageBand)
	tokens := strings.Fields(pattern)
	if len(tokens) <= limit {
		return pattern
	}
	return strings.Join(tokens[:limit], " ")
}

// ParseAgeBand splits a "lo-hi" age band. Returns ErrUnknownAgeBand when the
// text does not describe a valid range.
func ParseAgeBand(band string) (lo, hi int, err error) {
	parts := strings.SplitN(band, "-", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("%w: %q", ErrUnknownAgeBand, band)
	}
	lo, loErr := strconv.Atoi(strings.TrimSpace(parts[0]))
	hi, hiErr := strconv.Atoi(strings.TrimSpace(parts[1]))
	if loErr != nil || hiErr != nil || lo <= 0 || hi < lo {
		return 0, 0, fmt.Errorf("%w: %q", ErrUnknownAgeBand, band)
	}
	return lo, hi, nil
}

// MaxPromptTokens is the prompt-length policy per age band: 8 tokens for the
// young bands (max age 6 and under), 12 for older ones.
func MaxPromptTokens(band string) int {
	if _, hi, err := ParseAgeBand(band); err == nil && hi <= 6 {
		return 8
	}
	return 12
}

// Catalog is the static, read-only curriculum lookup.
type Catalog interface {
	// Cards returns the cards for a goal filtered to an age band. Returns
	// ErrUnknownGoal when the combination yields nothing.
	Cards(goal, ageBand string) ([]Card, error)
	// Goals lists every known curriculum track, sorted.
	Goals() []string
	// All returns every card across goals, for bootstrap indexing.
	All() []Card
}

// Lexicon looks up optional vocabulary hints for an age band/goal pair.
type Lexicon interface {
	// Sample returns up to limit words, or nil when none are configured.
	Sample(ageBand, goal string, limit int) []string
}
