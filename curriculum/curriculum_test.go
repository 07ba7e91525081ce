package curriculum

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kidlingo/kidlingo/core"
)

func TestDefaultCatalogParses(t *testing.T) {
	catalog := Default()
	assert.Equal(t, []string{"colors-numbers", "daily-life", "greetings", "phonics"}, catalog.Goals())
	assert.NotEmpty(t, catalog.All())
}

func TestCardsFiltersByAgeBand(t *testing.T) {
	catalog := Default()

	young, err := catalog.Cards("greetings", "3-6")
	require.NoError(t, err)
	for _, card := range young {
		assert.LessOrEqual(t, card.MinAge, 6, "card %s", card.ID)
	}

	older, err := catalog.Cards("greetings", "7-10")
	require.NoError(t, err)
	for _, card := range older {
		assert.GreaterOrEqual(t, card.MaxAge, 7, "card %s", card.ID)
	}

	// Each band keeps its own end of the track. Membership, not pool size,
	// is what distinguishes the bands.
	assert.NotContains(t, cardIDs(young), "greet-007")
	assert.NotContains(t, cardIDs(older), "greet-001")
	assert.Contains(t, cardIDs(young), "greet-001")
	assert.Contains(t, cardIDs(older), "greet-007")
}

func cardIDs(cards []core.Card) []string {
	ids := make([]string, len(cards))
	for i, card := range cards {
		ids[i] = card.ID
	}
	return ids
}

func TestCardsUnknownGoal(t *testing.T) {
	catalog := Default()
	_, err := catalog.Cards("algebra", "3-6")
	assert.ErrorIs(t, err, core.ErrUnknownGoal)
}

func TestCardsBadAgeBand(t *testing.T) {
	catalog := Default()
	_, err := catalog.Cards("greetings", "toddler")
	assert.ErrorIs(t, err, core.ErrUnknownAgeBand)
}

func TestParseRejectsInvalidAge(t *testing.T) {
	_, err := Parse([]byte(`{"tracks":{"g":[{"id":"x","age":"9-2","target":"Hi"}]}}`))
	assert.Error(t, err)
}

func TestParseRejectsInvalidJSON(t *testing.T) {
	_, err := Parse([]byte(`{"tracks":`))
	assert.Error(t, err)
}

func TestAllReturnsCopy(t *testing.T) {
	catalog := Default()
	cards := catalog.All()
	require.NotEmpty(t, cards)
	cards[0].ID = "mutated"
	assert.NotEqual(t, "mutated", catalog.All()[0].ID)
}
