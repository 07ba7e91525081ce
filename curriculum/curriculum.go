// Package curriculum loads the static activity catalog. Cards are grouped
// into goal tracks and tagged with an age range; the catalog is read-only
// once constructed. A small default catalog ships embedded so the server
// runs without any external content files.
package curriculum

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/kidlingo/kidlingo/core"
)

//go:embed curriculum.json
var defaultCatalogJSON []byte

// catalogFile mirrors the on-disk JSON shape:
// {"tracks": {"<goal>": [{"id","age","target","patterns"}]}}.
type catalogFile struct {
	Tracks map[string][]cardEntry `json:"tracks"`
}

type cardEntry struct {
	ID       string   `json:"id"`
	Age      string   `json:"age"`
	Target   string   `json:"target"`
	Patterns []string `json:"patterns"`
}

// Catalog is the concrete core.Catalog backed by parsed track files.
type Catalog struct {
	cards []core.Card
	goals []string
}

var _ core.Catalog = (*Catalog)(nil)

// Load reads a catalog from a JSON file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read curriculum: %w", err)
	}
	return Parse(data)
}

// Parse builds a catalog from raw JSON.
func Parse(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse curriculum: %w", err)
	}

	var cards []core.Card
	goals := make([]string, 0, len(file.Tracks))
	for goal, entries := range file.Tracks {
		goals = append(goals, goal)
		for _, entry := range entries {
			lo, hi, err := core.ParseAgeBand(entry.Age)
			if err != nil {
				return nil, fmt.Errorf("card %s: %w", entry.ID, err)
			}
			cards = append(cards, core.Card{
				ID:       entry.ID,
				Goal:     goal,
				MinAge:   lo,
				MaxAge:   hi,
				Target:   entry.Target,
				Patterns: entry.Patterns,
			})
		}
	}
	sort.Strings(goals)
	sort.Slice(cards, func(i, j int) bool { return cards[i].ID < cards[j].ID })
	return &Catalog{cards: cards, goals: goals}, nil
}

// Default returns the embedded catalog. The embedded file is validated by
// tests, so a parse failure here is a programming error.
func Default() *Catalog {
	catalog, err := Parse(defaultCatalogJSON)
	if err != nil {
		panic(fmt.Sprintf("embedded curriculum is invalid: %v", err))
	}
	return catalog
}

// Cards returns the goal's cards whose age range overlaps the band.
func (c *Catalog) Cards(goal, ageBand string) ([]core.Card, error) {
	lo, hi, err := core.ParseAgeBand(ageBand)
	if err != nil {
		return nil, err
	}
	var out []core.Card
	for _, card := range c.cards {
		if card.Goal == goal && card.MinAge <= hi && card.MaxAge >= lo {
			out = append(out, card)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %s (%s)", core.ErrUnknownGoal, goal, ageBand)
	}
	return out, nil
}

// Goals lists the known tracks, sorted.
func (c *Catalog) Goals() []string {
	return append([]string(nil), c.goals...)
}

// All returns every card across tracks.
func (c *Catalog) All() []core.Card {
	return append([]core.Card(nil), c.cards...)
}
