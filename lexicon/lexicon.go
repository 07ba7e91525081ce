// Package lexicon reads optional reference vocabulary files organised by age
// band and goal. Files are plain text, one word per line, with lines starting
// with '#' ignored. Lookups are layered: <band>/<goal>/words.txt, then
// <band>/words.txt, then <goal>/words.txt, merged in that order with
// duplicates removed.
package lexicon

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/kidlingo/kidlingo/core"
)

// Dir looks words up under a base directory, caching per (band, goal) pair.
// A Dir with an empty base path returns nothing, which callers treat as "no
// hints configured".
type Dir struct {
	base string

	mu    sync.RWMutex
	cache map[[2]string][]string
}

var _ core.Lexicon = (*Dir)(nil)

// NewDir creates a lexicon over the given directory.
func NewDir(base string) *Dir {
	return &Dir{base: base, cache: make(map[[2]string][]string)}
}

// Words returns the merged, deduplicated word list for an age band and goal.
func (d *Dir) Words(ageBand, goal string) []string {
	if d.base == "" {
		return nil
	}
	key := [2]string{ageBand, goal}

	d.mu.RLock()
	words, ok := d.cache[key]
	d.mu.RUnlock()
	if ok {
		return words
	}

	candidates := []string{
		filepath.Join(d.base, ageBand, goal, "words.txt"),
		filepath.Join(d.base, ageBand, "words.txt"),
		filepath.Join(d.base, goal, "words.txt"),
	}

	seen := make(map[string]struct{})
	var unique []string
	for _, path := range candidates {
		for _, word := range readWords(path) {
			if _, dup := seen[word]; dup {
				continue
			}
			seen[word] = struct{}{}
			unique = append(unique, word)
		}
	}

	d.mu.Lock()
	d.cache[key] = unique
	d.mu.Unlock()
	return unique
}

// Sample returns up to limit words for UI display.
func (d *Dir) Sample(ageBand, goal string, limit int) []string {
	words := d.Words(ageBand, goal)
	if len(words) > limit {
		words = words[:limit]
	}
	return append([]string(nil), words...)
}

func readWords(path string) []string {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	var words []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		entry := strings.TrimSpace(scanner.Text())
		if entry == "" || strings.HasPrefix(entry, "#") {
			continue
		}
		words = append(words, entry)
	}
	return words
}
