// Package vector implements the similarity-search capability behind
// core.Searcher. Two interchangeable backends exist: an in-process index
// over deterministic hashing embeddings (no external calls, always
// available) and an OpenAI embeddings backed index. Callers pick one at
// construction time; the engine only ever sees core.Searcher.
package vector

import (
	"context"
	"hash/fnv"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/kidlingo/kidlingo/core"
)

// DefaultDim is the embedding width for the hashing embedder.
const DefaultDim = 128

// HashEmbedder produces deterministic embeddings without an external model:
// each token is hashed into one of dim buckets and the vector is
// L2-normalized. Crude, but stable across processes and good enough as a
// fallback ranking signal.
type HashEmbedder struct {
	dim int
}

// NewHashEmbedder creates an embedder of the given dimension.
func NewHashEmbedder(dim int) *HashEmbedder {
	if dim <= 0 {
		dim = DefaultDim
	}
	return &HashEmbedder{dim: dim}
}

// Embed returns the normalized bucket-count vector for the text.
func (e *HashEmbedder) Embed(text string) []float64 {
	vec := make([]float64, e.dim)
	for _, token := range strings.Fields(strings.ToLower(text)) {
		h := fnv.New32a()
		_, _ = h.Write([]byte(token))
		vec[int(h.Sum32())%e.dim]++
	}
	normalize(vec)
	return vec
}

func normalize(vec []float64) {
	var sum float64
	for _, v := range vec {
		sum += v * v
	}
	if sum == 0 {
		return
	}
	norm := math.Sqrt(sum)
	for i := range vec {
		vec[i] /= norm
	}
}

// index is the shared in-process nearest-neighbour store. Vectors are
// assumed normalized, so the dot product is cosine similarity.
type index struct {
	mu    sync.RWMutex
	items []core.SearchItem
	vecs  [][]float64
}

func (ix *index) add(items []core.SearchItem, vecs [][]float64) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.items = append(ix.items, items...)
	ix.vecs = append(ix.vecs, vecs...)
}

func (ix *index) nearest(query []float64, k int, minScore float64) []core.SearchResult {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	results := make([]core.SearchResult, 0, len(ix.items))
	for i, vec := range ix.vecs {
		score := dot(query, vec)
		if score < minScore {
			continue
		}
		results = append(results, core.SearchResult{Item: ix.items[i], Score: score})
	}
	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if len(results) > k {
		results = results[:k]
	}
	return results
}

func dot(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum
}

// Options configure the in-memory searcher.
type Options struct {
	// Dim is the hashing embedding width.
	Dim int
	// MinScore drops matches below this cosine similarity.
	MinScore float64
}

// InMemorySearcher is the fallback core.Searcher: hashing embeddings plus a
// linear cosine scan. Suitable for the small catalogs this server indexes.
type InMemorySearcher struct {
	embed    *HashEmbedder
	ix       index
	minScore float64
}

var _ core.Searcher = (*InMemorySearcher)(nil)

// NewInMemorySearcher creates the fallback searcher.
func NewInMemorySearcher(optFns ...func(o *Options)) *InMemorySearcher {
	opts := Options{Dim: DefaultDim}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &InMemorySearcher{embed: NewHashEmbedder(opts.Dim), minScore: opts.MinScore}
}

// Index embeds and stores the items.
func (s *InMemorySearcher) Index(_ context.Context, items []core.SearchItem) error {
	vecs := make([][]float64, len(items))
	for i, item := range items {
		vecs[i] = s.embed.Embed(item.Text)
	}
	s.ix.add(items, vecs)
	return nil
}

// Search returns the k nearest indexed items for the query.
func (s *InMemorySearcher) Search(_ context.Context, query string, k int) ([]core.SearchResult, error) {
	return s.ix.nearest(s.embed.Embed(query), k, s.minScore), nil
}
