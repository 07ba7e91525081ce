package core

import "context"

// SearchItem is a phrase indexed for similarity lookup.
type SearchItem struct {
	Text  string
	Goal  string
	Topic string
}

// SearchResult is a retrieved phrase with a relevance score.
type SearchResult struct {
	Item  SearchItem
	Score float64
}

// Searcher is the similarity-search capability: index a set of phrases once,
// then retrieve nearest neighbours for a query. Implementations differ only
// in how they embed (deterministic hashing vs. an embeddings API); callers
// choose one at construction time.
type Searcher interface {
	Index(ctx context.Context, items []SearchItem) error
	Search(ctx context.Context, query string, k int) ([]SearchResult, error)
}
