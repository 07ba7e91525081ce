package vector

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"

	"github.com/kidlingo/kidlingo/core"
)

// OpenAIOptions configure the OpenAI embeddings searcher.
type OpenAIOptions struct {
	Model    openai.EmbeddingModel
	MinScore float64
}

// OpenAISearcher embeds phrases through the OpenAI Embeddings API and keeps
// the resulting vectors in the same in-process index used by the fallback.
type OpenAISearcher struct {
	client   *openai.Client
	ix       index
	model    openai.EmbeddingModel
	minScore float64
}

var _ core.Searcher = (*OpenAISearcher)(nil)

// NewOpenAISearcher creates an embeddings searcher using the official
// client (reads OPENAI_API_KEY from the environment).
func NewOpenAISearcher(optFns ...func(o *OpenAIOptions)) *OpenAISearcher {
	client := openai.NewClient()
	return NewOpenAISearcherFromClient(&client, optFns...)
}

// NewOpenAISearcherFromClient creates an embeddings searcher from an
// existing client.
func NewOpenAISearcherFromClient(client *openai.Client, optFns ...func(o *OpenAIOptions)) *OpenAISearcher {
	opts := OpenAIOptions{Model: openai.EmbeddingModelTextEmbedding3Small}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &OpenAISearcher{client: client, model: opts.Model, minScore: opts.MinScore}
}

// Index embeds all item texts in one API call and stores the vectors.
func (s *OpenAISearcher) Index(ctx context.Context, items []core.SearchItem) error {
	if len(items) == 0 {
		return nil
	}
	texts := make([]string, len(items))
	for i, item := range items {
		texts[i] = item.Text
	}
	vecs, err := s.embed(ctx, texts)
	if err != nil {
		return err
	}
	s.ix.add(items, vecs)
	return nil
}

// Search embeds the query and returns the k nearest indexed items.
func (s *OpenAISearcher) Search(ctx context.Context, query string, k int) ([]core.SearchResult, error) {
	vecs, err := s.embed(ctx, []string{query})
	if err != nil {
		return nil, err
	}
	return s.ix.nearest(vecs[0], k, s.minScore), nil
}

func (s *OpenAISearcher) embed(ctx context.Context, texts []string) ([][]float64, error) {
	resp, err := s.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Model: s.model,
		Input: openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: texts},
	})
	if err != nil {
		return nil, fmt.Errorf("openai embeddings: %w", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("openai embeddings: got %d vectors for %d inputs", len(resp.Data), len(texts))
	}
	vecs := make([][]float64, len(resp.Data))
	for i, d := range resp.Data {
		vec := append([]float64(nil), d.Embedding...)
		normalize(vec)
		vecs[i] = vec
	}
	return vecs, nil
}
