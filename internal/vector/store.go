package vector

import "context"

// Embedder is the embedding capability consumed by the in-memory store.
type Embedder interface {
	Embed(ctx context.Context, inputs []string) ([][]float32, error)
}

// Store is a similarity index over embedded documents. A session builds one
// store during priming and only reads from it afterwards.
type Store interface {
	AddDocuments(ctx context.Context, docs []string) error
	SimilaritySearch(ctx context.Context, query string, k int) ([]string, error)
}
