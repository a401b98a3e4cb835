package vector

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/yungbote/personachat-backend/internal/platform/logger"
)

type scoredDoc struct {
	text  string
	score float64
}

type memoryDoc struct {
	text string
	vec  []float32
}

// MemoryStore keeps embedded documents in process memory and ranks matches by
// cosine similarity. Reads and writes are safe for concurrent use; writes only
// happen during priming.
type MemoryStore struct {
	log   *logger.Logger
	embed Embedder

	mu   sync.RWMutex
	docs []memoryDoc
}

func NewMemoryStore(log *logger.Logger, embed Embedder) (*MemoryStore, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if embed == nil {
		return nil, fmt.Errorf("embedder required")
	}
	return &MemoryStore{
		log:   log.With("service", "MemoryVectorStore"),
		embed: embed,
	}, nil
}

func (s *MemoryStore) AddDocuments(ctx context.Context, docs []string) error {
	if len(docs) == 0 {
		return nil
	}
	vecs, err := s.embed.Embed(ctx, docs)
	if err != nil {
		return fmt.Errorf("embed documents: %w", err)
	}
	if len(vecs) != len(docs) {
		return fmt.Errorf("embed documents: requested=%d returned=%d", len(docs), len(vecs))
	}
	s.mu.Lock()
	for i := range docs {
		s.docs = append(s.docs, memoryDoc{text: docs[i], vec: vecs[i]})
	}
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) SimilaritySearch(ctx context.Context, query string, k int) ([]string, error) {
	if k <= 0 {
		return []string{}, nil
	}
	vecs, err := s.embed.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(vecs) != 1 {
		return nil, fmt.Errorf("embed query: expected 1 vector, got %d", len(vecs))
	}
	q := vecs[0]

	s.mu.RLock()
	scored := make([]scoredDoc, 0, len(s.docs))
	for _, d := range s.docs {
		scored = append(scored, scoredDoc{text: d.text, score: cosine(q, d.vec)})
	}
	s.mu.RUnlock()

	sort.SliceStable(scored, func(i, j int) bool { return scored[i].score > scored[j].score })
	if k > len(scored) {
		k = len(scored)
	}
	out := make([]string, 0, k)
	for _, sd := range scored[:k] {
		out = append(out, sd.text)
	}
	if len(out) == 0 {
		s.log.Debug("No similar documents found", "query_len", len(query))
	}
	return out, nil
}

// Len reports the number of indexed documents.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

func cosine(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, na, nb float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
