package utils

import (
	"context"
	"fmt"
	"llm_steps/model"
	"sync"

	"github.com/rs/zerolog/log"
)

type Embedder interface {
	EmbedText(ctx context.Context, text []string) ([][]float32, error)
}

type VectorStore interface {
	Insert(ctx context.Context, docs []model.Document, vectors [][]float32) error
	Search(ctx context.Context, vector []float32, topK int) ([]model.Document, error)
	Load(ctx context.Context) error
}

const defaultInsertBatch = 64

// Indexer embeds chunks and stores them with their vectors.
type Indexer struct {
	embedder  Embedder
	store     VectorStore
	batchSize int
}

func NewIndexer(embedder Embedder, store VectorStore) *Indexer {
	return &Indexer{embedder: embedder, store: store, batchSize: defaultInsertBatch}
}

func (idx *Indexer) WithBatchSize(n int) *Indexer {
	if n > 0 {
		idx.batchSize = n
	}
	return idx
}

// Index returns the number of chunks stored.
func (idx *Indexer) Index(ctx context.Context, docs []model.Document) (int, error) {
	total := 0
	for start := 0; start < len(docs); start += idx.batchSize {
		end := min(start+idx.batchSize, len(docs))
		batch := docs[start:end]
		texts := make([]string, len(batch))
		for i, doc := range batch {
			texts[i] = doc.PageContent
		}
		vectors, err := idx.embedder.EmbedText(ctx, texts)
		if err != nil {
			return total, fmt.Errorf("embed chunks %d-%d: %w", start, end, err)
		}
		if err := idx.store.Insert(ctx, batch, vectors); err != nil {
			return total, fmt.Errorf("insert chunks %d-%d: %w", start, end, err)
		}
		total += len(batch)
		log.Info().Int("indexed", total).Int("total", len(docs)).Msg("insert chunks success")
	}
	return total, nil
}

// Retriever answers similarity queries, loading the collection on first use.
// A failed load is retried by the next query.
type Retriever struct {
	embedder Embedder
	store    VectorStore

	mu     sync.Mutex
	loaded bool
}

func NewRetriever(embedder Embedder, store VectorStore) *Retriever {
	return &Retriever{embedder: embedder, store: store}
}

func (r *Retriever) Retrieve(ctx context.Context, query string, k int) ([]model.Document, error) {
	if err := r.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	vectors, err := r.embedder.EmbedText(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("embed query: got %d vectors", len(vectors))
	}
	docs, err := r.store.Search(ctx, vectors[0], k)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("query", query).Int("hits", len(docs)).Msg("retrieve success")
	return docs, nil
}

func (r *Retriever) ensureLoaded(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.loaded {
		return nil
	}
	if err := r.store.Load(ctx); err != nil {
		return err
	}
	r.loaded = true
	return nil
}
