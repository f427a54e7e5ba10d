// Package retrieval wraps an embedded vector store (chromem-go) as a
// knowledge base and exposes similarity search to the run loop through the
// reserved dataset_retrieval tool.
package retrieval

import (
	"context"
	"fmt"
	"path/filepath"

	chromem "github.com/philippgille/chromem-go"
)

// Document is one passage stored in a knowledge base.
type Document struct {
	ID       string
	Content  string
	Metadata map[string]string
}

// Passage is one similarity search hit.
type Passage struct {
	ID         string
	Content    string
	Similarity float32
	Metadata   map[string]string
}

// Options configure a KnowledgeBase.
type Options struct {
	// PersistPath enables on-disk persistence when non-empty.
	PersistPath string
	// TopK is the default number of passages returned by Search.
	TopK int
	// MinSimilarity filters out weak matches (0 disables filtering).
	MinSimilarity float32
}

// KnowledgeBase is an embedded vector index over documents. Embeddings are
// produced by the injected chromem.EmbeddingFunc; the embedding provider is
// an external collaborator.
type KnowledgeBase struct {
	collection    *chromem.Collection
	topK          int
	minSimilarity float32
}

// NewKnowledgeBase opens (or creates) the named collection.
func NewKnowledgeBase(name string, embed chromem.EmbeddingFunc, optFns ...func(o *Options)) (*KnowledgeBase, error) {
	opts := Options{TopK: 4}
	for _, fn := range optFns {
		fn(&opts)
	}

	var db *chromem.DB
	var err error
	if opts.PersistPath != "" {
		db, err = chromem.NewPersistentDB(filepath.Join(opts.PersistPath, "knowledge.gob"), false)
		if err != nil {
			return nil, fmt.Errorf("open persistent knowledge base: %w", err)
		}
	} else {
		db = chromem.NewDB()
	}

	collection, err := db.GetOrCreateCollection(name, nil, embed)
	if err != nil {
		return nil, fmt.Errorf("open collection %q: %w", name, err)
	}

	return &KnowledgeBase{
		collection:    collection,
		topK:          opts.TopK,
		minSimilarity: opts.MinSimilarity,
	}, nil
}

// AddDocuments indexes the given documents.
func (kb *KnowledgeBase) AddDocuments(ctx context.Context, docs ...Document) error {
	for _, doc := range docs {
		err := kb.collection.AddDocument(ctx, chromem.Document{
			ID:       doc.ID,
			Content:  doc.Content,
			Metadata: doc.Metadata,
		})
		if err != nil {
			return fmt.Errorf("add document %s: %w", doc.ID, err)
		}
	}
	return nil
}

// Count returns the number of indexed documents.
func (kb *KnowledgeBase) Count() int { return kb.collection.Count() }

// Search returns the passages most similar to query, best first. topK <= 0
// falls back to the configured default.
func (kb *KnowledgeBase) Search(ctx context.Context, query string, topK int) ([]Passage, error) {
	if topK <= 0 {
		topK = kb.topK
	}
	// chromem rejects result counts above the collection size.
	if count := kb.collection.Count(); topK > count {
		topK = count
	}
	if topK == 0 {
		return nil, nil
	}

	results, err := kb.collection.Query(ctx, query, topK, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("query knowledge base: %w", err)
	}

	passages := make([]Passage, 0, len(results))
	for _, r := range results {
		if r.Similarity < kb.minSimilarity {
			continue
		}
		passages = append(passages, Passage{
			ID:         r.ID,
			Content:    r.Content,
			Similarity: r.Similarity,
			Metadata:   r.Metadata,
		})
	}
	return passages, nil
}
