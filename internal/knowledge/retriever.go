package knowledge

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/agenthands/gpucost/internal/llm"
)

// DefaultK matches the seed behavior of the knowledge tool: two closest
// documents unless the caller asks for more.
const DefaultK = 2

// Retriever ranks documents from its store by similarity to a query
// embedding. Writes are serialized by a store-level mutex; write volume is
// a handful of documents, never a hot path.
type Retriever struct {
	store    Store
	embedder llm.EmbedderClient

	writeMu sync.Mutex
}

func NewRetriever(store Store, embedder llm.EmbedderClient) *Retriever {
	return &Retriever{store: store, embedder: embedder}
}

func (r *Retriever) embed(ctx context.Context, text string) []float32 {
	if r.embedder == nil {
		return nil
	}
	vec, err := r.embedder.Embed(ctx, text)
	if err != nil {
		// Degrade to keyword scoring rather than failing the write or query.
		return nil
	}
	return vec
}

// Add stores a new document and returns its generated id.
func (r *Retriever) Add(ctx context.Context, content string, metadata map[string]string) (string, error) {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	doc := StoredDocument{
		Document:  Document{ID: uuid.New().String(), Content: content, Metadata: metadata},
		Embedding: r.embed(ctx, content),
	}
	if err := r.store.Insert(ctx, doc); err != nil {
		return "", fmt.Errorf("failed to add document: %w", err)
	}
	return doc.ID, nil
}

// Update replaces a document's content and metadata in place. The id never
// changes; an absent id is ErrNotFound.
func (r *Retriever) Update(ctx context.Context, id string, content string, metadata map[string]string) error {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	doc := StoredDocument{
		Document:  Document{ID: id, Content: content, Metadata: metadata},
		Embedding: r.embed(ctx, content),
	}
	return r.store.Replace(ctx, doc)
}

// Delete removes a document; deleting an absent id is a no-op.
func (r *Retriever) Delete(ctx context.Context, id string) error {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()
	return r.store.Remove(ctx, id)
}

func (r *Retriever) Get(ctx context.Context, id string) (Document, bool, error) {
	doc, ok, err := r.store.Get(ctx, id)
	return doc.Document, ok, err
}

// Retrieve returns up to k documents ordered by decreasing relevance. An
// optional metadata filter restricts candidates before ranking. An empty
// result is not an error.
func (r *Retriever) Retrieve(ctx context.Context, query string, k int, filter map[string]string) ([]Match, error) {
	if k <= 0 {
		if k == 0 {
			return nil, nil
		}
		k = DefaultK
	}

	docs, err := r.store.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to scan knowledge store: %w", err)
	}

	queryVec := r.embed(ctx, query)

	var matches []Match
	for _, doc := range docs {
		if !metadataMatches(doc.Metadata, filter) {
			continue
		}
		matches = append(matches, Match{
			Document: doc.Document,
			Score:    relevance(queryVec, query, doc),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if len(matches) > k {
		matches = matches[:k]
	}
	return matches, nil
}

// Stats reports the document count and the backing store's identity.
func (r *Retriever) Stats(ctx context.Context) (Stats, error) {
	count, err := r.store.Count(ctx)
	if err != nil {
		return Stats{}, err
	}
	return Stats{DocumentCount: count, StoreIdentifier: r.store.Identifier()}, nil
}

func metadataMatches(meta, filter map[string]string) bool {
	for k, v := range filter {
		if meta[k] != v {
			return false
		}
	}
	return true
}

// relevance prefers cosine similarity over embeddings and falls back to
// token overlap when either side has no vector.
func relevance(queryVec []float32, query string, doc StoredDocument) float64 {
	if len(queryVec) > 0 && len(doc.Embedding) > 0 {
		return cosineSimilarity(queryVec, doc.Embedding)
	}
	return tokenOverlap(query, doc.Content)
}

func cosineSimilarity(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

func tokenOverlap(query, content string) float64 {
	queryTokens := strings.Fields(strings.ToLower(query))
	if len(queryTokens) == 0 {
		return 0
	}
	contentTokens := map[string]bool{}
	for _, t := range strings.Fields(strings.ToLower(content)) {
		contentTokens[strings.Trim(t, ".,:;!?()")] = true
	}
	hits := 0
	for _, t := range queryTokens {
		if contentTokens[strings.Trim(t, ".,:;!?()")] {
			hits++
		}
	}
	return float64(hits) / float64(len(queryTokens))
}
