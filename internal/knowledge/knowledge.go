// Package knowledge is the semantic knowledge base: free-text documents with
// metadata tags, retrieved by nearest-neighbor search over an embedding
// space. The retriever owns its document set exclusively.
package knowledge

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("document not found")

// Document is one retrievable fact. IDs are caller-opaque.
type Document struct {
	ID       string            `json:"id"`
	Content  string            `json:"content"`
	Metadata map[string]string `json:"metadata"`
}

// StoredDocument pairs a document with its embedding, nil when no embedder
// was available at write time.
type StoredDocument struct {
	Document
	Embedding []float32
}

// Match is one retrieval hit; higher score means more relevant.
type Match struct {
	Document Document `json:"document"`
	Score    float64  `json:"score"`
}

// Stats describes the backing store.
type Stats struct {
	DocumentCount   int    `json:"document_count"`
	StoreIdentifier string `json:"store_identifier"`
}

// Store is the persistence capability the retriever requires: keyed CRUD
// plus a full scan for ranking. Backends hold at most a few hundred
// documents, so ranking over a scan is a bounded local computation.
type Store interface {
	Insert(ctx context.Context, doc StoredDocument) error
	Replace(ctx context.Context, doc StoredDocument) error
	Remove(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (StoredDocument, bool, error)
	All(ctx context.Context) ([]StoredDocument, error)
	Count(ctx context.Context) (int, error)
	Identifier() string
}
