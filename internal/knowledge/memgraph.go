package knowledge

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// MemgraphStore persists documents as :Document nodes in Memgraph with the
// embedding attached as a float list property. Ranking still happens in the
// retriever; this backend only supplies durable CRUD and scans.
type MemgraphStore struct {
	driver     neo4j.DriverWithContext
	identifier string
}

func NewMemgraphStore(ctx context.Context, uri, username, password, collection string) (*MemgraphStore, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, err
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		return nil, err
	}
	log.Println("Connected to Memgraph")

	s := &MemgraphStore{driver: driver, identifier: collection}
	if err := s.buildIndices(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *MemgraphStore) Close(ctx context.Context) error {
	return s.driver.Close(ctx)
}

func (s *MemgraphStore) buildIndices(ctx context.Context) error {
	queries := []string{
		"CREATE INDEX ON :Document(id);",
		"CREATE INDEX ON :Document(collection);",
	}
	for _, q := range queries {
		if _, err := s.execute(ctx, q, nil); err != nil {
			// Index may already exist.
			log.Printf("Warning: failed to create index '%s': %v", q, err)
		}
	}
	return nil
}

func (s *MemgraphStore) execute(ctx context.Context, query string, params map[string]any) (neo4j.EagerResult, error) {
	result, err := neo4j.ExecuteQuery(ctx, s.driver, query, params, neo4j.EagerResultTransformer)
	if err != nil {
		return neo4j.EagerResult{}, fmt.Errorf("failed to execute query: %w", err)
	}
	return *result, nil
}

func (s *MemgraphStore) params(doc StoredDocument) map[string]any {
	meta, _ := json.Marshal(doc.Metadata)
	embedding := make([]float64, len(doc.Embedding))
	for i, v := range doc.Embedding {
		embedding[i] = float64(v)
	}
	return map[string]any{
		"id":         doc.ID,
		"collection": s.identifier,
		"content":    doc.Content,
		"metadata":   string(meta),
		"embedding":  embedding,
	}
}

func (s *MemgraphStore) Insert(ctx context.Context, doc StoredDocument) error {
	query := `
		MERGE (d:Document {id: $id, collection: $collection})
		SET d.content = $content, d.metadata = $metadata, d.embedding = $embedding
	`
	_, err := s.execute(ctx, query, s.params(doc))
	return err
}

func (s *MemgraphStore) Replace(ctx context.Context, doc StoredDocument) error {
	query := `
		MATCH (d:Document {id: $id, collection: $collection})
		SET d.content = $content, d.metadata = $metadata, d.embedding = $embedding
		RETURN d.id AS id
	`
	res, err := s.execute(ctx, query, s.params(doc))
	if err != nil {
		return err
	}
	if len(res.Records) == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MemgraphStore) Remove(ctx context.Context, id string) error {
	query := `MATCH (d:Document {id: $id, collection: $collection}) DETACH DELETE d`
	_, err := s.execute(ctx, query, map[string]any{"id": id, "collection": s.identifier})
	return err
}

func (s *MemgraphStore) Get(ctx context.Context, id string) (StoredDocument, bool, error) {
	query := `
		MATCH (d:Document {id: $id, collection: $collection})
		RETURN d.id AS id, d.content AS content, d.metadata AS metadata, d.embedding AS embedding
	`
	res, err := s.execute(ctx, query, map[string]any{"id": id, "collection": s.identifier})
	if err != nil {
		return StoredDocument{}, false, err
	}
	if len(res.Records) == 0 {
		return StoredDocument{}, false, nil
	}
	return recordToDocument(res.Records[0]), true, nil
}

func (s *MemgraphStore) All(ctx context.Context) ([]StoredDocument, error) {
	query := `
		MATCH (d:Document {collection: $collection})
		RETURN d.id AS id, d.content AS content, d.metadata AS metadata, d.embedding AS embedding
		ORDER BY d.id
	`
	res, err := s.execute(ctx, query, map[string]any{"collection": s.identifier})
	if err != nil {
		return nil, err
	}
	docs := make([]StoredDocument, 0, len(res.Records))
	for _, rec := range res.Records {
		docs = append(docs, recordToDocument(rec))
	}
	return docs, nil
}

func (s *MemgraphStore) Count(ctx context.Context) (int, error) {
	res, err := s.execute(ctx, `MATCH (d:Document {collection: $collection}) RETURN count(d) AS n`,
		map[string]any{"collection": s.identifier})
	if err != nil {
		return 0, err
	}
	if len(res.Records) == 0 {
		return 0, nil
	}
	n, _ := res.Records[0].Get("n")
	count, _ := n.(int64)
	return int(count), nil
}

func (s *MemgraphStore) Identifier() string {
	return s.identifier
}

func recordToDocument(rec *neo4j.Record) StoredDocument {
	var doc StoredDocument

	if v, ok := rec.Get("id"); ok {
		doc.ID, _ = v.(string)
	}
	if v, ok := rec.Get("content"); ok {
		doc.Content, _ = v.(string)
	}
	if v, ok := rec.Get("metadata"); ok {
		if raw, ok := v.(string); ok && raw != "" {
			_ = json.Unmarshal([]byte(raw), &doc.Metadata)
		}
	}
	if v, ok := rec.Get("embedding"); ok {
		if values, ok := v.([]any); ok {
			doc.Embedding = make([]float32, 0, len(values))
			for _, f := range values {
				if fv, ok := f.(float64); ok {
					doc.Embedding = append(doc.Embedding, float32(fv))
				}
			}
		}
	}
	return doc
}
