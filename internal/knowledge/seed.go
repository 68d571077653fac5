package knowledge

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
)

// defaultDocuments is the built-in knowledge base: provider pricing facts
// and cost-optimization guidance.
func defaultDocuments() []Document {
	return []Document{
		{
			Content:  "AWS P3 instances carry V100 GPUs for machine learning workloads. Pricing: p3.2xlarge $3.06/hr, p3.8xlarge $12.24/hr.",
			Metadata: map[string]string{"provider": "AWS", "gpu_type": "V100"},
		},
		{
			Content:  "Azure NC series carries K80 GPUs. Pricing: NC6 $0.90/hr, NC12 $1.80/hr, NC24 $3.60/hr.",
			Metadata: map[string]string{"provider": "Azure", "gpu_type": "K80"},
		},
		{
			Content:  "GCP offers K80 GPUs attached to n1 machine types. Pricing: n1-standard-8 $0.70/hr, n1-standard-16 $1.40/hr.",
			Metadata: map[string]string{"provider": "GCP", "gpu_type": "K80"},
		},
		{
			Content:  "Cost optimization tips: use spot instances for interruptible work, right-size the instance for the model, and consider reserved instances for steady workloads.",
			Metadata: map[string]string{"topic": "cost_optimization"},
		},
	}
}

// LoadSeed reads a flat JSON list of {id, content, metadata} documents.
func LoadSeed(path string) ([]Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read knowledge seed '%s': %w", path, err)
	}
	var docs []Document
	if err := json.Unmarshal(raw, &docs); err != nil {
		return nil, fmt.Errorf("failed to parse knowledge seed '%s': %w", path, err)
	}
	return docs, nil
}

// Populate seeds the retriever from a file, or from the built-in documents
// when no file is configured or readable. Documents that already carry an id
// keep it. A non-empty store is left untouched.
func (r *Retriever) Populate(ctx context.Context, seedPath string) error {
	stats, err := r.Stats(ctx)
	if err != nil {
		return err
	}
	if stats.DocumentCount > 0 {
		return nil
	}

	docs := defaultDocuments()
	if seedPath != "" {
		loaded, err := LoadSeed(seedPath)
		if err != nil {
			log.Printf("Warning: %v, falling back to built-in knowledge documents", err)
		} else {
			docs = loaded
		}
	}

	for _, doc := range docs {
		if doc.ID == "" {
			if _, err := r.Add(ctx, doc.Content, doc.Metadata); err != nil {
				return err
			}
			continue
		}
		r.writeMu.Lock()
		err := r.store.Insert(ctx, StoredDocument{Document: doc, Embedding: r.embed(ctx, doc.Content)})
		r.writeMu.Unlock()
		if err != nil {
			return err
		}
	}
	log.Printf("Knowledge base seeded with %d documents", len(docs))
	return nil
}
