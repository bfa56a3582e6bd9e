// Package vector persists embedded chunks in per-namespace Redis FT indexes.
package vector

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/google/uuid"

	"github.com/kailas-cloud/docqa/internal/db"
	"github.com/kailas-cloud/docqa/internal/domain"
	"github.com/kailas-cloud/docqa/internal/domain/chunk"
)

// KeyPrefix namespaces all docqa keys in the shared Redis instance.
const KeyPrefix = "docqa:"

// store is the consumer interface for the vector repository (ISP).
type store interface {
	ApplyBatch(ctx context.Context, batch *db.WriteBatch) error
	Del(ctx context.Context, key string) error
	SMembers(ctx context.Context, key string) ([]string, error)
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
	SearchCount(ctx context.Context, index, query string) (int, error)
}

// Repo stores chunk hashes under docqa:<namespace>:<id> and maintains one FT
// index per namespace. The namespace transitions absent -> present on the
// first successful upsert; there is no explicit create operation.
type Repo struct {
	store     store
	vectorDim int
}

// New creates a vector repository.
func New(s store, vectorDim int) *Repo {
	return &Repo{store: s, vectorDim: vectorDim}
}

// Upsert writes a batch of embedded chunks into the namespace. Chunk hashes
// and the sources set go out as one transaction, and the index is created only
// after the data lands, so a failed upload never leaves the namespace present
// or half-written.
func (r *Repo) Upsert(ctx context.Context, namespace string, chunks []chunk.Embedded) error {
	if len(chunks) == 0 {
		return nil
	}

	existed, err := r.store.IndexExists(ctx, indexName(namespace))
	if err != nil {
		return fmt.Errorf("index exists %s: %w: %w", namespace, domain.ErrStorageWrite, err)
	}

	batch := &db.WriteBatch{
		Hashes: make([]db.HashSetItem, len(chunks)),
		SetKey: sourcesKey(namespace),
	}
	seen := make(map[string]struct{}, 1)
	for i, c := range chunks {
		batch.Hashes[i] = db.HashSetItem{
			Key: chunkKey(namespace, uuid.NewString()),
			Fields: map[string]string{
				"content":  c.Text,
				"source":   c.Source,
				"position": strconv.Itoa(c.Position),
				"vector":   vectorToBytes(c.Vector),
			},
		}
		if _, ok := seen[c.Source]; !ok {
			seen[c.Source] = struct{}{}
			batch.SetMembers = append(batch.SetMembers, c.Source)
		}
	}

	if err := r.store.ApplyBatch(ctx, batch); err != nil {
		return fmt.Errorf("upsert %d chunks into %s: %w: %w", len(chunks), namespace, domain.ErrStorageWrite, err)
	}

	if !existed {
		if err := r.ensureIndex(ctx, namespace); err != nil {
			// Without the index the namespace is invisible; drop the written
			// keys so a later successful ingest does not surface them.
			r.discard(ctx, batch)
			return fmt.Errorf("ensure index %s: %w: %w", namespace, domain.ErrStorageWrite, err)
		}
	}

	return nil
}

// Query returns the top-k chunks most similar to the query vector.
func (r *Repo) Query(ctx context.Context, namespace string, vector []float32, k int) ([]chunk.Chunk, error) {
	result, err := r.store.SearchKNN(ctx, &db.KNNQuery{
		IndexName:    indexName(namespace),
		Vector:       vector,
		K:            k,
		ReturnFields: []string{"content", "source", "position", "__vector_score"},
	})
	if err != nil {
		if errors.Is(err, db.ErrIndexNotFound) {
			return nil, fmt.Errorf("namespace %s: %w", namespace, domain.ErrNamespaceNotFound)
		}
		return nil, fmt.Errorf("knn search %s: %w: %w", namespace, domain.ErrRetrieval, err)
	}

	chunks := make([]chunk.Chunk, 0, len(result.Entries))
	for _, e := range result.Entries {
		pos, _ := strconv.Atoi(e.Fields["position"])
		chunks = append(chunks, chunk.Chunk{
			Text:     e.Fields["content"],
			Source:   e.Fields["source"],
			Position: pos,
		})
	}
	return chunks, nil
}

// Exists reports whether the namespace has ingested content.
func (r *Repo) Exists(ctx context.Context, namespace string) (bool, error) {
	ok, err := r.store.IndexExists(ctx, indexName(namespace))
	if err != nil {
		return false, fmt.Errorf("index exists %s: %w", namespace, err)
	}
	return ok, nil
}

// Describe summarizes the namespace contents.
func (r *Repo) Describe(ctx context.Context, namespace string) (domain.Summary, error) {
	count, err := r.store.SearchCount(ctx, indexName(namespace), "*")
	if err != nil {
		if errors.Is(err, db.ErrIndexNotFound) {
			return domain.Summary{}, fmt.Errorf("namespace %s: %w", namespace, domain.ErrNamespaceNotFound)
		}
		return domain.Summary{}, fmt.Errorf("count chunks %s: %w", namespace, err)
	}

	sources, err := r.store.SMembers(ctx, sourcesKey(namespace))
	if err != nil {
		return domain.Summary{}, fmt.Errorf("list sources %s: %w", namespace, err)
	}

	return domain.Summary{
		Namespace:  namespace,
		ChunkCount: count,
		Sources:    sources,
	}, nil
}

// ensureIndex creates the namespace index if it does not exist yet.
// Concurrent creators race benignly: the loser gets ErrIndexExists.
func (r *Repo) ensureIndex(ctx context.Context, namespace string) error {
	err := r.store.CreateIndex(ctx, &db.IndexDefinition{
		Name:        indexName(namespace),
		Prefixes:    []string{KeyPrefix + namespace + ":"},
		VectorDim:   r.vectorDim,
		VectorField: "vector",
		SourceField: "source",
	})
	if err != nil && !errors.Is(err, db.ErrIndexExists) {
		return err
	}
	return nil
}

// discard best-effort deletes a batch written for a namespace whose index
// never materialized. Only called when the namespace did not exist before, so
// deleting the sources set removes nothing but this batch's entries.
func (r *Repo) discard(ctx context.Context, batch *db.WriteBatch) {
	for _, item := range batch.Hashes {
		_ = r.store.Del(ctx, item.Key)
	}
	_ = r.store.Del(ctx, batch.SetKey)
}

func chunkKey(namespace, id string) string {
	return KeyPrefix + namespace + ":" + id
}

func sourcesKey(namespace string) string {
	return KeyPrefix + namespace + ":sources"
}

func indexName(namespace string) string {
	return KeyPrefix + namespace + ":idx"
}

func vectorToBytes(v []float32) string {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return string(buf)
}
