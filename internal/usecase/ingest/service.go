// Package ingest turns uploaded documents into embedded chunks in the
// tenant's vector namespace.
package ingest

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/docqa/internal/domain/chunk"
	"github.com/kailas-cloud/docqa/internal/logger"
	"github.com/kailas-cloud/docqa/internal/metrics"
)

// Service handles document ingestion: parse, split, embed, upsert.
type Service struct {
	loader   Loader
	embedder Embedder
	repo     Repository
	splitter chunk.Splitter
}

// New creates an ingestion service.
func New(loader Loader, embedder Embedder, repo Repository, splitter chunk.Splitter) *Service {
	return &Service{
		loader:   loader,
		embedder: embedder,
		repo:     repo,
		splitter: splitter,
	}
}

// Ingest loads the document, splits it into overlapping chunks, embeds every
// chunk, and writes the whole batch into the namespace. Returns the number of
// chunks written.
//
// All embeddings are computed before anything is written, and the write is one
// pipelined batch, so a failure leaves no partially ingested upload behind.
// Re-ingesting the same file appends; duplicate chunks are allowed.
func (s *Service) Ingest(ctx context.Context, namespace, filename string, content []byte) (int, error) {
	text, err := s.loader.Load(filename, content)
	if err != nil {
		return 0, fmt.Errorf("load document: %w", err)
	}

	chunks := s.splitter.Split(text, filename)
	if len(chunks) == 0 {
		return 0, nil
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	embedded, err := s.embedder.BatchEmbed(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("embed %d chunks: %w", len(chunks), err)
	}

	batch := make([]chunk.Embedded, len(chunks))
	for i, c := range chunks {
		batch[i] = chunk.Embedded{Chunk: c, Vector: embedded.Embeddings[i]}
	}

	if err := s.repo.Upsert(ctx, namespace, batch); err != nil {
		return 0, fmt.Errorf("upsert into %s: %w", namespace, err)
	}

	metrics.IngestedChunksTotal.Add(float64(len(batch)))
	logger.FromContext(ctx).Info("document ingested",
		zap.String("namespace", namespace),
		zap.String("filename", filename),
		zap.Int("chunks", len(batch)),
		zap.Int("embedding_tokens", embedded.TotalTokens),
	)

	return len(batch), nil
}
