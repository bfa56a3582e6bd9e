package answer

import (
	"context"

	"github.com/kailas-cloud/docqa/internal/domain"
	"github.com/kailas-cloud/docqa/internal/domain/chunk"
)

// Embedder vectorizes the incoming question.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// Retriever finds the chunks closest to a query vector within a namespace.
type Retriever interface {
	Exists(ctx context.Context, namespace string) (bool, error)
	Query(ctx context.Context, namespace string, vector []float32, k int) ([]chunk.Chunk, error)
}

// Generator produces an answer grounded in the retrieved contexts.
type Generator interface {
	Generate(ctx context.Context, question string, contexts []string) (string, error)
}

// Recorder persists one audit entry per answered question.
type Recorder interface {
	Record(ctx context.Context, e domain.LogEntry) error
}
