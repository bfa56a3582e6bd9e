package ingest

import (
	"context"

	"github.com/kailas-cloud/docqa/internal/domain"
	"github.com/kailas-cloud/docqa/internal/domain/chunk"
)

// Loader extracts plain text from an uploaded document.
type Loader interface {
	Load(filename string, data []byte) (string, error)
}

// Embedder vectorizes chunk texts in one batch call.
type Embedder interface {
	BatchEmbed(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error)
}

// Repository writes embedded chunks into a tenant namespace.
type Repository interface {
	Upsert(ctx context.Context, namespace string, chunks []chunk.Embedded) error
}
