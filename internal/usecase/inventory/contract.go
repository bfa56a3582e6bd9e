package inventory

import (
	"context"

	"github.com/kailas-cloud/docqa/internal/domain"
)

// Repository exposes namespace level views of the vector store.
type Repository interface {
	Exists(ctx context.Context, namespace string) (bool, error)
	Describe(ctx context.Context, namespace string) (domain.Summary, error)
}
