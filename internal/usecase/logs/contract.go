package logs

import (
	"context"

	"github.com/kailas-cloud/docqa/internal/domain"
)

// Store reads persisted audit entries.
type Store interface {
	ListFor(ctx context.Context, tenant string) ([]domain.LogEntry, error)
}
