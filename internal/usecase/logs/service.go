// Package logs serves the per tenant question audit trail.
package logs

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/docqa/internal/domain"
)

// Service lists audit entries scoped to one tenant.
type Service struct {
	store Store
}

func New(store Store) *Service {
	return &Service{store: store}
}

// List returns the tenant's question history in insertion order. A tenant
// with no history gets an empty slice, not an error.
func (s *Service) List(ctx context.Context, tenant string) ([]domain.LogEntry, error) {
	entries, err := s.store.ListFor(ctx, tenant)
	if err != nil {
		return nil, fmt.Errorf("list logs: %w", err)
	}
	return entries, nil
}
