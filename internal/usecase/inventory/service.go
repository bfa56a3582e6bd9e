// Package inventory reports what a tenant has ingested.
package inventory

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/docqa/internal/domain"
)

// Service summarizes the contents of a tenant's namespace.
type Service struct {
	repo Repository
}

func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// Describe returns the chunk count and source filenames for a namespace.
// A namespace with no ingested documents yields ErrNamespaceNotFound.
func (s *Service) Describe(ctx context.Context, namespace string) (domain.Summary, error) {
	exists, err := s.repo.Exists(ctx, namespace)
	if err != nil {
		return domain.Summary{}, fmt.Errorf("check namespace: %w", err)
	}
	if !exists {
		return domain.Summary{}, fmt.Errorf("namespace %s: %w", namespace, domain.ErrNamespaceNotFound)
	}
	return s.repo.Describe(ctx, namespace)
}
