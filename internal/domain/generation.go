package domain

import "context"

// Generator synthesizes a natural-language answer grounded in retrieved context.
type Generator interface {
	Generate(ctx context.Context, question string, contexts []string) (string, error)
}
