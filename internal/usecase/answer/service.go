// Package answer implements the question answering flow: retrieve the most
// relevant chunks for a tenant's question and generate a grounded answer.
package answer

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/docqa/internal/domain"
	"github.com/kailas-cloud/docqa/internal/logger"
)

// Answer is the outcome of one question, with the measured pipeline latency
// in seconds rounded to two decimals.
type Answer struct {
	Text    string
	Latency float64
}

// Service answers questions against a tenant's ingested documents.
type Service struct {
	embedder  Embedder
	retriever Retriever
	generator Generator
	recorder  Recorder
	topK      int
	now       func() time.Time
}

// New creates an answering service retrieving topK chunks per question.
func New(embedder Embedder, retriever Retriever, generator Generator, recorder Recorder, topK int) *Service {
	return &Service{
		embedder:  embedder,
		retriever: retriever,
		generator: generator,
		recorder:  recorder,
		topK:      topK,
		now:       time.Now,
	}
}

// Ask answers a question using the tenant's namespace. The namespace must have
// at least one ingested document. Every successful answer is recorded in the
// audit log before it is returned.
func (s *Service) Ask(ctx context.Context, namespace, tenant, question string) (Answer, error) {
	exists, err := s.retriever.Exists(ctx, namespace)
	if err != nil {
		return Answer{}, fmt.Errorf("check namespace: %w", err)
	}
	if !exists {
		return Answer{}, fmt.Errorf("namespace %s: %w", namespace, domain.ErrNamespaceNotFound)
	}

	start := s.now()

	embedded, err := s.embedder.Embed(ctx, question)
	if err != nil {
		return Answer{}, fmt.Errorf("embed question: %w", err)
	}

	chunks, err := s.retriever.Query(ctx, namespace, embedded.Embedding, s.topK)
	if err != nil {
		return Answer{}, fmt.Errorf("retrieve: %w", err)
	}

	contexts := make([]string, len(chunks))
	for i, c := range chunks {
		contexts[i] = c.Text
	}

	text, err := s.generator.Generate(ctx, question, contexts)
	if err != nil {
		return Answer{}, fmt.Errorf("generate: %w", err)
	}

	latency := roundLatency(s.now().Sub(start).Seconds())

	entry := domain.LogEntry{
		Tenant:    tenant,
		Question:  question,
		Answer:    text,
		Timestamp: s.now(),
		Latency:   latency,
	}
	if err := s.recorder.Record(ctx, entry); err != nil {
		return Answer{}, fmt.Errorf("record answer: %w", err)
	}

	logger.FromContext(ctx).Info("question answered",
		zap.String("namespace", namespace),
		zap.Int("contexts", len(contexts)),
		zap.Float64("latency_seconds", latency),
	)

	return Answer{Text: text, Latency: latency}, nil
}

func roundLatency(seconds float64) float64 {
	return math.Round(seconds*100) / 100
}
