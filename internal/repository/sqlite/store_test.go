package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/kailas-cloud/docqa/internal/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "docqa.db"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestRecordAndListFor(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	entries := []domain.LogEntry{
		{Tenant: "a@example.com", Question: "q1", Answer: "a1", Timestamp: now, Latency: 0.42},
		{Tenant: "a@example.com", Question: "q2", Answer: "a2", Timestamp: now.Add(time.Minute), Latency: 1.05},
		{Tenant: "b@example.com", Question: "other", Answer: "x", Timestamp: now, Latency: 0.1},
	}
	for _, e := range entries {
		if err := s.Record(ctx, e); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	got, err := s.ListFor(ctx, "a@example.com")
	if err != nil {
		t.Fatalf("ListFor: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 entries for tenant a, got %d", len(got))
	}
	if got[0].Question != "q1" || got[1].Question != "q2" {
		t.Errorf("entries out of insertion order: %q then %q", got[0].Question, got[1].Question)
	}
	if got[0].ID >= got[1].ID {
		t.Errorf("ids not monotonic: %d then %d", got[0].ID, got[1].ID)
	}
	if got[0].Latency != 0.42 {
		t.Errorf("latency mismatch: %v", got[0].Latency)
	}
	if !got[0].Timestamp.Equal(now) {
		t.Errorf("timestamp mismatch: %v", got[0].Timestamp)
	}
}

func TestListFor_EmptyTenant(t *testing.T) {
	s := newTestStore(t)

	got, err := s.ListFor(context.Background(), "nobody@example.com")
	if err != nil {
		t.Fatalf("ListFor: %v", err)
	}
	if got == nil {
		t.Fatal("expected empty slice, got nil")
	}
	if len(got) != 0 {
		t.Errorf("expected 0 entries, got %d", len(got))
	}
}

func TestListFor_TenantIsolation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.Record(ctx, domain.LogEntry{
		Tenant: "a@example.com", Question: "secret", Answer: "s", Timestamp: time.Now(),
	}); err != nil {
		t.Fatalf("Record: %v", err)
	}

	got, err := s.ListFor(ctx, "b@example.com")
	if err != nil {
		t.Fatalf("ListFor: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("tenant b must not see tenant a's entries, got %d", len(got))
	}
}

func TestAuthenticate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.EnsureUser(ctx, "admin@example.com", "123"); err != nil {
		t.Fatalf("EnsureUser: %v", err)
	}

	identity, err := s.Authenticate(ctx, "admin@example.com", "123")
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if identity != "admin@example.com" {
		t.Errorf("unexpected identity %q", identity)
	}
}

func TestAuthenticate_WrongPassword(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.EnsureUser(ctx, "admin@example.com", "123"); err != nil {
		t.Fatalf("EnsureUser: %v", err)
	}

	_, err := s.Authenticate(ctx, "admin@example.com", "wrong")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthenticate_UnknownUser(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Authenticate(context.Background(), "ghost@example.com", "123")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestEnsureUser_Idempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.EnsureUser(ctx, "admin@example.com", "123"); err != nil {
		t.Fatalf("EnsureUser: %v", err)
	}
	// Second call must neither fail nor overwrite the password.
	if err := s.EnsureUser(ctx, "admin@example.com", "different"); err != nil {
		t.Fatalf("EnsureUser second call: %v", err)
	}
	if _, err := s.Authenticate(ctx, "admin@example.com", "123"); err != nil {
		t.Errorf("original password no longer accepted: %v", err)
	}
}
