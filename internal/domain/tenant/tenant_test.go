package tenant

import (
	"errors"
	"strings"
	"testing"

	"github.com/kailas-cloud/docqa/internal/domain"
)

func TestResolve_Deterministic(t *testing.T) {
	a, err := Resolve("admin@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := Resolve("admin@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a != b {
		t.Errorf("Resolve is not deterministic: %q vs %q", a, b)
	}
}

func TestResolve_Injective(t *testing.T) {
	// Pairs that collide under naive special-character stripping.
	identities := []string{
		"admin@example.com",
		"admin@example.co.m",
		"a.dmin@example.com",
		"ad.min@example.com",
		"admin@examplecom",
		"user+tag@example.com",
		"usertag@example.com",
	}

	seen := make(map[string]string, len(identities))
	for _, id := range identities {
		ns, err := Resolve(id)
		if err != nil {
			t.Fatalf("Resolve(%q): %v", id, err)
		}
		if prev, ok := seen[ns]; ok {
			t.Errorf("collision: %q and %q both resolve to %q", prev, id, ns)
		}
		seen[ns] = id
	}
}

func TestResolve_SafeCharset(t *testing.T) {
	ns, err := Resolve("Весёлый.Пользователь@пример.рф")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, r := range ns {
		ok := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_'
		if !ok {
			t.Fatalf("namespace %q contains unsafe rune %q", ns, r)
		}
	}
	if !strings.HasPrefix(ns, "docs_") {
		t.Errorf("namespace %q missing docs_ prefix", ns)
	}
}

func TestResolve_EmptyIdentity(t *testing.T) {
	_, err := Resolve("")
	if err == nil {
		t.Fatal("expected error for empty identity")
	}
	if !errors.Is(err, domain.ErrInvalidIdentity) {
		t.Errorf("expected ErrInvalidIdentity, got %v", err)
	}
}

func TestResolve_TooLong(t *testing.T) {
	_, err := Resolve(strings.Repeat("a", 400) + "@example.com")
	if err == nil {
		t.Fatal("expected error for oversized identity")
	}
	if !errors.Is(err, domain.ErrInvalidIdentity) {
		t.Errorf("expected ErrInvalidIdentity, got %v", err)
	}
}

func TestResolve_ControlCharacters(t *testing.T) {
	_, err := Resolve("adm\nin@example.com")
	if err == nil {
		t.Fatal("expected error for control characters")
	}
	if !errors.Is(err, domain.ErrInvalidIdentity) {
		t.Errorf("expected ErrInvalidIdentity, got %v", err)
	}
}

func TestResolve_BoundedLength(t *testing.T) {
	ns, err := Resolve(strings.Repeat("x", 300) + "@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// prefix(5) + slug(<=24) + "_"(1) + digest(12)
	if len(ns) > 42 {
		t.Errorf("namespace too long: %d chars (%q)", len(ns), ns)
	}
}
