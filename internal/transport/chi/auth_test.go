package chi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kailas-cloud/docqa/internal/domain"
)

type mockAuthenticator struct {
	fn func(ctx context.Context, email, password string) (string, error)
}

func (m *mockAuthenticator) Authenticate(ctx context.Context, email, password string) (string, error) {
	if m.fn != nil {
		return m.fn(ctx, email, password)
	}
	return email, nil
}

func identityEchoHandler(t *testing.T, want string) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := IdentityFromContext(r.Context()); got != want {
			t.Errorf("identity in context: got %q, want %q", got, want)
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthMiddleware_ValidCredentials_200(t *testing.T) {
	mw := BasicAuthMiddleware(&mockAuthenticator{})
	handler := mw(identityEchoHandler(t, "user@example.com"))

	req := httptest.NewRequest("GET", "/files", http.NoBody)
	req.SetBasicAuth("user@example.com", "secret")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("valid credentials: got %d, want %d", rr.Code, http.StatusOK)
	}
}

func TestAuthMiddleware_MissingCredentials_401(t *testing.T) {
	mw := BasicAuthMiddleware(&mockAuthenticator{})
	handler := mw(http.NotFoundHandler())

	req := httptest.NewRequest("GET", "/files", http.NoBody)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("missing credentials: got %d, want %d", rr.Code, http.StatusUnauthorized)
	}
	if rr.Header().Get("WWW-Authenticate") == "" {
		t.Error("expected WWW-Authenticate header")
	}

	var errResp ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&errResp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if errResp.Code != CodeInvalidCredentials {
		t.Errorf("error code: got %s, want %s", errResp.Code, CodeInvalidCredentials)
	}
}

func TestAuthMiddleware_WrongPassword_401(t *testing.T) {
	auth := &mockAuthenticator{fn: func(_ context.Context, _, _ string) (string, error) {
		return "", domain.ErrInvalidCredentials
	}}
	mw := BasicAuthMiddleware(auth)
	handler := mw(http.NotFoundHandler())

	req := httptest.NewRequest("GET", "/files", http.NoBody)
	req.SetBasicAuth("user@example.com", "wrong")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("wrong password: got %d, want %d", rr.Code, http.StatusUnauthorized)
	}
}

func TestAuthMiddleware_ExemptPaths(t *testing.T) {
	auth := &mockAuthenticator{fn: func(_ context.Context, _, _ string) (string, error) {
		t.Error("authenticator must not be called for exempt paths")
		return "", domain.ErrInvalidCredentials
	}}
	mw := BasicAuthMiddleware(auth)
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for _, path := range []string{"/health", "/metrics"} {
		req := httptest.NewRequest("GET", path, http.NoBody)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Errorf("exempt path %s: got %d, want %d", path, rr.Code, http.StatusOK)
		}
	}
}

func TestIdentityFromContext_Unauthenticated(t *testing.T) {
	if got := IdentityFromContext(context.Background()); got != "" {
		t.Errorf("expected empty identity, got %q", got)
	}
}
