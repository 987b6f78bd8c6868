package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/motorline/motorline-go/internal/crypto"
	"github.com/motorline/motorline-go/internal/model"
	"github.com/motorline/motorline-go/internal/repository"
)

type stubUserStore struct {
	users map[string]*model.User
}

func (s *stubUserStore) GetByID(_ context.Context, id string) (*model.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return u, nil
}

func newAuthFixture(t *testing.T) (*crypto.TokenIssuer, *stubUserStore, http.Handler) {
	t.Helper()

	tokens := crypto.NewTokenIssuer("test-secret", time.Hour, 24*time.Hour, 0)
	store := &stubUserStore{users: map[string]*model.User{
		"user-1": {ID: "user-1", Username: "alice", Active: true},
		"user-2": {ID: "user-2", Username: "carol", Active: false},
	}}

	handler := Authenticate(tokens, store)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok {
			t.Error("handler reached without user in context")
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(user.Username))
	}))

	return tokens, store, handler
}

func doRequest(handler http.Handler, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestAuthenticate_ValidToken(t *testing.T) {
	tokens, _, handler := newAuthFixture(t)

	token, err := tokens.IssueAccess("user-1")
	if err != nil {
		t.Fatalf("IssueAccess() unexpected error: %v", err)
	}

	rec := doRequest(handler, "Bearer "+token)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body: %s)", rec.Code, http.StatusOK, rec.Body.String())
	}
	if rec.Body.String() != "alice" {
		t.Errorf("resolved user = %q, want %q", rec.Body.String(), "alice")
	}
}

func TestAuthenticate_MissingOrMalformedHeader(t *testing.T) {
	_, _, handler := newAuthFixture(t)

	tests := []struct {
		name   string
		header string
	}{
		{name: "no header", header: ""},
		{name: "wrong scheme", header: "Basic abc123"},
		{name: "bare bearer", header: "Bearer "},
		{name: "missing scheme", header: "sometoken"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(handler, tt.header)
			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
			}
		})
	}
}

func TestAuthenticate_InvalidToken(t *testing.T) {
	_, _, handler := newAuthFixture(t)

	rec := doRequest(handler, "Bearer not-a-token")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestAuthenticate_ExpiredToken(t *testing.T) {
	_, _, handler := newAuthFixture(t)

	expired := crypto.NewTokenIssuer("test-secret", -time.Minute, 24*time.Hour, 0)
	token, err := expired.IssueAccess("user-1")
	if err != nil {
		t.Fatalf("IssueAccess() unexpected error: %v", err)
	}

	rec := doRequest(handler, "Bearer "+token)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestAuthenticate_RefreshTokenRejected(t *testing.T) {
	tokens, _, handler := newAuthFixture(t)

	token, err := tokens.IssueRefresh("user-1")
	if err != nil {
		t.Fatalf("IssueRefresh() unexpected error: %v", err)
	}

	rec := doRequest(handler, "Bearer "+token)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestAuthenticate_DeletedUser(t *testing.T) {
	tokens, _, handler := newAuthFixture(t)

	// Valid signature, but the subject no longer exists.
	token, err := tokens.IssueAccess("user-gone")
	if err != nil {
		t.Fatalf("IssueAccess() unexpected error: %v", err)
	}

	rec := doRequest(handler, "Bearer "+token)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestAuthenticate_DeactivatedUser(t *testing.T) {
	tokens, _, handler := newAuthFixture(t)

	token, err := tokens.IssueAccess("user-2")
	if err != nil {
		t.Fatalf("IssueAccess() unexpected error: %v", err)
	}

	rec := doRequest(handler, "Bearer "+token)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestUserFromContext_Missing(t *testing.T) {
	if _, ok := UserFromContext(context.Background()); ok {
		t.Error("UserFromContext() reported a user on an empty context")
	}
}
