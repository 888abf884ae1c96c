package follow

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/avink/microgram/internal/auth"
	"github.com/avink/microgram/internal/user"
	mw "github.com/avink/microgram/pkg/middleware"
)

// stubUserRepository serves a fixed set of users
type stubUserRepository struct {
	users map[string]*user.User // keyed by username
}

func (s *stubUserRepository) Create(context.Context, *user.User) error { return nil }

func (s *stubUserRepository) GetByID(_ context.Context, id string) (*user.User, error) {
	for _, u := range s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (s *stubUserRepository) GetByUsername(_ context.Context, username string) (*user.User, error) {
	return s.users[username], nil
}

func (s *stubUserRepository) GetByEmail(context.Context, string) (*user.User, error) {
	return nil, nil
}

func (s *stubUserRepository) List(context.Context, int, int) ([]*user.User, int, error) {
	return nil, 0, nil
}

func newTestRouter(t *testing.T) (http.Handler, *auth.TokenService) {
	t.Helper()

	tokens := auth.NewTokenService("test-secret", 30*time.Minute)
	hasher := auth.NewPasswordHasher(bcrypt.MinCost)
	users := user.NewService(&stubUserRepository{users: map[string]*user.User{
		"alice": {ID: "id-alice", Username: "alice"},
		"bob":   {ID: "id-bob", Username: "bob"},
	}}, hasher, tokens)

	handler := NewHandler(NewService(newMemoryRepository("id-alice", "id-bob")), users)

	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(mw.Authenticator(tokens))
		r.Post("/follow/{user_id}", handler.Follow)
		r.Post("/unfollow/{user_id}", handler.Unfollow)
	})
	return r, tokens
}

func doFollow(t *testing.T, router http.Handler, token, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestFollowEndpoint(t *testing.T) {
	router, tokens := newTestRouter(t)
	token, err := tokens.Issue("alice")
	require.NoError(t, err)

	rec := doFollow(t, router, token, "/follow/id-bob")
	assert.Equal(t, http.StatusOK, rec.Code)

	// Duplicate follow maps to a client error.
	rec = doFollow(t, router, token, "/follow/id-bob")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFollowEndpointRejectsSelf(t *testing.T) {
	router, tokens := newTestRouter(t)
	token, err := tokens.Issue("alice")
	require.NoError(t, err)

	rec := doFollow(t, router, token, "/follow/id-alice")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFollowEndpointRequiresAuth(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doFollow(t, router, "", "/follow/id-bob")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestFollowEndpointUnknownTarget(t *testing.T) {
	router, tokens := newTestRouter(t)
	token, err := tokens.Issue("alice")
	require.NoError(t, err)

	rec := doFollow(t, router, token, "/follow/id-ghost")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUnfollowEndpoint(t *testing.T) {
	router, tokens := newTestRouter(t)
	token, err := tokens.Issue("alice")
	require.NoError(t, err)

	// Unfollow before following maps to a client error.
	rec := doFollow(t, router, token, "/unfollow/id-bob")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doFollow(t, router, token, "/follow/id-bob")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doFollow(t, router, token, "/unfollow/id-bob")
	assert.Equal(t, http.StatusOK, rec.Code)
}
