package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/UnendingLoop/ImageManager/internal/model"
	"github.com/stretchr/testify/require"
)

type mockUsers struct {
	getByUsernameFn func(ctx context.Context, username string) (*model.User, error)
}

func (m *mockUsers) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return m.getByUsernameFn(ctx, username)
}

func TestManager_TokenRoundtrip(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	token, err := m.NewToken("alice")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	username, err := m.Parse(token)
	require.NoError(t, err)
	require.Equal(t, "alice", username)
}

func TestManager_Parse_Invalid(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	tests := []struct {
		name  string
		token func(t *testing.T) string
	}{
		{
			name:  "garbage",
			token: func(t *testing.T) string { return "not-a-jwt" },
		},
		{
			name: "wrong secret",
			token: func(t *testing.T) string {
				other := NewManager("other-secret", time.Hour)
				token, err := other.NewToken("alice")
				require.NoError(t, err)
				return token
			},
		},
		{
			name: "expired",
			token: func(t *testing.T) string {
				expired := NewManager("test-secret", -time.Minute)
				token, err := expired.NewToken("alice")
				require.NoError(t, err)
				return token
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.Parse(tt.token(t))
			require.ErrorIs(t, err, model.ErrUnauthorized)
		})
	}
}

func guardedEcho(t *testing.T, m *Manager, users UserProvider) http.Handler {
	t.Helper()

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, err := PrincipalFromContext(r.Context())
		require.NoError(t, err)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(principal))
	})

	return m.Guard(next, users)
}

func TestGuard_ValidToken(t *testing.T) {
	m := NewManager("test-secret", time.Hour)
	users := &mockUsers{
		getByUsernameFn: func(ctx context.Context, username string) (*model.User, error) {
			require.Equal(t, "alice", username)
			return &model.User{ID: 1, Username: username}, nil
		},
	}

	token, err := m.NewToken("alice")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/images", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()

	guardedEcho(t, m, users).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "alice", w.Body.String())
}

func TestGuard_Unauthorized(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	tests := []struct {
		name   string
		header string
		users  *mockUsers
	}{
		{
			name:   "no header",
			header: "",
		},
		{
			name:   "not a bearer",
			header: "Basic dXNlcjpwYXNz",
		},
		{
			name:   "invalid token",
			header: "Bearer not-a-jwt",
		},
		{
			name:   "user no longer exists",
			header: "Bearer VALID",
			users: &mockUsers{
				getByUsernameFn: func(ctx context.Context, username string) (*model.User, error) {
					return nil, model.ErrUserNotFound
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header := tt.header
			if header == "Bearer VALID" {
				token, err := m.NewToken("ghost")
				require.NoError(t, err)
				header = "Bearer " + token
			}

			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Fatal("request must not reach the handler")
			})

			req := httptest.NewRequest(http.MethodGet, "/api/v1/images", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			w := httptest.NewRecorder()

			m.Guard(next, tt.users).ServeHTTP(w, req)

			require.Equal(t, http.StatusUnauthorized, w.Code)
			require.Contains(t, w.Body.String(), model.ErrUnauthorized.Error())
		})
	}
}

func TestGuard_PublicPaths(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	for _, path := range []string{"/ping", "/api/v1/auth/signup", "/api/v1/auth/token"} {
		t.Run(path, func(t *testing.T) {
			reached := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				reached = true
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodPost, path, nil)
			w := httptest.NewRecorder()

			// users-резолвер не нужен: до него дело не доходит
			m.Guard(next, nil).ServeHTTP(w, req)

			require.True(t, reached)
			require.Equal(t, http.StatusOK, w.Code)
		})
	}
}

func TestPrincipalFromContext_Missing(t *testing.T) {
	_, err := PrincipalFromContext(context.Background())
	require.Error(t, err)
	require.False(t, errors.Is(err, model.ErrUnauthorized))
}
