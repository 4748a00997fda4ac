// Package auth provides JWT-tokens issuing/parsing and the request-guard middleware
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/UnendingLoop/ImageManager/internal/model"
	"github.com/golang-jwt/jwt/v5"
)

type principalKey struct{}

// UserProvider - резолв принципала из токена в реального пользователя
type UserProvider interface {
	GetByUsername(ctx context.Context, username string) (*model.User, error)
}

type Manager struct {
	secret []byte
	ttl    time.Duration
}

func NewManager(secret string, ttl time.Duration) *Manager {
	return &Manager{secret: []byte(secret), ttl: ttl}
}

// NewToken - HS256, клеймы sub+exp как в классическом bearer-флоу
func (m *Manager) NewToken(username string) (string, error) {
	claims := jwt.MapClaims{
		"sub": username,
		"exp": time.Now().Add(m.ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// Parse - возвращает username из валидного токена
func (m *Manager) Parse(tokenStr string) (string, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid {
		return "", model.ErrUnauthorized
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", model.ErrUnauthorized
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return "", model.ErrUnauthorized
	}

	return sub, nil
}

// Guard - закрывает все эндпоинты кроме пинга и auth-флоу:
// без валидного принципала запрос до оркестратора не доходит
func (m *Manager) Guard(next http.Handler, users UserProvider) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isPublicPath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		header := r.Header.Get("Authorization")
		tokenStr, found := strings.CutPrefix(header, "Bearer ")
		if !found || tokenStr == "" {
			writeUnauthorized(w)
			return
		}

		username, err := m.Parse(tokenStr)
		if err != nil {
			writeUnauthorized(w)
			return
		}

		user, err := users.GetByUsername(r.Context(), username)
		if err != nil {
			writeUnauthorized(w)
			return
		}

		ctx := context.WithValue(r.Context(), principalKey{}, user.Username)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// PrincipalFromContext - username аутентифицированного пользователя
func PrincipalFromContext(ctx context.Context) (string, error) {
	if username, ok := ctx.Value(principalKey{}).(string); ok && username != "" {
		return username, nil
	}
	return "", errors.New("no principal in context")
}

func isPublicPath(path string) bool {
	return path == "/ping" || strings.HasPrefix(path, "/api/v1/auth/")
}

func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	if err := json.NewEncoder(w).Encode(map[string]string{"error": model.ErrUnauthorized.Error()}); err != nil {
		log.Println("Failed to write 401 response:", err)
	}
}
