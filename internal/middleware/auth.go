package middleware

import (
	"context"
	"net/http"

	"github.com/payalife/lms-backend/internal/api/httpx"
	"github.com/payalife/lms-backend/internal/auth"
	"github.com/payalife/lms-backend/internal/models"
	"github.com/payalife/lms-backend/internal/services"
)

type ctxKey string

const (
	ctxUserKey    ctxKey = "user"
	ctxSessionKey ctxKey = "session"
)

// UserFrom returns the authenticated user placed by Auth or OptionalAuth.
func UserFrom(ctx context.Context) (models.User, bool) {
	u, ok := ctx.Value(ctxUserKey).(models.User)
	return u, ok
}

// SessionIDFrom returns the session ID behind the current request's cookie.
func SessionIDFrom(ctx context.Context) (string, bool) {
	s, ok := ctx.Value(ctxSessionKey).(string)
	return s, ok
}

type AuthMiddleware struct {
	svc *services.AuthService
}

func NewAuthMiddleware(svc *services.AuthService) *AuthMiddleware {
	return &AuthMiddleware{svc: svc}
}

// Auth requires a valid session cookie and loads the user into the context.
func (m *AuthMiddleware) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, sessionID, ok := m.resolve(r)
		if !ok {
			httpx.Error(w, http.StatusUnauthorized, "authentication required")
			return
		}
		next.ServeHTTP(w, r.WithContext(withUser(r.Context(), user, sessionID)))
	})
}

// OptionalAuth loads the user when a valid cookie is present but lets
// anonymous requests through. Catalog pages use this to mark enrollment.
func (m *AuthMiddleware) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user, sessionID, ok := m.resolve(r); ok {
			r = r.WithContext(withUser(r.Context(), user, sessionID))
		}
		next.ServeHTTP(w, r)
	})
}

func (m *AuthMiddleware) resolve(r *http.Request) (models.User, string, bool) {
	cookie, err := r.Cookie(auth.CookieName)
	if err != nil || cookie.Value == "" {
		return models.User{}, "", false
	}
	user, sessionID, err := m.svc.Authenticate(r.Context(), cookie.Value)
	if err != nil {
		return models.User{}, "", false
	}
	return user, sessionID, true
}

func withUser(ctx context.Context, user models.User, sessionID string) context.Context {
	ctx = context.WithValue(ctx, ctxUserKey, user)
	return context.WithValue(ctx, ctxSessionKey, sessionID)
}

// RequireRole gates a subtree to the given roles. Runs after Auth.
func RequireRole(roles ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFrom(r.Context())
			if !ok {
				httpx.Error(w, http.StatusUnauthorized, "authentication required")
				return
			}
			for _, role := range roles {
				if user.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			httpx.Error(w, http.StatusForbidden, "insufficient role")
		})
	}
}
