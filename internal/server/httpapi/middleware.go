package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/rmaksimov/videotube/internal/server/auth"
	"github.com/rmaksimov/videotube/internal/server/models"
)

type ctxKey string

const userKey ctxKey = "user"

// CurrentUser returns the authenticated identity attached by requireAuth,
// or nil outside a guarded route.
func CurrentUser(ctx context.Context) *models.User {
	u, _ := ctx.Value(userKey).(*models.User)
	return u
}

// bearerToken extracts the access token from the request: the accessToken
// cookie takes precedence, then the Authorization: Bearer header.
func bearerToken(r *http.Request) string {
	if c, err := r.Cookie(accessTokenCookie); err == nil && c.Value != "" {
		return c.Value
	}
	h := r.Header.Get("Authorization")
	if after, ok := strings.CutPrefix(h, "Bearer "); ok {
		return strings.TrimSpace(after)
	}
	return ""
}

// requireAuth gates protected routes. Every failure mode (missing token,
// bad signature, expiry, wrong purpose, deleted user) produces the same
// generic 401 so a caller cannot probe which check failed.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			s.unauthorized(r.Context(), w)
			return
		}

		userID, err := s.codec.Verify(token, auth.PurposeAccess)
		if err != nil {
			s.logger.Debug(r.Context(), "access token rejected", "reason", err.Error())
			s.unauthorized(r.Context(), w)
			return
		}

		user, err := s.users.GetByID(r.Context(), userID)
		if err != nil {
			s.logger.Debug(r.Context(), "token subject not found", "user_id", userID)
			s.unauthorized(r.Context(), w)
			return
		}

		ctx := context.WithValue(r.Context(), userKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) unauthorized(ctx context.Context, w http.ResponseWriter) {
	s.writeJSON(ctx, w, http.StatusUnauthorized, nil, "unauthorized request")
}
