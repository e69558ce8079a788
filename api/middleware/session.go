package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/amara-naturals/storefront-backend/pkg/logger"
)

const (
	sessionIDHeader = "X-Session-Id"
	sessionCookie   = "amara_session"
	sessionMaxAge   = 60 * 60 * 24 * 180 // 180 days
)

// CartSession resolves the caller's cart session identifier. The header wins
// over the cookie so API clients can pin a session explicitly; browsers fall
// back to the cookie. First-time callers get a fresh identifier, echoed in
// both the response header and the cookie.
func CartSession(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := sanitizeSessionID(r.Header.Get(sessionIDHeader))
			if sessionID == "" {
				if c, err := r.Cookie(sessionCookie); err == nil {
					sessionID = sanitizeSessionID(c.Value)
				}
			}
			if sessionID == "" {
				sessionID = uuid.NewString()
			}

			http.SetCookie(w, &http.Cookie{
				Name:     sessionCookie,
				Value:    sessionID,
				Path:     "/",
				MaxAge:   sessionMaxAge,
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
			w.Header().Set(sessionIDHeader, sessionID)

			ctx := WithSessionID(r.Context(), sessionID)
			if logg != nil {
				ctx = logg.WithSessionID(ctx, sessionID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func sanitizeSessionID(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || len(raw) > 128 {
		return ""
	}
	for _, r := range raw {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return ""
		}
	}
	return raw
}
