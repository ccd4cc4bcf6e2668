package auth

import (
	"net/http"
	"strings"

	"Tasker/internal/response"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// SessionCookieName is the cookie holding the session id.
const SessionCookieName = "session_id"

const contextKeyUserID = "user_id"

// UserIDFromContext returns the caller id set by RequireAuth. Empty if not set.
func UserIDFromContext(c *gin.Context) string {
	return c.GetString(contextKeyUserID)
}

// SetUserID records the authenticated caller on the request context.
func SetUserID(c *gin.Context, userID string) {
	c.Set(contextKeyUserID, userID)
}

// RequireAuth returns a middleware that accepts a bearer token or, when
// sessions is not nil, a session cookie, and sets the caller id in context.
// Otherwise it responds with 401.
func RequireAuth(tokens *TokenManager, sessions *Store, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if header := c.GetHeader("Authorization"); header != "" {
			raw, found := strings.CutPrefix(header, "Bearer ")
			if !found {
				response.Fail(c, http.StatusUnauthorized, "Not authorized")
				return
			}
			claims, err := tokens.Parse(strings.TrimSpace(raw))
			if err != nil {
				response.Fail(c, http.StatusUnauthorized, "Not authorized")
				return
			}
			SetUserID(c, claims.Subject)
			c.Next()
			return
		}

		if sessions != nil {
			if sessionID, err := c.Cookie(SessionCookieName); err == nil && sessionID != "" {
				userID, ok, err := sessions.GetUserID(c.Request.Context(), sessionID)
				if err != nil {
					log.WithError(err).Error("session lookup failed")
					response.Fail(c, http.StatusInternalServerError, "Error checking session")
					return
				}
				if ok {
					SetUserID(c, userID)
					c.Next()
					return
				}
			}
		}

		response.Fail(c, http.StatusUnauthorized, "Not authorized")
	}
}
