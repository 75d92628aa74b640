package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"edalens/domain/core"
	"edalens/internal/session"
)

// SessionCookie carries the browser's session ID
const SessionCookie = "eda_session"

const sessionKey = "edalens.session"

// EnsureSession resolves the session cookie, issuing a new ID when it is missing or malformed,
// and marks the session as seen
func EnsureSession(store *session.Store, secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var id core.SessionID
		if raw, err := c.Cookie(SessionCookie); err == nil {
			id, _ = core.ParseSessionID(raw)
		}
		if id == "" {
			id = core.NewSessionID()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(SessionCookie, id.String(), 0, "/", "", secure, true)
		}

		store.Touch(id)
		c.Set(sessionKey, id)
		c.Next()
	}
}

// SessionID returns the ID resolved by EnsureSession
func SessionID(c *gin.Context) core.SessionID {
	if v, ok := c.Get(sessionKey); ok {
		if id, ok := v.(core.SessionID); ok {
			return id
		}
	}
	return ""
}
