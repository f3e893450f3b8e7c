package api

import (
	"github.com/gin-gonic/gin"

	"github.com/mpetrov/flightdesk/internal/session"
)

const (
	// SessionHeader carries the client's session token. The middleware
	// creates a session on first contact and always echoes the token
	// back.
	SessionHeader = "X-Session-Token"

	sessionContextKey = "session"
)

// SessionMiddleware resolves or creates the caller's session and stores
// it on the gin context. Authentication itself is a service concern;
// an anonymous session simply fails the not-logged-in precondition
// downstream.
func SessionMiddleware(manager *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var sess *session.Session
		if token := c.GetHeader(SessionHeader); token != "" {
			if existing, ok := manager.Get(token); ok {
				sess = existing
			}
		}
		if sess == nil {
			sess = manager.Create()
		}
		c.Header(SessionHeader, sess.ID())
		c.Set(sessionContextKey, sess)
		c.Next()
	}
}

func currentSession(c *gin.Context) *session.Session {
	return c.MustGet(sessionContextKey).(*session.Session)
}
