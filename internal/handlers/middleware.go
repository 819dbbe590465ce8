package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/imrishuroy/go-restaurant-orderflow/internal/backend"
	"github.com/imrishuroy/go-restaurant-orderflow/internal/session"
)

// SessionHeader carries the browsing session id in both directions.
const SessionHeader = "X-Session-Id"

const sessionKey = "session"

// SessionMiddleware attaches the caller's session, minting a new id when the
// header is missing or not a UUID.
func SessionMiddleware(m *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(SessionHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = session.NewID()
		}
		sess, _ := m.GetOrCreate(id)

		c.Set("session_id", id)
		c.Set(sessionKey, sess)
		c.Header(SessionHeader, id)
		c.Next()
	}
}

// AuthMiddleware requires a staff bearer token and forwards it to the backend.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := strings.TrimSpace(strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer "))
		if token == "" || token == c.GetHeader("Authorization") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "message": "Log in to access the dashboard."})
			return
		}
		c.Request = c.Request.WithContext(backend.WithToken(c.Request.Context(), token))
		c.Next()
	}
}
