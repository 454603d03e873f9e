package middleware

import (
	"net/http"

	"booknest/services/session"
	"booknest/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SessionKey is the gin context key holding the *session.Controller.
const SessionKey = "session"

// SessionMiddleware resolves the :id path parameter to a live session.
func SessionMiddleware(registry *session.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		ctrl, err := registry.Get(id)
		if err != nil {
			utils.JSONError(c, http.StatusNotFound, "Session not found", id)
			return
		}
		c.Set(SessionKey, ctrl)
		c.Set("logger", getLogger(c).With(zap.String("sessionId", id)))
		c.Next()
	}
}
