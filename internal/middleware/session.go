package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shikshya/shikshya-backend/internal/response"
	"github.com/shikshya/shikshya-backend/internal/service"
)

// CheckSingleDeviceSession rejects student tokens whose JTI is no longer
// the pinned one, which happens when the student logs in on another
// device. Must run after RequireStudentJWT.
func CheckSingleDeviceSession(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if err := auth.CheckStudentSession(c.Request.Context(), claims); err != nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrSessionInvalidated)
			return
		}
		c.Next()
	}
}
