package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/shikshya/shikshya-backend/internal/response"
	"github.com/shikshya/shikshya-backend/internal/service"
)

// claimsContextKey is where validated JWT claims live in the gin context.
const claimsContextKey = "auth_claims"

// GetClaims returns the validated claims set by a JWT middleware. Panics
// if called on a route without one; that is a routing bug, not input.
func GetClaims(c *gin.Context) *service.Claims {
	return c.MustGet(claimsContextKey).(*service.Claims)
}

// RequireStudentJWT admits only tokens carrying the student role.
func RequireStudentJWT(auth *service.AuthService) gin.HandlerFunc {
	return requireJWT(auth, service.RoleStudent, response.ErrStudentAccessOnly)
}

// RequireTeacherJWT admits only tokens carrying the teacher role.
func RequireTeacherJWT(auth *service.AuthService) gin.HandlerFunc {
	return requireJWT(auth, service.RoleTeacher, response.ErrTeacherAccessOnly)
}

// RequireAdminJWT admits only tokens carrying the admin role.
func RequireAdminJWT(auth *service.AuthService) gin.HandlerFunc {
	return requireJWT(auth, service.RoleAdmin, response.ErrAdminAccessOnly)
}

func requireJWT(auth *service.AuthService, role string, roleErr response.ErrCode) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}

		claims, err := auth.ValidateToken(token)
		if err != nil {
			code := response.ErrTokenInvalid
			if errors.Is(err, jwt.ErrTokenExpired) {
				code = response.ErrTokenExpired
			}
			response.AbortFail(c, http.StatusUnauthorized, code)
			return
		}

		if claims.Role != role {
			response.AbortFail(c, http.StatusForbidden, roleErr)
			return
		}

		c.Set(claimsContextKey, claims)
		c.Next()
	}
}

// extractToken reads the bearer token from the Authorization header, or
// from the token query parameter for WebSocket upgrades where headers
// cannot be set by browser clients.
func extractToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return c.Query("token")
}
