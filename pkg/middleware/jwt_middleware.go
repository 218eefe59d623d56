package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"recovery/pkg/utils"
)

// SessionCookie carries the token for browser page navigation.
const SessionCookie = "access_token"

const (
	ctxUserID = "user_id"
	ctxRole   = "Role"
)

func tokenFrom(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	if cookie, err := c.Cookie(SessionCookie); err == nil {
		return cookie
	}
	return ""
}

// JWTAuthMiddleware accepts a bearer token or the session cookie. When
// loginURL is set, unauthenticated requests are redirected there instead of
// receiving 401.
func JWTAuthMiddleware(jwt *utils.JWTManager, loginURL string) gin.HandlerFunc {
	reject := func(c *gin.Context, msg string) {
		if loginURL != "" {
			c.Redirect(http.StatusSeeOther, loginURL)
		} else {
			utils.RespondError(c, http.StatusUnauthorized, msg)
		}
		c.Abort()
	}

	return func(c *gin.Context) {
		tokenString := tokenFrom(c)
		if tokenString == "" {
			reject(c, "Authorization header missing or invalid")
			return
		}

		claims, err := jwt.ValidateToken(tokenString)
		if err != nil {
			reject(c, "Invalid or expired token")
			return
		}
		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			reject(c, "Invalid or expired token")
			return
		}

		// Pass user information to the next handler
		c.Set(ctxUserID, userID)
		c.Set(ctxRole, claims.Role)
		c.Next()
	}
}

// UserID returns the authenticated account id set by JWTAuthMiddleware.
func UserID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(ctxUserID)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

// RoleMiddleware is a coarse pre-check on the token's role claim; services
// re-check the role against the database.
func RoleMiddleware(requiredRole string) gin.HandlerFunc {

	return func(c *gin.Context) {
		role := c.GetString(ctxRole)

		if role != requiredRole {
			utils.RespondError(c, http.StatusForbidden, "Forbidden: insufficient permissions")
			c.Abort()
			return
		}

		c.Next()
	}
}

// OptionalAuth sets the user when a valid token is present and otherwise
// lets the request through anonymously.
func OptionalAuth(jwt *utils.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenString := tokenFrom(c); tokenString != "" {
			if claims, err := jwt.ValidateToken(tokenString); err == nil {
				if userID, err := uuid.Parse(claims.UserID); err == nil {
					c.Set(ctxUserID, userID)
					c.Set(ctxRole, claims.Role)
				}
			}
		}
		c.Next()
	}
}
