package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/stagekit/stageplot-backend/internal/pkg/ctxutil"
	"github.com/stagekit/stageplot-backend/internal/platform/logger"
	"github.com/stagekit/stageplot-backend/internal/services"
)

// SessionCookieName carries the access token for browser clients.
const SessionCookieName = "sp_session"

// RefreshCookieName carries the refresh token, scoped to the refresh
// endpoint by the handler that sets it.
const RefreshCookieName = "sp_refresh"

type AuthMiddleware struct {
	log          *logger.Logger
	authService  services.AuthService
	adminKeyHash string
}

// NewAuthMiddleware takes the bcrypt hash of the admin API key; an empty
// hash disables the admin surface entirely.
func NewAuthMiddleware(log *logger.Logger, authService services.AuthService, adminKeyHash string) *AuthMiddleware {
	return &AuthMiddleware{
		log:          log.With("middleware", "AuthMiddleware"),
		authService:  authService,
		adminKeyHash: strings.TrimSpace(adminKeyHash),
	}
}

func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{"message": "missing or invalid token", "code": "unauthorized"},
			})
			return
		}
		ctx, err := am.authService.ContextFromToken(c.Request.Context(), tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{"message": err.Error(), "code": "unauthorized"},
			})
			return
		}
		rd := ctxutil.GetRequestData(ctx)
		if rd == nil || rd.UserID == uuid.Nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": gin.H{"message": "forbidden", "code": "forbidden"},
			})
			return
		}
		if refresh, err := c.Cookie(RefreshCookieName); err == nil && rd.RefreshToken == "" {
			rd.RefreshToken = refresh
			ctx = ctxutil.WithRequestData(ctx, rd)
		}
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequireAdmin layers on RequireAuth: the user row must be flagged admin
// and the request must present the admin API key.
func (am *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		rd := ctxutil.GetRequestData(c.Request.Context())
		if rd == nil || !rd.Admin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": gin.H{"message": "admin access required", "code": "forbidden"},
			})
			return
		}
		if am.adminKeyHash == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": gin.H{"message": "admin surface disabled", "code": "forbidden"},
			})
			return
		}
		key := strings.TrimSpace(c.GetHeader("X-Admin-Key"))
		if key == "" || bcrypt.CompareHashAndPassword([]byte(am.adminKeyHash), []byte(key)) != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": gin.H{"message": "invalid admin key", "code": "forbidden"},
			})
			return
		}
		c.Next()
	}
}

// extractToken checks the query string, the Authorization header, then
// the session cookie.
func extractToken(c *gin.Context) string {
	if qToken := c.Query("token"); qToken != "" {
		return qToken
	}
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return authHeader[7:]
	}
	if cookie, err := c.Cookie(SessionCookieName); err == nil {
		return cookie
	}
	return ""
}
