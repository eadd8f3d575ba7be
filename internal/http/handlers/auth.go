package handlers

import (
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/stagekit/stageplot-backend/internal/http/middleware"
	"github.com/stagekit/stageplot-backend/internal/http/response"
	"github.com/stagekit/stageplot-backend/internal/pkg/ctxutil"
	"github.com/stagekit/stageplot-backend/internal/services"
)

type AuthHandler struct {
	authService  services.AuthService
	cookieDomain string
	cookieSecure bool
}

func NewAuthHandler(authService services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		cookieDomain: strings.TrimSpace(os.Getenv("SESSION_COOKIE_DOMAIN")),
		cookieSecure: strings.EqualFold(os.Getenv("SESSION_COOKIE_SECURE"), "true"),
	}
}

// POST /api/auth/google
// body: { "credential": "<google id_token>", "nonce_hash": "..." }
func (ah *AuthHandler) SignInWithGoogle(c *gin.Context) {
	var req struct {
		Credential string `json:"credential"`
		NonceHash  string `json:"nonce_hash"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	user, accessToken, refreshToken, err := ah.authService.SignInWithGoogle(c.Request.Context(), req.Credential, req.NonceHash)
	if err != nil {
		response.RespondError(c, http.StatusUnauthorized, "google_sign_in_failed", err)
		return
	}
	ah.setSessionCookies(c, accessToken, refreshToken)
	response.RespondOK(c, gin.H{
		"user":          user,
		"access_token":  accessToken,
		"refresh_token": refreshToken,
		"expires_in":    int(ah.authService.AccessTTL().Seconds()),
	})
}

// POST /api/auth/refresh
// Public: an expired access token must not block refresh. The refresh
// token comes from its cookie or the request body.
func (ah *AuthHandler) Refresh(c *gin.Context) {
	refresh, _ := c.Cookie(middleware.RefreshCookieName)
	if refresh == "" {
		var req struct {
			RefreshToken string `json:"refresh_token"`
		}
		if err := c.ShouldBindJSON(&req); err == nil {
			refresh = req.RefreshToken
		}
	}
	ctx := ctxutil.WithRequestData(c.Request.Context(), &ctxutil.RequestData{RefreshToken: refresh})

	accessToken, refreshToken, err := ah.authService.RefreshSession(ctx)
	if err != nil {
		ah.clearSessionCookies(c)
		response.RespondError(c, http.StatusUnauthorized, "refresh_failed", err)
		return
	}
	ah.setSessionCookies(c, accessToken, refreshToken)
	response.RespondOK(c, gin.H{
		"access_token":  accessToken,
		"refresh_token": refreshToken,
		"expires_in":    int(ah.authService.AccessTTL().Seconds()),
	})
}

// POST /api/auth/logout
func (ah *AuthHandler) Logout(c *gin.Context) {
	err := ah.authService.Logout(c.Request.Context())
	ah.clearSessionCookies(c)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "logout_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

func (ah *AuthHandler) setSessionCookies(c *gin.Context, accessToken, refreshToken string) {
	c.SetSameSite(http.SameSiteLaxMode)
	accessMaxAge := int(ah.authService.AccessTTL().Seconds())
	refreshMaxAge := int(ah.authService.RefreshTTL().Seconds())
	c.SetCookie(middleware.SessionCookieName, accessToken, accessMaxAge, "/", ah.cookieDomain, ah.cookieSecure, true)
	c.SetCookie(middleware.RefreshCookieName, refreshToken, refreshMaxAge, "/api/auth", ah.cookieDomain, ah.cookieSecure, true)
}

func (ah *AuthHandler) clearSessionCookies(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookieName, "", -1, "/", ah.cookieDomain, ah.cookieSecure, true)
	c.SetCookie(middleware.RefreshCookieName, "", -1, "/api/auth", ah.cookieDomain, ah.cookieSecure, true)
}
