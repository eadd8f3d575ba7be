package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stagekit/stageplot-backend/internal/http/response"
	"github.com/stagekit/stageplot-backend/internal/services"
)

type UserHandler struct {
	userService services.UserService
}

func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// GET /api/me
func (uh *UserHandler) GetMe(c *gin.Context) {
	me, err := uh.userService.GetMe(c.Request.Context())
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "get_me_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"me": me})
}

// GET /api/me/avatar
func (uh *UserHandler) GetAvatar(c *gin.Context) {
	rc, err := uh.userService.OpenAvatar(c.Request.Context())
	if err != nil {
		response.RespondError(c, http.StatusNotFound, "avatar_not_found", err)
		return
	}
	defer rc.Close()
	c.Header("Content-Type", "image/png")
	c.Header("Cache-Control", "private, max-age=300")
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, rc)
}
