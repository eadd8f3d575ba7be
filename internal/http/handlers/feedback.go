package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/stagekit/stageplot-backend/internal/http/response"
	"github.com/stagekit/stageplot-backend/internal/services"
)

type FeedbackHandler struct {
	feedbackService services.FeedbackService
}

func NewFeedbackHandler(feedbackService services.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{feedbackService: feedbackService}
}

// POST /api/feedback
func (fh *FeedbackHandler) Submit(c *gin.Context) {
	var req struct {
		Message string `json:"message"`
		Page    string `json:"page"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	entry, err := fh.feedbackService.Submit(c.Request.Context(), req.Message, req.Page)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "feedback_failed", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"feedback": entry})
}

// GET /api/admin/feedback?limit=100
func (fh *FeedbackHandler) ListRecent(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	entries, err := fh.feedbackService.ListRecent(c.Request.Context(), limit)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "list_feedback_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"feedback": entries})
}
