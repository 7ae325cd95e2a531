package handlers

import (
	"errors"
	"net/http"

	"learnquest-backend/internal/cache"
	"learnquest-backend/internal/models"
	"learnquest-backend/internal/services"

	"github.com/gin-gonic/gin"
)

type ProgressHandler struct {
	progressService *services.ProgressService
	cache           *cache.CacheManager
	ws              *WebSocketHandler
}

func NewProgressHandler(progressService *services.ProgressService, cacheMgr *cache.CacheManager, ws *WebSocketHandler) *ProgressHandler {
	return &ProgressHandler{
		progressService: progressService,
		cache:           cacheMgr,
		ws:              ws,
	}
}

// ApplyProgress handles course progress and XP updates
// @Summary Update course progress
// @Description Update enrollment progress and credit earned XP to the caller's total, ledger and active race entry
// @Tags progress
// @Accept json
// @Produce json
// @Param request body ProgressRequest true "Progress update"
// @Security BearerAuth
// @Success 200 {object} EnrollmentResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/progress [post]
func (h *ProgressHandler) ApplyProgress(c *gin.Context) {
	var req ProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	if req.ProgressPercentage != nil && (*req.ProgressPercentage < 0 || *req.ProgressPercentage > 100) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "progress_percentage must be between 0 and 100"})
		return
	}

	userID, _ := c.Get("user_id")

	enrollment, err := h.progressService.ApplyProgress(userID.(string), req.CourseID, services.ProgressUpdate{
		ProgressPercentage: req.ProgressPercentage,
		XPEarned:           req.XPEarned,
		XPDelta:            req.XPDelta,
		Completed:          req.Completed,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrCourseIDRequired):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		case errors.Is(err, services.ErrEnrollmentNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to update progress"})
		}
		return
	}

	// Invalidate derived caches and notify live clients
	h.cache.PublishXPUpdate(userID.(string))
	if h.ws != nil {
		h.ws.BroadcastXPUpdate(userID.(string), enrollment)
	}

	c.JSON(http.StatusOK, toEnrollmentResponse(enrollment))
}

func toEnrollmentResponse(e *models.Enrollment) EnrollmentResponse {
	return EnrollmentResponse{
		CourseID:           e.CourseID,
		ProgressPercentage: e.ProgressPercentage,
		XPEarned:           e.XPEarned,
		CompletedAt:        e.CompletedAt,
		UpdatedAt:          e.UpdatedAt,
	}
}
