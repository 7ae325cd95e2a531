package handlers

import (
	"net/http"
	"time"

	"learnquest-backend/internal/database"
	"learnquest-backend/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type EnrollmentHandler struct {
	db *gorm.DB
}

func NewEnrollmentHandler(db *gorm.DB) *EnrollmentHandler {
	return &EnrollmentHandler{db: db}
}

// Enroll handles course enrollment
// @Summary Enroll in a course
// @Description Create an enrollment for the caller in the given course (idempotent)
// @Tags enrollments
// @Accept json
// @Produce json
// @Param request body EnrollRequest true "Course to enroll in"
// @Security BearerAuth
// @Success 201 {object} EnrollmentResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/enrollments [post]
func (h *EnrollmentHandler) Enroll(c *gin.Context) {
	var req EnrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	userID, _ := c.Get("user_id")

	var course models.Course
	if err := h.db.Where("course_id = ?", req.CourseID).First(&course).Error; err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Course not found"})
		return
	}

	enrollment := models.Enrollment{
		UserID:   userID.(string),
		CourseID: req.CourseID,
	}
	if err := h.db.Where("user_id = ? AND course_id = ?", userID, req.CourseID).
		FirstOrCreate(&enrollment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to enroll"})
		return
	}

	resp := toEnrollmentResponse(&enrollment)
	resp.CourseTitle = course.Title
	c.JSON(http.StatusCreated, resp)
}

// ListEnrollments returns the caller's enrollments
// @Summary List enrollments
// @Description List the caller's enrollments with course titles
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Success 200 {array} EnrollmentResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/enrollments [get]
func (h *EnrollmentHandler) ListEnrollments(c *gin.Context) {
	userID, _ := c.Get("user_id")

	var rows []struct {
		CourseID           string
		Title              string
		ProgressPercentage int
		XPEarned           int64
		CompletedAt        *time.Time
		UpdatedAt          time.Time
	}

	readDB := database.GetDBManager().GetReadDB()
	err := readDB.Model(&models.Enrollment{}).
		Select("enrollments.course_id, courses.title, enrollments.progress_percentage, enrollments.xp_earned, enrollments.completed_at, enrollments.updated_at").
		Joins("JOIN courses ON courses.course_id = enrollments.course_id").
		Where("enrollments.user_id = ?", userID).
		Order("enrollments.updated_at DESC").
		Scan(&rows).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to fetch enrollments"})
		return
	}

	resp := make([]EnrollmentResponse, 0, len(rows))
	for _, row := range rows {
		resp = append(resp, EnrollmentResponse{
			CourseID:           row.CourseID,
			CourseTitle:        row.Title,
			ProgressPercentage: row.ProgressPercentage,
			XPEarned:           row.XPEarned,
			CompletedAt:        row.CompletedAt,
			UpdatedAt:          row.UpdatedAt,
		})
	}

	c.JSON(http.StatusOK, resp)
}

// GetProfile returns the caller's profile
// @Summary Get profile
// @Description Get the caller's profile including cumulative XP total
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} ProfileResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/profile [get]
func (h *EnrollmentHandler) GetProfile(c *gin.Context) {
	userID, _ := c.Get("user_id")

	var user models.User
	if err := h.db.Where("user_id = ?", userID).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "User not found"})
		return
	}

	c.JSON(http.StatusOK, ProfileResponse{
		UserID:      user.UserID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		XPTotal:     user.XPTotal,
		CreatedAt:   user.CreatedAt,
	})
}
