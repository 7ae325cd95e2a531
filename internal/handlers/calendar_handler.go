package handlers

import (
	"net/http"

	"learnquest-backend/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CalendarHandler struct {
	db *gorm.DB
}

func NewCalendarHandler(db *gorm.DB) *CalendarHandler {
	return &CalendarHandler{db: db}
}

// CreateEvent creates a calendar event
// @Summary Create a calendar event
// @Description Create a calendar event owned by the caller
// @Tags calendar
// @Accept json
// @Produce json
// @Param request body CalendarEventRequest true "Event data"
// @Security BearerAuth
// @Success 201 {object} CalendarEventResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/calendar/events [post]
func (h *CalendarHandler) CreateEvent(c *gin.Context) {
	var req CalendarEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}
	if !req.EndsAt.After(req.StartsAt) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "ends_at must be after starts_at"})
		return
	}

	userID, _ := c.Get("user_id")

	event := models.CalendarEvent{
		EventID:     uuid.New().String(),
		UserID:      userID.(string),
		Title:       req.Title,
		Description: req.Description,
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
	}
	if err := h.db.Create(&event).Error; err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to create event"})
		return
	}

	c.JSON(http.StatusCreated, toEventResponse(&event))
}

// ListEvents returns the caller's calendar events
// @Summary List calendar events
// @Description List the caller's calendar events ordered by start time
// @Tags calendar
// @Produce json
// @Security BearerAuth
// @Success 200 {array} CalendarEventResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/calendar/events [get]
func (h *CalendarHandler) ListEvents(c *gin.Context) {
	userID, _ := c.Get("user_id")

	var events []models.CalendarEvent
	err := h.db.Where("user_id = ?", userID).
		Order("starts_at ASC").
		Find(&events).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to fetch events"})
		return
	}

	resp := make([]CalendarEventResponse, 0, len(events))
	for i := range events {
		resp = append(resp, toEventResponse(&events[i]))
	}

	c.JSON(http.StatusOK, resp)
}

// UpdateEvent updates a calendar event
// @Summary Update a calendar event
// @Description Update a calendar event owned by the caller
// @Tags calendar
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param request body CalendarEventRequest true "Event data"
// @Security BearerAuth
// @Success 200 {object} CalendarEventResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/calendar/events/{id} [put]
func (h *CalendarHandler) UpdateEvent(c *gin.Context) {
	var req CalendarEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}
	if !req.EndsAt.After(req.StartsAt) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "ends_at must be after starts_at"})
		return
	}

	userID, _ := c.Get("user_id")
	eventID := c.Param("id")

	var event models.CalendarEvent
	if err := h.db.Where("event_id = ? AND user_id = ?", eventID, userID).
		First(&event).Error; err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Event not found"})
		return
	}

	err := h.db.Model(&event).Updates(map[string]interface{}{
		"title":       req.Title,
		"description": req.Description,
		"starts_at":   req.StartsAt,
		"ends_at":     req.EndsAt,
	}).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to update event"})
		return
	}

	event.Title = req.Title
	event.Description = req.Description
	event.StartsAt = req.StartsAt
	event.EndsAt = req.EndsAt

	c.JSON(http.StatusOK, toEventResponse(&event))
}

// DeleteEvent deletes a calendar event
// @Summary Delete a calendar event
// @Description Delete a calendar event owned by the caller
// @Tags calendar
// @Produce json
// @Param id path string true "Event ID"
// @Security BearerAuth
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/calendar/events/{id} [delete]
func (h *CalendarHandler) DeleteEvent(c *gin.Context) {
	userID, _ := c.Get("user_id")
	eventID := c.Param("id")

	result := h.db.Where("event_id = ? AND user_id = ?", eventID, userID).
		Delete(&models.CalendarEvent{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to delete event"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Event not found"})
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Event deleted"})
}

func toEventResponse(e *models.CalendarEvent) CalendarEventResponse {
	return CalendarEventResponse{
		EventID:     e.EventID,
		Title:       e.Title,
		Description: e.Description,
		StartsAt:    e.StartsAt,
		EndsAt:      e.EndsAt,
		UpdatedAt:   e.UpdatedAt,
	}
}
