package handlers

import "time"

// Request/Response structures shared by the HTTP handlers.

type ProgressRequest struct {
	CourseID           string `json:"course_id" binding:"required"`
	ProgressPercentage *int   `json:"progress_percentage"`
	XPEarned           *int64 `json:"xp_earned"`
	XPDelta            *int64 `json:"xp_delta"`
	Completed          bool   `json:"completed"`
}

type EnrollmentResponse struct {
	CourseID           string     `json:"course_id"`
	CourseTitle        string     `json:"course_title,omitempty"`
	ProgressPercentage int        `json:"progress_percentage"`
	XPEarned           int64      `json:"xp_earned"`
	CompletedAt        *time.Time `json:"completed_at,omitempty"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

type EnrollRequest struct {
	CourseID string `json:"course_id" binding:"required"`
}

type ProfileResponse struct {
	UserID      string    `json:"user_id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	XPTotal     int64     `json:"xp_total"`
	CreatedAt   time.Time `json:"created_at"`
}

type ContactRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Message string `json:"message" binding:"required"`
}

type RaceResponse struct {
	RaceID    string    `json:"race_id"`
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

type StandingsResponse struct {
	RaceID      string         `json:"race_id"`
	Name        string         `json:"name"`
	GeneratedAt time.Time      `json:"generated_at"`
	Standings   []RaceStanding `json:"standings"`
}

type RaceStanding struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	RaceXP      int64  `json:"race_xp"`
}

type CalendarEventRequest struct {
	Title       string    `json:"title" binding:"required"`
	Description string    `json:"description"`
	StartsAt    time.Time `json:"starts_at" binding:"required"`
	EndsAt      time.Time `json:"ends_at" binding:"required"`
}

type CalendarEventResponse struct {
	EventID     string    `json:"event_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	StartsAt    time.Time `json:"starts_at"`
	EndsAt      time.Time `json:"ends_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
