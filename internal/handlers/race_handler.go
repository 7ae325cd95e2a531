package handlers

import (
	"net/http"
	"time"

	"learnquest-backend/configs"
	"learnquest-backend/internal/cache"
	"learnquest-backend/internal/database"
	"learnquest-backend/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const standingsCacheKey = "race:standings:active"

type RaceHandler struct {
	db    *gorm.DB
	cache *cache.CacheManager
}

func NewRaceHandler(db *gorm.DB, cacheMgr *cache.CacheManager) *RaceHandler {
	return &RaceHandler{
		db:    db,
		cache: cacheMgr,
	}
}

func (h *RaceHandler) activeRace() (*models.RacePeriod, error) {
	now := time.Now()
	var race models.RacePeriod
	err := h.db.Where("status = ? AND start_date <= ? AND end_date >= ?", "active", now, now).
		First(&race).Error
	if err != nil {
		return nil, err
	}
	return &race, nil
}

// GetActiveRace returns the currently active race period
// @Summary Get active race
// @Description Get the race period that is currently running, if any
// @Tags races
// @Produce json
// @Security BearerAuth
// @Success 200 {object} RaceResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/races/active [get]
func (h *RaceHandler) GetActiveRace(c *gin.Context) {
	race, err := h.activeRace()
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "No active race"})
		return
	}

	c.JSON(http.StatusOK, RaceResponse{
		RaceID:    race.RaceID,
		Name:      race.Name,
		Status:    race.Status,
		StartDate: race.StartDate,
		EndDate:   race.EndDate,
	})
}

// JoinActiveRace opts the caller into the active race
// @Summary Join the active race
// @Description Create a race entry for the caller in the active race period (idempotent)
// @Tags races
// @Produce json
// @Security BearerAuth
// @Success 201 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/races/active/join [post]
func (h *RaceHandler) JoinActiveRace(c *gin.Context) {
	userID, _ := c.Get("user_id")

	race, err := h.activeRace()
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "No active race"})
		return
	}

	entry := models.RaceEntry{
		RacePeriodID: race.ID,
		UserID:       userID.(string),
	}
	if err := h.db.Where("race_period_id = ? AND user_id = ?", race.ID, userID).
		FirstOrCreate(&entry).Error; err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to join race"})
		return
	}

	c.JSON(http.StatusCreated, SuccessResponse{
		Message: "Joined race",
		Data:    map[string]interface{}{"race_id": race.RaceID, "race_xp": entry.RaceXP},
	})
}

// GetStandings returns the active race leaderboard
// @Summary Get race standings
// @Description Get the leaderboard of the active race, cached for a short TTL
// @Tags races
// @Produce json
// @Security BearerAuth
// @Success 200 {object} StandingsResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/races/active/standings [get]
func (h *RaceHandler) GetStandings(c *gin.Context) {
	// Try cache first
	var cached StandingsResponse
	if found, err := h.cache.Get(standingsCacheKey, &cached); found && err == nil {
		c.JSON(http.StatusOK, cached)
		return
	}

	race, err := h.activeRace()
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "No active race"})
		return
	}

	response, err := h.fetchStandings(race)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to fetch standings"})
		return
	}

	h.cache.Set(standingsCacheKey, response, configs.AppConfig.CacheTTL)

	c.JSON(http.StatusOK, response)
}

func (h *RaceHandler) fetchStandings(race *models.RacePeriod) (StandingsResponse, error) {
	var standings []RaceStanding

	readDB := database.GetDBManager().GetReadDB()
	err := readDB.Model(&models.RaceEntry{}).
		Select("users.user_id, users.display_name, race_entries.race_xp").
		Joins("JOIN users ON users.user_id = race_entries.user_id").
		Where("race_entries.race_period_id = ?", race.ID).
		Order("race_entries.race_xp DESC").
		Limit(20).
		Scan(&standings).Error
	if err != nil {
		return StandingsResponse{}, err
	}

	return StandingsResponse{
		RaceID:      race.RaceID,
		Name:        race.Name,
		GeneratedAt: time.Now(),
		Standings:   standings,
	}, nil
}
