package services

import (
	"errors"
	"time"

	"learnquest-backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrCourseIDRequired   = errors.New("course_id is required")
	ErrEnrollmentNotFound = errors.New("enrollment not found")
)

// ProgressUpdate carries the optional fields of a progress request. XPEarned
// is the cumulative per-course value; XPDelta is an explicit increment and
// wins when both are supplied.
type ProgressUpdate struct {
	ProgressPercentage *int
	XPEarned           *int64
	XPDelta            *int64
	Completed          bool
}

type ProgressService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewProgressService(db *gorm.DB) *ProgressService {
	return &ProgressService{
		db:  db,
		now: time.Now,
	}
}

// ApplyProgress updates an enrollment and credits any earned XP to the user's
// total, the transaction ledger and (when the user opted into the active
// race) their race entry. The whole sequence runs in one database transaction
// so the enrollment update and the XP crediting commit or fail together.
func (s *ProgressService) ApplyProgress(userID, courseID string, update ProgressUpdate) (*models.Enrollment, error) {
	if courseID == "" {
		return nil, ErrCourseIDRequired
	}

	var enrollment models.Enrollment

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ? AND course_id = ?", userID, courseID).
			First(&enrollment).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEnrollmentNotFound
			}
			return err
		}
		previousXP := enrollment.XPEarned

		changes := map[string]interface{}{}
		if update.ProgressPercentage != nil {
			changes["progress_percentage"] = *update.ProgressPercentage
			enrollment.ProgressPercentage = *update.ProgressPercentage
		}
		if update.XPEarned != nil {
			changes["xp_earned"] = *update.XPEarned
			enrollment.XPEarned = *update.XPEarned
		}
		// completion is terminal: set once, never overwritten or cleared
		if update.Completed && enrollment.CompletedAt == nil {
			completedAt := s.now()
			changes["completed_at"] = &completedAt
			enrollment.CompletedAt = &completedAt
		}

		if len(changes) > 0 {
			if err := tx.Model(&enrollment).Updates(changes).Error; err != nil {
				return err
			}
		}

		amountToAdd := creditAmount(update, previousXP)
		if amountToAdd <= 0 {
			return nil
		}

		// atomic increment, not read-modify-write, so two concurrent credits
		// for the same user cannot lose an update
		if err := tx.Model(&models.User{}).Where("user_id = ?", userID).
			UpdateColumn("xp_total", gorm.Expr("xp_total + ?", amountToAdd)).Error; err != nil {
			return err
		}

		ledgerEntry := models.XPTransaction{
			UserID:   userID,
			Amount:   amountToAdd,
			Source:   "course",
			SourceID: courseID,
		}
		if err := tx.Create(&ledgerEntry).Error; err != nil {
			return err
		}

		return s.creditActiveRace(tx, userID, amountToAdd)
	})
	if err != nil {
		return nil, err
	}

	return &enrollment, nil
}

// creditAmount resolves how much XP to add to the user's running total.
// An explicit delta wins over the cumulative value; the cumulative value
// credits only the difference from what was already stored.
func creditAmount(update ProgressUpdate, previousXP int64) int64 {
	if update.XPDelta != nil {
		return *update.XPDelta
	}
	if update.XPEarned != nil {
		return *update.XPEarned - previousXP
	}
	return 0
}

// creditActiveRace adds amount to the caller's entry in the currently active
// race period, if both exist. Entries are created only through explicit
// opt-in, never here; zero rows affected means the user is not racing.
func (s *ProgressService) creditActiveRace(tx *gorm.DB, userID string, amount int64) error {
	now := s.now()

	var race models.RacePeriod
	err := tx.Where("status = ? AND start_date <= ? AND end_date >= ?", "active", now, now).
		First(&race).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	return tx.Model(&models.RaceEntry{}).
		Where("race_period_id = ? AND user_id = ?", race.ID, userID).
		UpdateColumn("race_xp", gorm.Expr("race_xp + ?", amount)).Error
}
