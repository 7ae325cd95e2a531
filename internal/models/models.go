package models

import "time"

// Users
type User struct {
	ID          uint   `gorm:"primaryKey;autoIncrement"`
	UserID      string `gorm:"type:varchar(100);uniqueIndex;not null"`
	Email       string `gorm:"type:varchar(255);uniqueIndex;not null"`
	DisplayName string `gorm:"type:varchar(255);not null"`
	XPTotal     int64  `gorm:"not null;default:0"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (User) TableName() string {
	return "users"
}

// Courses
type Course struct {
	ID          uint   `gorm:"primaryKey;autoIncrement"`
	CourseID    string `gorm:"type:varchar(100);uniqueIndex;not null"`
	Title       string `gorm:"type:varchar(255);not null"`
	Description string `gorm:"type:text"`
	XPReward    int64  `gorm:"not null;default:0"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Course) TableName() string {
	return "courses"
}

// Enrollments (one row per user/course pair)
type Enrollment struct {
	ID                 uint       `gorm:"primaryKey;autoIncrement"`
	UserID             string     `gorm:"type:varchar(100);uniqueIndex:idx_user_course;not null"`
	CourseID           string     `gorm:"type:varchar(100);uniqueIndex:idx_user_course;not null"`
	ProgressPercentage int        `gorm:"not null;default:0"`
	XPEarned           int64      `gorm:"not null;default:0"`
	CompletedAt        *time.Time `gorm:"index"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (Enrollment) TableName() string {
	return "enrollments"
}

// XP Transactions (append-only ledger, never updated or deleted)
type XPTransaction struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement"`
	UserID    string `gorm:"type:varchar(100);index:idx_user_time;not null"`
	Amount    int64  `gorm:"not null"`
	Source    string `gorm:"type:varchar(50);not null"`
	SourceID  string `gorm:"type:varchar(100);not null"`
	CreatedAt time.Time
}

func (XPTransaction) TableName() string {
	return "xp_transactions"
}

// Race Periods
type RacePeriod struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	RaceID    string    `gorm:"type:varchar(100);uniqueIndex;not null"`
	Name      string    `gorm:"type:varchar(255);not null"`
	Status    string    `gorm:"type:varchar(20);index;not null;default:'draft'"`
	StartDate time.Time `gorm:"index;not null"`
	EndDate   time.Time `gorm:"index;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (RacePeriod) TableName() string {
	return "race_periods"
}

// Race Entries (created only by explicit opt-in)
type RaceEntry struct {
	ID           uint   `gorm:"primaryKey;autoIncrement"`
	RacePeriodID uint   `gorm:"uniqueIndex:idx_race_user;not null"`
	UserID       string `gorm:"type:varchar(100);uniqueIndex:idx_race_user;not null"`
	RaceXP       int64  `gorm:"not null;default:0"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (RaceEntry) TableName() string {
	return "race_entries"
}

// Contact Messages
type ContactMessage struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	Name      string `gorm:"type:varchar(255);not null"`
	Email     string `gorm:"type:varchar(255);not null"`
	Message   string `gorm:"type:text;not null"`
	CreatedAt time.Time
}

func (ContactMessage) TableName() string {
	return "contact_messages"
}

// Calendar Events
type CalendarEvent struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement"`
	EventID     string    `gorm:"type:varchar(100);uniqueIndex;not null"`
	UserID      string    `gorm:"type:varchar(100);index:idx_owner_start;not null"`
	Title       string    `gorm:"type:varchar(255);not null"`
	Description string    `gorm:"type:text"`
	StartsAt    time.Time `gorm:"index:idx_owner_start;not null"`
	EndsAt      time.Time `gorm:"not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (CalendarEvent) TableName() string {
	return "calendar_events"
}
