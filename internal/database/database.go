package database

import (
	"log"
	"sync"
	"time"

	"learnquest-backend/configs"
	"learnquest-backend/internal/models"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type DBManager struct {
	WriteDB      *gorm.DB
	ReadDBs      []*gorm.DB
	currentRead  int
	replicaMutex sync.Mutex
}

var (
	instance *DBManager
	once     sync.Once
)

func GetDBManager() *DBManager {
	once.Do(func() {
		instance = &DBManager{
			ReadDBs: make([]*gorm.DB, 0),
		}
		instance.initialize()
	})
	return instance
}

func (m *DBManager) initialize() {
	// Connect to main write database
	writeDB, err := gorm.Open(mysql.Open(configs.AppConfig.DatabaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		log.Fatal("Failed to connect to write database:", err)
	}
	m.WriteDB = writeDB

	if err := Migrate(m.WriteDB); err != nil {
		log.Fatal("Failed to auto-migrate database:", err)
	}

	// Set up connection pool
	sqlDB, err := m.WriteDB.DB()
	if err == nil {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	// Initialize read replicas (simulated - in production these would be different hosts)
	for i := 0; i < 2; i++ {
		readDB, err := gorm.Open(mysql.Open(configs.AppConfig.DatabaseURL), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Warn),
		})
		if err != nil {
			log.Printf("Warning: Failed to connect to read replica %d: %v", i, err)
			continue
		}
		m.ReadDBs = append(m.ReadDBs, readDB)
	}

	log.Println("Database connection established successfully")
}

// Migrate applies the schema for every model. Also used by tests against
// an in-memory database.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Course{},
		&models.Enrollment{},
		&models.XPTransaction{},
		&models.RacePeriod{},
		&models.RaceEntry{},
		&models.ContactMessage{},
		&models.CalendarEvent{},
	)
}

// GetReadDB returns a read replica using round-robin
func (m *DBManager) GetReadDB() *gorm.DB {
	m.replicaMutex.Lock()
	defer m.replicaMutex.Unlock()

	if len(m.ReadDBs) == 0 {
		return m.WriteDB
	}

	db := m.ReadDBs[m.currentRead]
	m.currentRead = (m.currentRead + 1) % len(m.ReadDBs)
	return db
}
