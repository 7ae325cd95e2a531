package main

import (
	"log"
	"os"
	"time"

	"learnquest-backend/configs"
	"learnquest-backend/internal/cache"
	"learnquest-backend/internal/database"
	"learnquest-backend/internal/handlers"
	"learnquest-backend/internal/middleware"
	"learnquest-backend/internal/ratelimit"
	"learnquest-backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

// @title LearnQuest API
// @version 1.0
// @description Gamified learning platform backend: courses, XP, races and calendars
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@learnquest.app

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080
// @BasePath /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using default configuration")
	}

	// Load configuration
	if err := configs.LoadConfig(); err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Initialize database
	db := database.GetDBManager().WriteDB

	// Initialize cache
	cacheMgr := cache.GetCacheManager()

	// Initialize services
	authService := services.NewAuthService()
	progressService := services.NewProgressService(db)

	// Admission controller: per-client, per-category sliding window
	limiter := ratelimit.NewLimiter(map[ratelimit.Category]int{
		ratelimit.CategoryAuth:    configs.AppConfig.AuthRateLimit,
		ratelimit.CategoryContact: configs.AppConfig.ContactRateLimit,
		ratelimit.CategoryAPI:     configs.AppConfig.APIRateLimit,
	}, configs.AppConfig.RateLimitWindow)

	// Initialize handlers
	var wsHandler *handlers.WebSocketHandler
	if configs.AppConfig.EnableWebSocket {
		wsHandler = handlers.NewWebSocketHandler()
		go wsHandler.RunHub()
	}
	progressHandler := handlers.NewProgressHandler(progressService, cacheMgr, wsHandler)
	enrollmentHandler := handlers.NewEnrollmentHandler(db)
	raceHandler := handlers.NewRaceHandler(db, cacheMgr)
	contactHandler := handlers.NewContactHandler(db)
	calendarHandler := handlers.NewCalendarHandler(db)

	// Setup Gin router
	if os.Getenv("GIN_MODE") != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	// Global middleware: admission control runs before any handler
	router.Use(middleware.ValidationMiddleware())
	router.Use(middleware.RateLimitMiddleware(limiter))
	router.Use(gin.Recovery())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Public routes
	router.POST("/api/contact", contactHandler.SubmitMessage)

	// Protected routes
	protected := router.Group("/api")
	protected.Use(middleware.AuthMiddleware(authService))

	protected.POST("/progress", progressHandler.ApplyProgress)
	protected.POST("/enrollments", enrollmentHandler.Enroll)
	protected.GET("/enrollments", enrollmentHandler.ListEnrollments)
	protected.GET("/profile", enrollmentHandler.GetProfile)
	protected.GET("/races/active", raceHandler.GetActiveRace)
	protected.POST("/races/active/join", raceHandler.JoinActiveRace)
	protected.GET("/races/active/standings", raceHandler.GetStandings)
	protected.POST("/calendar/events", calendarHandler.CreateEvent)
	protected.GET("/calendar/events", calendarHandler.ListEvents)
	protected.PUT("/calendar/events/:id", calendarHandler.UpdateEvent)
	protected.DELETE("/calendar/events/:id", calendarHandler.DeleteEvent)

	// WebSocket route
	if configs.AppConfig.EnableWebSocket {
		router.GET("/ws", wsHandler.HandleConnections)
	}

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":    "healthy",
			"timestamp": time.Now().Unix(),
			"services": map[string]string{
				"database": "connected",
				"redis": func() string {
					if cacheMgr.IsAvailable() {
						return "connected"
					} else {
						return "local_cache_only"
					}
				}(),
				"cache": "active",
			},
		})
	})

	// Start server
	port := ":" + configs.AppConfig.ServerPort
	log.Printf("Server starting on port %s", port)

	if err := router.Run(port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
