package main

import (
	"log"
	"studyplanner/config"
	"studyplanner/handlers"
	"studyplanner/middleware"
	"studyplanner/models"
	"studyplanner/routes"
	"studyplanner/services"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto-migrate database models
	err = db.AutoMigrate(
		&models.Exam{},
		&models.Topic{},
		&models.StudySession{},
		&models.ActivityLog{},
		&models.Task{},
	)
	if err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Initialize Redis
	redisClient := config.InitRedis(cfg)

	// Initialize services
	activityService := services.NewActivityService(db)
	examService := services.NewExamService(db, activityService)
	topicService := services.NewTopicService(db, activityService)
	sessionService := services.NewSessionService(db)
	statsService := services.NewStatsService(db, redisClient)
	taskService := services.NewTaskService(db)
	aiService := services.NewAIService(db, redisClient, activityService, cfg.OpenAIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel)

	// Initialize WebSocket hub for the live activity feed
	hub := services.NewHub()
	go hub.Run()
	activityService.SetHub(hub)

	// Initialize handlers
	examHandler := handlers.NewExamHandler(examService)
	topicHandler := handlers.NewTopicHandler(topicService)
	sessionHandler := handlers.NewSessionHandler(sessionService)
	activityHandler := handlers.NewActivityHandler(activityService)
	statsHandler := handlers.NewStatsHandler(statsService)
	taskHandler := handlers.NewTaskHandler(taskService)
	aiHandler := handlers.NewAIHandler(aiService)

	// Setup Gin router
	router := gin.Default()

	// Add CORS middleware
	router.Use(middleware.CORS())

	// Setup routes
	routes.SetupRoutes(router, examHandler, topicHandler, sessionHandler, activityHandler, statsHandler, taskHandler, aiHandler, hub)

	// Start server
	log.Printf("Server starting on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
