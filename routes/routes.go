package routes

import (
	"log"
	"net/http"

	"studyplanner/handlers"
	"studyplanner/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for development
	},
}

func SetupRoutes(
	router *gin.Engine,
	examHandler *handlers.ExamHandler,
	topicHandler *handlers.TopicHandler,
	sessionHandler *handlers.SessionHandler,
	activityHandler *handlers.ActivityHandler,
	statsHandler *handlers.StatsHandler,
	taskHandler *handlers.TaskHandler,
	aiHandler *handlers.AIHandler,
	hub *services.Hub,
) {
	// API routes
	api := router.Group("/api")
	{
		exams := api.Group("/exams")
		{
			exams.POST("", examHandler.CreateExam)
			exams.GET("", examHandler.GetAllExams)
			exams.GET("/:id", examHandler.GetExamByID)
			exams.PUT("/:id", examHandler.UpdateExam)
			exams.DELETE("/:id", examHandler.DeleteExam)
		}

		topics := api.Group("/topics")
		{
			topics.POST("", topicHandler.CreateTopic)
			topics.GET("/exam/:examID", topicHandler.GetTopicsByExam)
			topics.PUT("/:id", topicHandler.UpdateTopic)
			topics.DELETE("/:id", topicHandler.DeleteTopic)
		}

		sessions := api.Group("/sessions")
		{
			sessions.POST("", sessionHandler.LogSession)
			sessions.GET("", sessionHandler.GetSessions)
		}

		api.GET("/activities", activityHandler.GetActivities)

		stats := api.Group("/stats")
		{
			stats.GET("/dashboard", statsHandler.GetDashboardStats)
			stats.GET("/topic-time/:topicId", statsHandler.GetTopicActualTime)
			stats.GET("/alerts/:sessionID", statsHandler.GetAlerts)
			stats.DELETE("/alerts/:sessionID", statsHandler.ClearAlerts)
		}

		tasks := api.Group("/tasks")
		{
			tasks.POST("", taskHandler.CreateTask)
			tasks.GET("", taskHandler.GetAllTasks)
			tasks.PUT("/:id", taskHandler.UpdateTask)
			tasks.DELETE("/:id", taskHandler.DeleteTask)
		}

		ai := api.Group("/ai")
		{
			ai.POST("/generate-questions", aiHandler.GenerateQuestions)
			ai.POST("/generate-topics", aiHandler.GenerateTopics)
			ai.POST("/generate-exam-plan", aiHandler.GenerateExamPlan)
		}
	}

	// WebSocket endpoint for the live activity feed
	router.GET("/ws/activity", func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("WebSocket upgrade failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upgrade connection"})
			return
		}

		hub.RegisterClient(conn)
	})

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
