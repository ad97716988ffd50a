package handlers

import (
	"errors"
	"log"
	"net/http"

	"studyplanner/services"

	"github.com/gin-gonic/gin"
)

type AIHandler struct {
	aiService *services.AIService
}

func NewAIHandler(aiService *services.AIService) *AIHandler {
	return &AIHandler{
		aiService: aiService,
	}
}

type GenerateQuestionsRequest struct {
	TopicName string `json:"topic_name" binding:"required"`
}

// GenerateQuestions returns 3 multiple-choice questions for a topic. Unlike
// the plan endpoint there is no fallback: an upstream failure surfaces as a
// generic error.
func (h *AIHandler) GenerateQuestions(c *gin.Context) {
	var req GenerateQuestionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Topic name is required"})
		return
	}

	questions, err := h.aiService.GenerateQuestions(c.Request.Context(), req.TopicName)
	if err != nil {
		log.Printf("Error generating questions for %q: %v", req.TopicName, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred while communicating with the AI service"})
		return
	}

	c.JSON(http.StatusOK, questions)
}

type GenerateTopicsRequest struct {
	Subject     string `json:"subject" binding:"required"`
	Description string `json:"description"`
	TotalTopics int    `json:"total_topics" binding:"required,min=1,max=30"`
}

func (h *AIHandler) GenerateTopics(c *gin.Context) {
	var req GenerateTopicsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	topics, err := h.aiService.GenerateTopics(c.Request.Context(), req.Subject, req.Description, req.TotalTopics)
	if err != nil {
		log.Printf("Error generating topics for %q: %v", req.Subject, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred while communicating with the AI service"})
		return
	}

	c.JSON(http.StatusOK, topics)
}

// GenerateExamPlan always answers with a complete plan: when the model call
// fails or times out the deterministic fallback plan is served.
func (h *AIHandler) GenerateExamPlan(c *gin.Context) {
	var req services.ExamPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	plan, err := h.aiService.GenerateExamPlan(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, services.ErrExamNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Exam not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, plan)
}
