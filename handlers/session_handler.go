package handlers

import (
	"errors"
	"log"
	"net/http"

	"studyplanner/services"

	"github.com/gin-gonic/gin"
)

type SessionHandler struct {
	sessionService *services.SessionService
}

func NewSessionHandler(sessionService *services.SessionService) *SessionHandler {
	return &SessionHandler{
		sessionService: sessionService,
	}
}

func (h *SessionHandler) LogSession(c *gin.Context) {
	var req services.LogSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.sessionService.LogSession(&req)
	if err != nil {
		if errors.Is(err, services.ErrExamNotFound) || errors.Is(err, services.ErrTopicNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Associated exam or topic not found"})
			return
		}
		log.Printf("Error logging study session: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	c.JSON(http.StatusCreated, session)
}

func (h *SessionHandler) GetSessions(c *gin.Context) {
	sessions, err := h.sessionService.GetSessions()
	if err != nil {
		log.Printf("Error getting study sessions: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	c.JSON(http.StatusOK, sessions)
}
