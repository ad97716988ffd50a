package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"studyplanner/services"

	"github.com/gin-gonic/gin"
)

type StatsHandler struct {
	statsService *services.StatsService
}

func NewStatsHandler(statsService *services.StatsService) *StatsHandler {
	return &StatsHandler{
		statsService: statsService,
	}
}

func (h *StatsHandler) GetDashboardStats(c *gin.Context) {
	stats, err := h.statsService.GetDashboardStats()
	if err != nil {
		log.Printf("Error getting dashboard stats: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *StatsHandler) GetTopicActualTime(c *gin.Context) {
	topicID, err := strconv.ParseUint(c.Param("topicId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid topic ID"})
		return
	}

	result, err := h.statsService.GetTopicActualTime(uint(topicID))
	if err != nil {
		if errors.Is(err, services.ErrTopicNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Topic not found"})
			return
		}
		log.Printf("Error getting actual time for topic %d: %v", topicID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetAlerts returns the topics this client session should be warned about.
// Each topic is reported at most once per session.
func (h *StatsHandler) GetAlerts(c *gin.Context) {
	sessionID := c.Param("sessionID")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Session ID is required"})
		return
	}

	alerts, err := h.statsService.GetAlerts(sessionID)
	if err != nil {
		log.Printf("Error computing alerts for session %s: %v", sessionID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"alerts": alerts})
}

// ClearAlerts resets the session's notified set, typically on session end.
func (h *StatsHandler) ClearAlerts(c *gin.Context) {
	sessionID := c.Param("sessionID")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Session ID is required"})
		return
	}

	if err := h.statsService.ClearAlerts(sessionID); err != nil {
		log.Printf("Error clearing alerts for session %s: %v", sessionID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Alerts cleared"})
}
