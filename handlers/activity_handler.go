package handlers

import (
	"log"
	"net/http"

	"studyplanner/services"

	"github.com/gin-gonic/gin"
)

type ActivityHandler struct {
	activityService *services.ActivityService
}

func NewActivityHandler(activityService *services.ActivityService) *ActivityHandler {
	return &ActivityHandler{
		activityService: activityService,
	}
}

// GetActivities returns the 50 most recent audit entries, newest first.
func (h *ActivityHandler) GetActivities(c *gin.Context) {
	activities, err := h.activityService.Latest(50)
	if err != nil {
		log.Printf("Error getting activities: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	c.JSON(http.StatusOK, activities)
}
