package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/schoolverse/game_backend/internal/middleware"
	"github.com/schoolverse/game_backend/internal/models"
)

type MissionController struct {
	DB *gorm.DB
}

type updateMissionRequest struct {
	MissionPublicID string `json:"mission_public_id"`
	Score           int    `json:"score"`
	Status          string `json:"status"`
}

// UpdateMission upserts the caller's progress for a mission. The stored score
// is the running max across submissions; the status is overwritten
// unconditionally, so a later "failed" can replace "completed" while the high
// score is kept. That asymmetry matches the game's submission protocol.
func (m *MissionController) UpdateMission(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req updateMissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	missionID := strings.TrimSpace(req.MissionPublicID)
	if missionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "mission_public_id is required"})
		return
	}
	status := req.Status
	if status == "" {
		status = models.MissionCompleted
	}
	switch status {
	case models.MissionStarted, models.MissionCompleted, models.MissionFailed:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
		return
	}

	var mission models.Mission
	if err := m.DB.Where("public_id = ?", missionID).First(&mission).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid mission public ID"})
		return
	}

	err := m.DB.Transaction(func(tx *gorm.DB) error {
		var progress models.MissionProgress
		err := tx.Where("user_id = ? AND mission_id = ?", user.ID, mission.ID).First(&progress).Error
		if err == nil {
			if req.Score > progress.Score {
				progress.Score = req.Score
			}
			progress.Status = status
			return tx.Save(&progress).Error
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		progress = models.MissionProgress{
			UserID:    user.ID,
			MissionID: mission.ID,
			Score:     req.Score,
			Status:    status,
		}
		return tx.Create(&progress).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Progress saved"})
}
