package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/schoolverse/game_backend/internal/middleware"
	"github.com/schoolverse/game_backend/internal/models"
)

type ParentController struct {
	DB *gorm.DB
}

type linkChildRequest struct {
	ChildUsername string `json:"child_username" binding:"required"`
}

// LinkChild attaches a student account to the calling parent. Only Student
// rows may carry a parent reference.
func (p *ParentController) LinkChild(c *gin.Context) {
	parent, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req linkChildRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var child models.User
	if err := p.DB.Where("username = ?", strings.TrimSpace(req.ChildUsername)).First(&child).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Child user not found"})
		return
	}
	if child.Role != models.RoleStudent {
		c.JSON(http.StatusBadRequest, gin.H{"error": "only Student accounts can be linked"})
		return
	}

	child.ParentID = &parent.ID
	if err := p.DB.Save(&child).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Linked " + child.Username + " to account"})
}

// ChildrenStats returns recent playtime and mission scores for each linked
// child. The parent->children index is derived by query, not stored.
func (p *ParentController) ChildrenStats(c *gin.Context) {
	parent, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var children []models.User
	if err := p.DB.Where("parent_id = ?", parent.ID).Find(&children).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	stats := make([]gin.H, 0, len(children))
	for _, child := range children {
		var logs []models.PlaytimeLog
		if err := p.DB.Where("user_id = ?", child.ID).Order("date DESC").Limit(7).Find(&logs).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		playtime := make([]gin.H, 0, len(logs))
		for _, l := range logs {
			playtime = append(playtime, gin.H{
				"date":    l.Date.Format("2006-01-02"),
				"minutes": l.DurationMinutes,
			})
		}

		var scores []progressDetailRow
		if err := p.DB.Model(&models.MissionProgress{}).
			Select("missions.public_id AS mission_public_id, missions.title, mission_progresses.status, mission_progresses.score, mission_progresses.updated_at").
			Joins("JOIN missions ON missions.id = mission_progresses.mission_id").
			Where("mission_progresses.user_id = ?", child.ID).
			Scan(&scores).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		stats = append(stats, gin.H{
			"child":         child.Username,
			"playtime_logs": playtime,
			"scores":        scores,
		})
	}

	c.JSON(http.StatusOK, stats)
}
