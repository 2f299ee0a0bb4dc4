package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/schoolverse/game_backend/internal/models"
)

type AdminController struct {
	DB *gorm.DB
}

// ListUsers is the admin roster view: paginated, sortable, filterable by role
// and a username/email substring.
func (a *AdminController) ListUsers(c *gin.Context) {
	limit := 20
	page := 1
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	if v := c.Query("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			page = n
		}
	}

	sortBy := strings.ToLower(c.DefaultQuery("sort_by", "created_at"))
	sortDir := strings.ToUpper(c.DefaultQuery("sort_dir", "DESC"))
	if sortDir != "ASC" && sortDir != "DESC" {
		sortDir = "DESC"
	}
	allowedSorts := map[string]string{
		"id":         "id",
		"created_at": "created_at",
		"username":   "username",
		"email":      "email",
		"role":       "role",
	}
	sortCol, ok := allowedSorts[sortBy]
	if !ok {
		sortCol = "created_at"
	}
	order := fmt.Sprintf("%s %s", sortCol, sortDir)

	qText := strings.TrimSpace(c.Query("q"))
	roleFilter := strings.TrimSpace(c.Query("role"))
	if roleFilter != "" && !models.ValidRole(roleFilter) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid role"})
		return
	}

	base := a.DB.Model(&models.User{})
	if qText != "" {
		like := "%" + strings.ToLower(qText) + "%"
		base = base.Where("LOWER(username) LIKE ? OR LOWER(email) LIKE ?", like, like)
	}
	if roleFilter != "" {
		base = base.Where("role = ?", roleFilter)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var users []models.User
	if err := base.Order(order).Offset((page - 1) * limit).Limit(limit).Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	out := make([]gin.H, 0, len(users))
	for _, u := range users {
		out = append(out, gin.H{
			"public_id":  u.PublicID,
			"username":   u.Username,
			"email":      u.Email,
			"role":       u.Role,
			"created_at": u.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{
		"data": out,
		"meta": gin.H{
			"total":    total,
			"limit":    limit,
			"page":     page,
			"sort_by":  sortCol,
			"sort_dir": sortDir,
		},
	})
}
