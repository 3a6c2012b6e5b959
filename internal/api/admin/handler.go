package admin

import (
	"net/http"
	"time"

	"journal-app/database"
	"journal-app/internal/domain/plans"
	"journal-app/internal/domain/users"

	"github.com/gin-gonic/gin"
)

type AdminUser struct {
	ID         uint       `json:"id"`
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	Role       string     `json:"role"`
	IsVerified bool       `json:"is_verified"`
	Plan       string     `json:"plan"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
}

// ReportHandler serves the cached platform report.
func ReportHandler(cache *ReportCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		snap, err := cache.Get()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build report"})
			return
		}
		c.JSON(http.StatusOK, snap)
	}
}

func ListAllUsers(c *gin.Context) {
	var allUsers []users.User
	if err := database.DB.Find(&allUsers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load users"})
		return
	}

	var records []plans.PlanRecord
	if err := database.DB.Find(&records).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load plans"})
		return
	}
	byUser := make(map[uint]plans.PlanRecord, len(records))
	for _, r := range records {
		byUser[r.UserID] = r
	}

	adminUsers := make([]AdminUser, 0, len(allUsers))
	for _, u := range allUsers {
		plan := plans.TierFree
		var expiresAt *time.Time
		if rec, ok := byUser[u.ID]; ok {
			plan = rec.Plan
			expiresAt = rec.ExpiresAt
		}
		adminUsers = append(adminUsers, AdminUser{
			ID:         u.ID,
			Name:       u.Name,
			Email:      u.Email,
			Role:       u.Role,
			IsVerified: u.IsVerified,
			Plan:       plan,
			ExpiresAt:  expiresAt,
		})
	}

	c.JSON(http.StatusOK, adminUsers)
}
