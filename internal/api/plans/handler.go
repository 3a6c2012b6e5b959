package plans

import (
	"errors"
	"net/http"
	"time"

	"journal-app/database"
	"journal-app/internal/billing"
	"journal-app/internal/domain/plans"
	"journal-app/internal/domain/users"

	"github.com/gin-gonic/gin"
)

type EffectivePlanResponse struct {
	Plan      string     `json:"plan"`
	ExpiresAt *time.Time `json:"expiresAt"`
}

// GET /plans: public catalog listing
func ListPlans(c *gin.Context) {
	c.JSON(http.StatusOK, plans.Catalog())
}

// GET /plan: the caller's effective plan, expiration applied
func GetEffectivePlan(c *gin.Context) {
	email := c.GetString("email")
	if email == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var user users.User
	if err := database.DB.Where("email = ?", email).
		FirstOrCreate(&user, users.User{Email: email, Role: "user"}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load user"})
		return
	}

	rec, err := plans.NewStore(database.DB).Effective(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load plan"})
		return
	}

	c.JSON(http.StatusOK, EffectivePlanResponse{Plan: rec.Plan, ExpiresAt: rec.ExpiresAt})
}

// POST /upgrade: confirm a plan the user already paid for via the
// hosted invoice redirect. The tier selection is trusted; payment
// authorization stays with the gateway IPN path.
func Upgrade(c *gin.Context) {
	email := c.GetString("email")
	if email == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var body struct {
		Plan     string `json:"plan" binding:"required"`
		Duration string `json:"duration"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing or invalid plan"})
		return
	}

	rec, err := billing.NewReconciler(database.DB).Upgrade(email, body.Plan, body.Duration)
	if errors.Is(err, plans.ErrInvalidPlan) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown plan"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update plan"})
		return
	}

	c.JSON(http.StatusOK, EffectivePlanResponse{Plan: rec.Plan, ExpiresAt: rec.ExpiresAt})
}
