package middleware

import (
	"net/http"

	"journal-app/database"
	"journal-app/internal/domain/plans"
	"journal-app/internal/domain/users"

	"github.com/gin-gonic/gin"
)

// RequirePaidPlan gates routes behind a non-FREE effective plan. The
// read goes through the plan store so an expired plan is downgraded
// before the decision is made.
func RequirePaidPlan() gin.HandlerFunc {
	return func(c *gin.Context) {
		email := c.GetString("email")
		var user users.User

		if err := database.DB.Where("email = ?", email).First(&user).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "User not found",
			})
			return
		}

		rec, err := plans.NewStore(database.DB).Effective(user.ID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to check plan",
			})
			return
		}

		if rec.Plan == plans.TierFree {
			c.AbortWithStatusJSON(http.StatusPaymentRequired, gin.H{
				"error": "Your plan has expired or does not include this feature",
			})
			return
		}

		c.Next()
	}
}
