package billing

import (
	"fmt"
	"net/http"

	"journal-app/config"
	"journal-app/database"
	"journal-app/internal/domain/plans"
	"journal-app/internal/domain/users"
	"journal-app/internal/infra/nowpayments"

	"github.com/gin-gonic/gin"
)

// POST /create-invoice: outbound gateway call only. Plan state is
// untouched here; it changes when the IPN confirms the payment.
func CreateInvoice(c *gin.Context) {
	var body struct {
		Plan     string `json:"plan" binding:"required"`
		Duration string `json:"duration"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing or invalid plan"})
		return
	}

	tier, err := plans.ParseTier(body.Plan)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown plan"})
		return
	}
	if tier == plans.TierFree {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Free plan does not require payment"})
		return
	}
	duration := plans.NormalizeDuration(body.Duration)

	price, ok := plans.Price(tier, duration)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No price point for this plan"})
		return
	}

	userID := c.GetUint("user_id")
	var user users.User
	if err := database.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		return
	}

	client := nowpayments.NewClient(config.NOWPAYMENTS_API_KEY, config.NOWPAYMENTS_API_URL)
	inv, err := client.CreateInvoice(c.Request.Context(), nowpayments.InvoiceParams{
		PriceAmount:      price,
		PriceCurrency:    "usd",
		OrderID:          fmt.Sprintf("user-%d-%s-%s", user.ID, tier, duration),
		OrderDescription: fmt.Sprintf("%s plan (%s) for %s", tier, duration, user.Email),
		SuccessURL:       config.APP_URL + "/account?upgraded=1",
		CancelURL:        config.APP_URL + "/account?canceled=1",
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create invoice"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"invoice_url": inv.InvoiceURL})
}
