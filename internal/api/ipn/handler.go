package ipn

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"journal-app/config"
	"journal-app/internal/billing"
	"journal-app/internal/infra/nowpayments"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	Reconciler *billing.Reconciler
}

func NewHandler(r *billing.Reconciler) *Handler {
	return &Handler{Reconciler: r}
}

type ipnPayload struct {
	PaymentStatus string      `json:"payment_status"`
	PriceAmount   json.Number `json:"price_amount"`
	CustomerEmail string      `json:"customer_email"`
}

// POST /ipn: the gateway's asynchronous payment notification.
// Pending statuses and unknown users answer 200 so the gateway does
// not retry; only persistence failures are retryable.
func (h *Handler) HandleIPN(c *gin.Context) {
	payload, err := readIPNBody(c, 65536)
	if err != nil {
		// Terminal: an unreadable or oversized body will not improve on retry.
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unreadable or oversized request body"})
		return
	}

	if secret := config.NOWPAYMENTS_IPN_SECRET; secret != "" {
		if !nowpayments.VerifySignature(secret, payload, c.GetHeader("x-nowpayments-sig")) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Signature verification failed"})
			return
		}
	}

	var body ipnPayload
	if err := json.Unmarshal(payload, &body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Malformed IPN payload"})
		return
	}
	if body.PaymentStatus == "" || body.PriceAmount == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing payment_status or price_amount"})
		return
	}

	amount, err := body.PriceAmount.Float64()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unparsable price_amount"})
		return
	}

	outcome, err := h.Reconciler.Reconcile(billing.Event{
		Status:        body.PaymentStatus,
		Amount:        amount,
		CustomerEmail: body.CustomerEmail,
	})
	switch {
	case errors.Is(err, billing.ErrUserNotFound), errors.Is(err, billing.ErrMissingIdentity):
		// Terminal: the gateway must not retry on this response.
		logrus.WithField("email", body.CustomerEmail).Warn("payment event dropped: ", err)
		c.JSON(http.StatusOK, gin.H{"status": "dropped"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to apply payment"})
	case outcome == billing.Applied:
		c.JSON(http.StatusOK, gin.H{"status": "applied"})
	default:
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
	}
}

func readIPNBody(c *gin.Context, maxBytes int64) ([]byte, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
	return io.ReadAll(c.Request.Body)
}
