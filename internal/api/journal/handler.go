package journal

import (
	"net/http"
	"time"

	"journal-app/database"
	"journal-app/internal/domain/journal"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type TradeDTO struct {
	ID         uint       `json:"id"`
	JournalID  uint       `json:"journal_id"`
	Symbol     string     `json:"symbol"`
	Direction  string     `json:"direction"`
	EntryPrice float64    `json:"entry_price"`
	ExitPrice  float64    `json:"exit_price"`
	PnL        float64    `json:"pnl"`
	Outcome    string     `json:"outcome"`
	OpenedAt   *time.Time `json:"opened_at"`
	CreatedAt  time.Time  `json:"created_at"`
}

func CreateJournal(c *gin.Context) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var body struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing journal name"})
		return
	}

	j := journal.Journal{
		UserID:      userID,
		Name:        body.Name,
		Description: body.Description,
	}
	if err := database.DB.Create(&j).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create journal"})
		return
	}

	c.JSON(http.StatusOK, j)
}

func ListJournals(c *gin.Context) {
	userID := c.GetUint("user_id")

	var journals []journal.Journal
	if err := database.DB.Where("user_id = ?", userID).Order("created_at DESC").Find(&journals).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load journals"})
		return
	}

	c.JSON(http.StatusOK, journals)
}

func CreateTrade(c *gin.Context) {
	userID := c.GetUint("user_id")
	email := c.GetString("email")

	var body struct {
		JournalID  uint       `json:"journal_id" binding:"required"`
		Symbol     string     `json:"symbol" binding:"required"`
		Direction  string     `json:"direction"`
		EntryPrice float64    `json:"entry_price"`
		ExitPrice  float64    `json:"exit_price"`
		PnL        float64    `json:"pnl"`
		OpenedAt   *time.Time `json:"opened_at"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing or invalid trade fields"})
		return
	}

	// ownership check
	var j journal.Journal
	if err := database.DB.Where("id = ? AND user_id = ?", body.JournalID, userID).First(&j).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Journal not found"})
		return
	}

	t := journal.Trade{
		JournalID:  j.ID,
		UserID:     userID,
		Symbol:     body.Symbol,
		Direction:  body.Direction,
		EntryPrice: body.EntryPrice,
		ExitPrice:  body.ExitPrice,
		PnL:        body.PnL,
		OpenedAt:   body.OpenedAt,
	}
	if err := database.DB.Create(&t).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create trade"})
		return
	}

	// best-effort activity feed entry; the trade is already committed
	if err := database.DB.Create(&journal.ActivityLog{
		UserID:    userID,
		UserEmail: email,
		Action:    "trade",
		Status:    t.Outcome(),
	}).Error; err != nil {
		logrus.WithError(err).WithField("user_id", userID).Warn("failed to append activity log entry")
	}

	c.JSON(http.StatusOK, toTradeDTO(t))
}

func ListTrades(c *gin.Context) {
	userID := c.GetUint("user_id")

	q := database.DB.Where("user_id = ?", userID)
	if jid := c.Query("journal_id"); jid != "" {
		q = q.Where("journal_id = ?", jid)
	}

	var trades []journal.Trade
	if err := q.Order("created_at DESC").Find(&trades).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load trades"})
		return
	}

	out := make([]TradeDTO, 0, len(trades))
	for _, t := range trades {
		out = append(out, toTradeDTO(t))
	}
	c.JSON(http.StatusOK, out)
}

// GetAnalytics summarizes the caller's trades. Paid-gated in routes.
func GetAnalytics(c *gin.Context) {
	userID := c.GetUint("user_id")

	var trades []journal.Trade
	if err := database.DB.Where("user_id = ?", userID).Find(&trades).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load trades"})
		return
	}

	wins := 0
	totalPnL := 0.0
	for _, t := range trades {
		if t.Outcome() == journal.OutcomeSuccess {
			wins++
		}
		totalPnL += t.PnL
	}

	winRate := 0.0
	if len(trades) > 0 {
		winRate = float64(wins) / float64(len(trades))
	}

	c.JSON(http.StatusOK, gin.H{
		"total_trades": len(trades),
		"wins":         wins,
		"losses":       len(trades) - wins,
		"win_rate":     winRate,
		"total_pnl":    totalPnL,
	})
}

func toTradeDTO(t journal.Trade) TradeDTO {
	return TradeDTO{
		ID:         t.ID,
		JournalID:  t.JournalID,
		Symbol:     t.Symbol,
		Direction:  t.Direction,
		EntryPrice: t.EntryPrice,
		ExitPrice:  t.ExitPrice,
		PnL:        t.PnL,
		Outcome:    t.Outcome(),
		OpenedAt:   t.OpenedAt,
		CreatedAt:  t.CreatedAt,
	}
}
