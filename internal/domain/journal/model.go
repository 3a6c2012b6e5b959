package journal

import "time"

type Journal struct {
	ID          uint `gorm:"primaryKey"`
	UserID      uint `gorm:"not null;index"`
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Trade struct {
	ID         uint `gorm:"primaryKey"`
	JournalID  uint `gorm:"not null;index"`
	UserID     uint `gorm:"not null;index"`
	Symbol     string
	Direction  string `gorm:"type:varchar(10)"` // long | short
	EntryPrice float64
	ExitPrice  float64
	PnL        float64    `gorm:"column:pnl"`
	OpenedAt   *time.Time `gorm:"column:opened_at"`
	CreatedAt  time.Time  `gorm:"index"`
}

const (
	OutcomeSuccess = "Success"
	OutcomeLoss    = "Loss"
)

// Outcome labels the trade for the activity feed.
func (t Trade) Outcome() string {
	if t.PnL >= 0 {
		return OutcomeSuccess
	}
	return OutcomeLoss
}

// ActivityLog feeds the admin report's recent-activity list.
type ActivityLog struct {
	ID        uint `gorm:"primaryKey"`
	UserID    uint `gorm:"index"`
	UserEmail string
	Action    string
	Status    string    `gorm:"type:varchar(10)"` // Success | Loss
	CreatedAt time.Time `gorm:"index"`
}
