package plans

import "time"

// PlanRecord is the single durable row of plan state per user. A nil
// ExpiresAt on a paid tier means the plan never expires.
type PlanRecord struct {
	ID        uint       `gorm:"primaryKey"`
	UserID    uint       `gorm:"not null;uniqueIndex:idx_plan_records_user_id"`
	Plan      string     `gorm:"type:varchar(10);not null;default:'FREE'"`
	ExpiresAt *time.Time `gorm:"column:expires_at"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
