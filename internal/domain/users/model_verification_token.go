package users

import "time"

// Token types issued by the auth handlers.
const (
	TokenTypeEmailVerification = "email_verification"
)

// VerificationToken backs one-time email-verification links. At most
// one live token per user; consumed (deleted) on first use.
type VerificationToken struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    uint   `gorm:"uniqueIndex"`
	User      User   `gorm:"constraint:OnDelete:CASCADE"`
	Token     string `gorm:"uniqueIndex"`
	Type      string `gorm:"index"`
	ExpiresAt time.Time
	CreatedAt time.Time
}
