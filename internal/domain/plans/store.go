package plans

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store owns all reads and writes of PlanRecord. Nothing else mutates
// plan rows. Now is injectable so expiry checks are testable.
type Store struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewStore(db *gorm.DB) *Store {
	return &Store{DB: db, Now: time.Now}
}

func (s *Store) clock() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Apply upserts the user's plan row in a single statement. The unique
// user_id key is the only concurrency control: concurrent writers for
// the same user converge on the last write.
func (s *Store) Apply(userID uint, tier string, expiresAt *time.Time) error {
	rec := PlanRecord{UserID: userID, Plan: tier, ExpiresAt: expiresAt}
	err := s.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"plan", "expires_at", "updated_at"}),
	}).Create(&rec).Error
	if err != nil {
		return fmt.Errorf("upsert plan record: %w", err)
	}
	return nil
}

// Effective returns the user's plan with expiration applied: a missing
// row is created as FREE, and an expired paid plan is downgraded to
// FREE and persisted before being returned. Callers never observe a
// stale paid tier.
func (s *Store) Effective(userID uint) (PlanRecord, error) {
	var rec PlanRecord
	err := s.DB.Where("user_id = ?", userID).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		rec = PlanRecord{UserID: userID, Plan: TierFree}
		if err := s.DB.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoNothing: true,
		}).Create(&rec).Error; err != nil {
			return PlanRecord{}, fmt.Errorf("create plan record: %w", err)
		}
		// re-read in case a concurrent create won
		if err := s.DB.Where("user_id = ?", userID).First(&rec).Error; err != nil {
			return PlanRecord{}, fmt.Errorf("load plan record: %w", err)
		}
	} else if err != nil {
		return PlanRecord{}, fmt.Errorf("load plan record: %w", err)
	}

	if rec.ExpiresAt != nil && rec.ExpiresAt.Before(s.clock()) {
		if err := s.Apply(userID, TierFree, nil); err != nil {
			return PlanRecord{}, err
		}
		rec.Plan = TierFree
		rec.ExpiresAt = nil
	}
	return rec, nil
}
