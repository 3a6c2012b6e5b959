package plans

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&PlanRecord{}))
	return db
}

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func TestEffectiveCreatesFreeRecord(t *testing.T) {
	store := NewStore(openTestDB(t))

	rec, err := store.Effective(7)
	require.NoError(t, err)
	assert.Equal(t, TierFree, rec.Plan)
	assert.Nil(t, rec.ExpiresAt)

	var count int64
	require.NoError(t, store.DB.Model(&PlanRecord{}).Where("user_id = ?", 7).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestEffectiveDowngradesExpiredPlan(t *testing.T) {
	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	store := NewStore(openTestDB(t))
	store.Now = fixedClock(now)

	expired := now.Add(-time.Second)
	require.NoError(t, store.Apply(1, TierPro, &expired))

	rec, err := store.Effective(1)
	require.NoError(t, err)
	assert.Equal(t, TierFree, rec.Plan)
	assert.Nil(t, rec.ExpiresAt)

	// the downgrade must be persisted, not just reflected in the return
	var stored PlanRecord
	require.NoError(t, store.DB.Where("user_id = ?", 1).First(&stored).Error)
	assert.Equal(t, TierFree, stored.Plan)
	assert.Nil(t, stored.ExpiresAt)
}

func TestEffectiveLeavesValidPlanAlone(t *testing.T) {
	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	store := NewStore(openTestDB(t))
	store.Now = fixedClock(now)

	future := now.Add(time.Hour)
	require.NoError(t, store.Apply(2, TierNormal, &future))

	rec, err := store.Effective(2)
	require.NoError(t, err)
	assert.Equal(t, TierNormal, rec.Plan)
	require.NotNil(t, rec.ExpiresAt)
	assert.True(t, rec.ExpiresAt.Equal(future))
}

func TestEffectiveNilExpiryNeverExpires(t *testing.T) {
	store := NewStore(openTestDB(t))
	store.Now = fixedClock(time.Date(2099, time.January, 1, 0, 0, 0, 0, time.UTC))

	require.NoError(t, store.Apply(3, TierPro, nil))

	rec, err := store.Effective(3)
	require.NoError(t, err)
	assert.Equal(t, TierPro, rec.Plan)
	assert.Nil(t, rec.ExpiresAt)
}

func TestApplyUpsertsSingleRow(t *testing.T) {
	store := NewStore(openTestDB(t))

	exp1 := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.Apply(4, TierNormal, &exp1))

	exp2 := time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.Apply(4, TierPro, &exp2))

	var recs []PlanRecord
	require.NoError(t, store.DB.Where("user_id = ?", 4).Find(&recs).Error)
	require.Len(t, recs, 1)
	assert.Equal(t, TierPro, recs[0].Plan)
	require.NotNil(t, recs[0].ExpiresAt)
	assert.True(t, recs[0].ExpiresAt.Equal(exp2))
}
