package middleware

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"journal-app/database"
	"journal-app/internal/domain/plans"
	"journal-app/internal/domain/users"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupGuardRouter(t *testing.T, email string) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&users.User{}, &plans.PlanRecord{}))

	prev := database.DB
	database.DB = db
	t.Cleanup(func() { database.DB = prev })

	r := gin.New()
	r.GET("/analytics",
		func(c *gin.Context) { c.Set("email", email) },
		RequirePaidPlan(),
		func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) },
	)
	return r, db
}

func getGuarded(t *testing.T, r *gin.Engine) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/analytics", nil))
	return w
}

func TestRequirePaidPlanRejectsExpiredPlan(t *testing.T) {
	r, db := setupGuardRouter(t, "a@x.com")
	u := users.User{Email: "a@x.com", Role: "user"}
	require.NoError(t, db.Create(&u).Error)

	expired := time.Now().Add(-time.Second)
	require.NoError(t, plans.NewStore(db).Apply(u.ID, plans.TierPro, &expired))

	w := getGuarded(t, r)
	assert.Equal(t, http.StatusPaymentRequired, w.Code)

	// the guard's read must have persisted the downgrade
	var rec plans.PlanRecord
	require.NoError(t, db.Where("user_id = ?", u.ID).First(&rec).Error)
	assert.Equal(t, plans.TierFree, rec.Plan)
	assert.Nil(t, rec.ExpiresAt)
}

func TestRequirePaidPlanAllowsActivePlan(t *testing.T) {
	r, db := setupGuardRouter(t, "a@x.com")
	u := users.User{Email: "a@x.com", Role: "user"}
	require.NoError(t, db.Create(&u).Error)

	future := time.Now().Add(time.Hour)
	require.NoError(t, plans.NewStore(db).Apply(u.ID, plans.TierNormal, &future))

	w := getGuarded(t, r)
	assert.Equal(t, http.StatusOK, w.Code)

	var rec plans.PlanRecord
	require.NoError(t, db.Where("user_id = ?", u.ID).First(&rec).Error)
	assert.Equal(t, plans.TierNormal, rec.Plan, "a valid plan must pass untouched")
}

func TestRequirePaidPlanRejectsFreeTier(t *testing.T) {
	r, db := setupGuardRouter(t, "a@x.com")
	u := users.User{Email: "a@x.com", Role: "user"}
	require.NoError(t, db.Create(&u).Error)

	w := getGuarded(t, r)
	assert.Equal(t, http.StatusPaymentRequired, w.Code)
}

func TestRequirePaidPlanRejectsUnknownUser(t *testing.T) {
	r, _ := setupGuardRouter(t, "ghost@x.com")

	w := getGuarded(t, r)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
