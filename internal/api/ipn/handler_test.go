package ipn

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"journal-app/config"
	"journal-app/internal/billing"
	"journal-app/internal/domain/plans"
	"journal-app/internal/domain/users"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&users.User{}, &plans.PlanRecord{}))

	r := gin.New()
	r.POST("/ipn", NewHandler(billing.NewReconciler(db)).HandleIPN)
	return r, db
}

func postIPN(t *testing.T, r *gin.Engine, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/ipn", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestIPNAppliesFinishedPayment(t *testing.T) {
	r, db := setupRouter(t)
	u := users.User{Email: "a@x.com", Role: "user", IsVerified: true}
	require.NoError(t, db.Create(&u).Error)

	w := postIPN(t, r, `{"payment_status":"finished","price_amount":40,"customer_email":"a@x.com"}`, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "applied", resp["status"])

	var rec plans.PlanRecord
	require.NoError(t, db.Where("user_id = ?", u.ID).First(&rec).Error)
	assert.Equal(t, plans.TierNormal, rec.Plan)
	require.NotNil(t, rec.ExpiresAt)
	assert.WithinDuration(t, time.Now().AddDate(1, 0, 0), *rec.ExpiresAt, 48*time.Hour)
}

func TestIPNAcceptsStringAmount(t *testing.T) {
	r, db := setupRouter(t)
	u := users.User{Email: "a@x.com", Role: "user"}
	require.NoError(t, db.Create(&u).Error)

	w := postIPN(t, r, `{"payment_status":"confirmed","price_amount":"16","customer_email":"a@x.com"}`, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var rec plans.PlanRecord
	require.NoError(t, db.Where("user_id = ?", u.ID).First(&rec).Error)
	assert.Equal(t, plans.TierPro, rec.Plan)
}

func TestIPNIgnoresPendingStatus(t *testing.T) {
	r, db := setupRouter(t)
	u := users.User{Email: "a@x.com", Role: "user"}
	require.NoError(t, db.Create(&u).Error)

	w := postIPN(t, r, `{"payment_status":"waiting","price_amount":40,"customer_email":"a@x.com"}`, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ignored", resp["status"])

	var count int64
	require.NoError(t, db.Model(&plans.PlanRecord{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestIPNUnknownUserAnswers200(t *testing.T) {
	r, db := setupRouter(t)

	w := postIPN(t, r, `{"payment_status":"finished","price_amount":40,"customer_email":"ghost@x.com"}`, nil)
	// 200 so the gateway treats the drop as terminal and does not retry
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "dropped", resp["status"])

	var count int64
	require.NoError(t, db.Model(&plans.PlanRecord{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestIPNRejectsMalformedPayload(t *testing.T) {
	r, _ := setupRouter(t)

	assert.Equal(t, http.StatusBadRequest, postIPN(t, r, `{not json`, nil).Code)
	assert.Equal(t, http.StatusBadRequest, postIPN(t, r, `{"customer_email":"a@x.com"}`, nil).Code)
	assert.Equal(t, http.StatusBadRequest, postIPN(t, r, `{"payment_status":"finished","price_amount":"lots","customer_email":"a@x.com"}`, nil).Code)
}

func TestIPNRejectsOversizedBody(t *testing.T) {
	r, _ := setupRouter(t)

	big := `{"payment_status":"finished","price_amount":40,"customer_email":"a@x.com","pad":"` +
		strings.Repeat("x", 70000) + `"}`
	w := postIPN(t, r, big, nil)
	// terminal, so the gateway does not re-deliver the payload forever
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestIPNSignatureVerification(t *testing.T) {
	r, db := setupRouter(t)
	u := users.User{Email: "a@x.com", Role: "user"}
	require.NoError(t, db.Create(&u).Error)

	config.NOWPAYMENTS_IPN_SECRET = "topsecret"
	t.Cleanup(func() { config.NOWPAYMENTS_IPN_SECRET = "" })

	body := `{"payment_status":"finished","price_amount":60,"customer_email":"a@x.com"}`

	w := postIPN(t, r, body, map[string]string{"x-nowpayments-sig": "deadbeef"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	mac := hmac.New(sha512.New, []byte("topsecret"))
	mac.Write([]byte(body))
	sig := hex.EncodeToString(mac.Sum(nil))

	w = postIPN(t, r, body, map[string]string{"x-nowpayments-sig": sig})
	assert.Equal(t, http.StatusOK, w.Code)

	var rec plans.PlanRecord
	require.NoError(t, db.Where("user_id = ?", u.ID).First(&rec).Error)
	assert.Equal(t, plans.TierPro, rec.Plan)
}
