package billing

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"journal-app/internal/domain/plans"
	"journal-app/internal/domain/users"
	"journal-app/internal/infra/nowpayments"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Event is the transient payment notification delivered by the
// gateway. It is validated and either applied or discarded, never
// stored.
type Event struct {
	Status        string
	Amount        float64
	CustomerEmail string
}

type Outcome int

const (
	Ignored Outcome = iota
	Applied
)

var (
	ErrMissingIdentity = errors.New("payment event missing customer email")
	ErrUserNotFound    = errors.New("no user matches payment customer email")
)

// Reconciler is the sole authorized mutator of plan state in response
// to confirmed payments. It never creates user records from gateway
// events; user existence belongs to the auth subsystem.
type Reconciler struct {
	DB    *gorm.DB
	Plans *plans.Store
	Now   func() time.Time
}

func NewReconciler(db *gorm.DB) *Reconciler {
	return &Reconciler{DB: db, Plans: plans.NewStore(db), Now: time.Now}
}

func (r *Reconciler) clock() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

// Reconcile applies one payment event. Non-final statuses are the
// normal pending case and return Ignored without error. The write is a
// single atomic upsert keyed by user, so duplicate deliveries of the
// same event converge to the same row.
func (r *Reconciler) Reconcile(ev Event) (Outcome, error) {
	if !nowpayments.IsConfirmed(ev.Status) {
		logrus.WithFields(logrus.Fields{
			"status": nowpayments.NormalizeStatus(ev.Status),
			"email":  ev.CustomerEmail,
		}).Info("ignoring non-final payment status")
		return Ignored, nil
	}

	email := strings.TrimSpace(ev.CustomerEmail)
	if email == "" {
		return Ignored, ErrMissingIdentity
	}

	var user users.User
	err := r.DB.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Ignored, ErrUserNotFound
	}
	if err != nil {
		return Ignored, fmt.Errorf("look up user by email: %w", err)
	}

	tier, duration := plans.ResolveAmount(ev.Amount)
	expiresAt := plans.ExpiryFor(r.clock(), tier, duration)

	if err := r.Plans.Apply(user.ID, tier, expiresAt); err != nil {
		return Ignored, err
	}

	logrus.WithFields(logrus.Fields{
		"user_id": user.ID,
		"plan":    tier,
		"amount":  ev.Amount,
	}).Info("payment reconciled")
	return Applied, nil
}

// Upgrade is the user-initiated confirm path: the tier and duration
// come from an authenticated action instead of a gateway event, and
// the acting user record is created if absent. Payment authorization
// is not checked here; that is the gateway's job via IPN.
func (r *Reconciler) Upgrade(email, tier, duration string) (plans.PlanRecord, error) {
	parsed, err := plans.ParseTier(tier)
	if err != nil {
		return plans.PlanRecord{}, err
	}
	duration = plans.NormalizeDuration(duration)

	var user users.User
	if err := r.DB.Where("email = ?", email).
		FirstOrCreate(&user, users.User{Email: email, Role: "user"}).Error; err != nil {
		return plans.PlanRecord{}, fmt.Errorf("ensure user: %w", err)
	}

	expiresAt := plans.ExpiryFor(r.clock(), parsed, duration)
	if err := r.Plans.Apply(user.ID, parsed, expiresAt); err != nil {
		return plans.PlanRecord{}, err
	}

	return plans.PlanRecord{UserID: user.ID, Plan: parsed, ExpiresAt: expiresAt}, nil
}
