// Package reconcile turns an externally verified payment confirmation into
// exactly one purchase, tolerating at-least-once delivery from the payment
// collaborator.
package reconcile

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/artlurun/api/catalog"
	"github.com/artlurun/api/ledger"
	"github.com/artlurun/api/models"
	"github.com/artlurun/api/notify"
)

// PaymentEvent is one confirmed payment. PaymentID is the processor's
// transaction id and serves as the deduplication key; it is empty on the
// direct-purchase path, which runs at most once per form submission.
type PaymentEvent struct {
	Email     string `json:"email"`
	Name      string `json:"name"`
	RaceSlug  string `json:"race_slug"`
	RaceName  string `json:"race_name"`
	GoalTime  string `json:"goal_time"`
	City      string `json:"city"`
	State     string `json:"state"`
	PaymentID string `json:"payment_id"`
	SessionID string `json:"session_id"`
}

// PurchaseStore is the slice of the ledger the reconciler writes through.
type PurchaseStore interface {
	CreatePurchase(ctx context.Context, np ledger.NewPurchase) (string, error)
	ByPaymentID(ctx context.Context, paymentID string) (*models.Purchase, error)
}

// RaceFinder resolves a slug to a catalog race.
type RaceFinder interface {
	BySlug(ctx context.Context, slug string) (*models.Race, error)
}

// Reconciler drives the ledger from payment events.
type Reconciler struct {
	purchases  PurchaseStore
	races      RaceFinder
	notifier   notify.Notifier
	adminEmail string
	log        *zap.Logger
}

// New creates a Reconciler.
func New(purchases PurchaseStore, races RaceFinder, notifier notify.Notifier, adminEmail string, log *zap.Logger) *Reconciler {
	return &Reconciler{
		purchases:  purchases,
		races:      races,
		notifier:   notifier,
		adminEmail: adminEmail,
		log:        log,
	}
}

// Reconcile records one purchase for the event and returns its access code.
//
// Redelivery of the same transaction id returns the original access code
// without creating a second purchase or re-sending email. The pre-check only
// saves work; the real guard is the unique index on payment_id, so a
// concurrent duplicate surfaces as ErrDuplicatePayment from the insert and is
// resolved by re-reading the winner's row.
func (r *Reconciler) Reconcile(ctx context.Context, ev PaymentEvent) (string, error) {
	if ev.Email == "" || ev.RaceName == "" {
		return "", errors.New("payment event missing email or race name")
	}

	if ev.PaymentID != "" {
		existing, err := r.purchases.ByPaymentID(ctx, ev.PaymentID)
		if err == nil {
			r.log.Info("payment event redelivered, returning existing purchase",
				zap.String("payment_id", ev.PaymentID),
				zap.Int("purchase_id", existing.ID))
			return existing.AccessCode, nil
		}
		if !errors.Is(err, ledger.ErrNotFound) {
			return "", err
		}
	}

	// A race missing from the catalog is not a failure: the purchase is
	// still recorded against the human-readable name.
	var raceID *int
	if ev.RaceSlug != "" {
		race, err := r.races.BySlug(ctx, ev.RaceSlug)
		switch {
		case err == nil:
			raceID = &race.ID
		case errors.Is(err, catalog.ErrNotFound):
			r.log.Warn("purchase references race not in catalog",
				zap.String("slug", ev.RaceSlug), zap.String("race_name", ev.RaceName))
		default:
			return "", err
		}
	}

	code, err := r.purchases.CreatePurchase(ctx, ledger.NewPurchase{
		Email:     ev.Email,
		Name:      ev.Name,
		RaceID:    raceID,
		RaceName:  ev.RaceName,
		GoalTime:  ev.GoalTime,
		City:      ev.City,
		State:     ev.State,
		PaymentID: ev.PaymentID,
		SessionID: ev.SessionID,
	})
	if errors.Is(err, ledger.ErrDuplicatePayment) {
		// Lost the insert race against a concurrent redelivery.
		existing, lookupErr := r.purchases.ByPaymentID(ctx, ev.PaymentID)
		if lookupErr != nil {
			return "", lookupErr
		}
		return existing.AccessCode, nil
	}
	if err != nil {
		return "", err
	}

	r.notify(ev, code)

	return code, nil
}

// notify fires both notices. Failures are logged and never fail the
// reconciliation; the purchase row is the source of truth.
func (r *Reconciler) notify(ev PaymentEvent, code string) {
	if ok := r.notifier.SendAccessCode(ev.Email, ev.Name, ev.RaceName, code); !ok {
		r.log.Warn("access code email not sent", zap.String("email", ev.Email))
	}
	if ok := r.notifier.SendOrderNotice(r.adminEmail, notify.Order{
		Name:     ev.Name,
		Email:    ev.Email,
		RaceName: ev.RaceName,
		GoalTime: ev.GoalTime,
		City:     ev.City,
		State:    ev.State,
	}); !ok {
		r.log.Warn("admin order notice not sent", zap.String("admin", r.adminEmail))
	}
}
