package reconcile

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/artlurun/api/catalog"
	"github.com/artlurun/api/ledger"
	"github.com/artlurun/api/models"
	"github.com/artlurun/api/notify"
)

type fakeStore struct {
	created    []ledger.NewPurchase
	createCode string
	createErr  error

	byPayment map[string]*models.Purchase
}

func (f *fakeStore) CreatePurchase(ctx context.Context, np ledger.NewPurchase) (string, error) {
	f.created = append(f.created, np)
	if f.createErr != nil {
		return "", f.createErr
	}
	return f.createCode, nil
}

func (f *fakeStore) ByPaymentID(ctx context.Context, paymentID string) (*models.Purchase, error) {
	if p, ok := f.byPayment[paymentID]; ok {
		return p, nil
	}
	return nil, ledger.ErrNotFound
}

type fakeRaces struct {
	races map[string]*models.Race
}

func (f *fakeRaces) BySlug(ctx context.Context, slug string) (*models.Race, error) {
	if r, ok := f.races[slug]; ok {
		return r, nil
	}
	return nil, catalog.ErrNotFound
}

type fakeNotifier struct {
	accessCodes  []string
	readySends   int
	orderNotices []notify.Order
}

func (f *fakeNotifier) SendAccessCode(email, name, raceName, code string) bool {
	f.accessCodes = append(f.accessCodes, code)
	return true
}

func (f *fakeNotifier) SendReportReady(email, name, raceName string) bool {
	f.readySends++
	return true
}

func (f *fakeNotifier) SendOrderNotice(admin string, o notify.Order) bool {
	f.orderNotices = append(f.orderNotices, o)
	return true
}

func newTestReconciler(store *fakeStore, races *fakeRaces, n *fakeNotifier) *Reconciler {
	return New(store, races, n, "orders@example.com", zap.NewNop())
}

func TestReconcileFreshEvent(t *testing.T) {
	store := &fakeStore{createCode: "ABCD2345"}
	races := &fakeRaces{races: map[string]*models.Race{
		"leadville-100": {ID: 7, Slug: "leadville-100"},
	}}
	notifier := &fakeNotifier{}
	r := newTestReconciler(store, races, notifier)

	code, err := r.Reconcile(context.Background(), PaymentEvent{
		Email:     "runner@example.com",
		Name:      "Sam",
		RaceSlug:  "leadville-100",
		RaceName:  "Leadville Trail 100",
		PaymentID: "pi_123",
	})
	require.NoError(t, err)
	assert.Equal(t, "ABCD2345", code)

	require.Len(t, store.created, 1)
	np := store.created[0]
	require.NotNil(t, np.RaceID)
	assert.Equal(t, 7, *np.RaceID)
	assert.Equal(t, "pi_123", np.PaymentID)

	assert.Equal(t, []string{"ABCD2345"}, notifier.accessCodes)
	require.Len(t, notifier.orderNotices, 1)
	assert.Equal(t, "Leadville Trail 100", notifier.orderNotices[0].RaceName)
}

func TestReconcileRedeliveryReturnsExistingCode(t *testing.T) {
	store := &fakeStore{
		createCode: "NEWCODE9",
		byPayment: map[string]*models.Purchase{
			"pi_123": {ID: 1, AccessCode: "ORIGINAL"},
		},
	}
	notifier := &fakeNotifier{}
	r := newTestReconciler(store, &fakeRaces{}, notifier)

	code, err := r.Reconcile(context.Background(), PaymentEvent{
		Email:     "runner@example.com",
		RaceName:  "Leadville Trail 100",
		PaymentID: "pi_123",
	})
	require.NoError(t, err)
	assert.Equal(t, "ORIGINAL", code)

	assert.Empty(t, store.created, "redelivery must not create a second purchase")
	assert.Empty(t, notifier.accessCodes, "redelivery must not re-send email")
	assert.Empty(t, notifier.orderNotices)
}

// racingStore misses the first ByPaymentID lookup and hits afterwards,
// modelling a row committed by a concurrent redelivery mid-flight.
type racingStore struct {
	winner  *models.Purchase
	lookups int
	created int
}

func (r *racingStore) CreatePurchase(ctx context.Context, np ledger.NewPurchase) (string, error) {
	r.created++
	return "", ledger.ErrDuplicatePayment
}

func (r *racingStore) ByPaymentID(ctx context.Context, paymentID string) (*models.Purchase, error) {
	r.lookups++
	if r.lookups == 1 {
		return nil, ledger.ErrNotFound
	}
	return r.winner, nil
}

// A concurrent redelivery can pass the pre-check and lose the insert instead.
// The loser resolves against the winner's row.
func TestReconcileLostInsertRace(t *testing.T) {
	store := &racingStore{winner: &models.Purchase{ID: 2, AccessCode: "WINNER77"}}
	notifier := &fakeNotifier{}
	r := New(store, &fakeRaces{}, notifier, "orders@example.com", zap.NewNop())

	code, err := r.Reconcile(context.Background(), PaymentEvent{
		Email:     "runner@example.com",
		RaceName:  "Hardrock 100",
		PaymentID: "pi_456",
	})
	require.NoError(t, err)
	assert.Equal(t, "WINNER77", code)
	assert.Equal(t, 1, store.created)
	assert.Empty(t, notifier.accessCodes, "insert loser must not send email")
}

func TestReconcileRaceNotInCatalog(t *testing.T) {
	store := &fakeStore{createCode: "QRST6789"}
	notifier := &fakeNotifier{}
	r := newTestReconciler(store, &fakeRaces{}, notifier)

	code, err := r.Reconcile(context.Background(), PaymentEvent{
		Email:    "runner@example.com",
		RaceSlug: "not-yet-added",
		RaceName: "Brand New Race 100",
	})
	require.NoError(t, err)
	assert.Equal(t, "QRST6789", code)

	require.Len(t, store.created, 1)
	assert.Nil(t, store.created[0].RaceID, "unknown slug still records the purchase, without a race link")
	assert.Equal(t, "Brand New Race 100", store.created[0].RaceName)
}

func TestReconcileRejectsIncompleteEvent(t *testing.T) {
	r := newTestReconciler(&fakeStore{}, &fakeRaces{}, &fakeNotifier{})

	_, err := r.Reconcile(context.Background(), PaymentEvent{RaceName: "Leadville Trail 100"})
	assert.Error(t, err)

	_, err = r.Reconcile(context.Background(), PaymentEvent{Email: "runner@example.com"})
	assert.Error(t, err)
}
