// Package ledger is the record-of-truth for paid orders. It is the only
// writer of purchase rows and owns access-code generation and premium-data
// attachment.
package ledger

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/uptrace/bun"

	"github.com/artlurun/api/models"
)

var (
	// ErrNotFound means the referenced purchase does not exist.
	ErrNotFound = errors.New("purchase not found")
	// ErrDuplicatePayment means a purchase already exists for the payment id.
	ErrDuplicatePayment = errors.New("payment already recorded")
)

// Alphabet omits 0/O/1/I/L so codes survive being read over the phone.
const (
	codeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"
	codeLength   = 8

	createAttempts = 5
)

// Ledger provides purchase storage on top of bun.
type Ledger struct {
	db *bun.DB
}

// New creates a Ledger backed by the given database.
func New(db *bun.DB) *Ledger {
	return &Ledger{db: db}
}

// NewPurchase carries the fields of a purchase to be created.
// RaceID may be nil when the race is not yet in the catalog; the purchase is
// still recorded against RaceName.
type NewPurchase struct {
	Email     string
	Name      string
	RaceID    *int
	RaceName  string
	GoalTime  string
	City      string
	State     string
	PaymentID string
	SessionID string
}

// CreatePurchase inserts a new purchase with a freshly generated access code
// and returns the code. The access_code unique constraint is the collision
// guard: a duplicate-key hit regenerates and retries. A duplicate on the
// payment id index returns ErrDuplicatePayment so the caller can resolve the
// redelivery against the existing row.
func (l *Ledger) CreatePurchase(ctx context.Context, np NewPurchase) (string, error) {
	if np.Email == "" || np.RaceName == "" {
		return "", errors.New("email and race name are required")
	}

	var lastErr error
	for attempt := 0; attempt < createAttempts; attempt++ {
		code := GenerateCode()
		p := &models.Purchase{
			Email:      strings.ToLower(strings.TrimSpace(np.Email)),
			Name:       nullable(np.Name),
			RaceID:     np.RaceID,
			RaceName:   np.RaceName,
			AccessCode: code,
			PaymentID:  nullable(np.PaymentID),
			SessionID:  nullable(np.SessionID),
			GoalTime:   nullable(np.GoalTime),
			City:       nullable(np.City),
			State:      nullable(np.State),
		}

		_, err := l.db.NewInsert().Model(p).Exec(ctx)
		if err == nil {
			return code, nil
		}
		if strings.Contains(err.Error(), "purchases_payment_id_uniq") {
			return "", ErrDuplicatePayment
		}
		if !strings.Contains(strings.ToLower(err.Error()), "duplicate key value") {
			return "", err
		}
		// Access code collision, regenerate.
		lastErr = err
	}

	return "", fmt.Errorf("access code generation exhausted retries: %w", lastErr)
}

// ByCode looks up a purchase by email and access code. The code comparison is
// case-insensitive; the email must match exactly.
func (l *Ledger) ByCode(ctx context.Context, email, code string) (*models.Purchase, error) {
	p := &models.Purchase{}
	err := l.db.NewSelect().Model(p).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		Where("access_code = ?", strings.ToUpper(strings.TrimSpace(code))).
		Scan(ctx)
	return found(p, err)
}

// ByEmail returns all purchases for an email, most recent first.
func (l *Ledger) ByEmail(ctx context.Context, email string) ([]models.Purchase, error) {
	var purchases []models.Purchase
	err := l.db.NewSelect().Model(&purchases).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		OrderExpr("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return purchases, nil
}

// ForRace reports whether the email already holds a purchase for the race.
func (l *Ledger) ForRace(ctx context.Context, email string, raceID int) (*models.Purchase, error) {
	p := &models.Purchase{}
	err := l.db.NewSelect().Model(p).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		Where("race_id = ?", raceID).
		Limit(1).
		Scan(ctx)
	return found(p, err)
}

// ByPaymentID looks up a purchase by the processor transaction id.
func (l *Ledger) ByPaymentID(ctx context.Context, paymentID string) (*models.Purchase, error) {
	p := &models.Purchase{}
	err := l.db.NewSelect().Model(p).
		Where("payment_id = ?", paymentID).
		Scan(ctx)
	return found(p, err)
}

// ByID looks up a purchase by its numeric id.
func (l *Ledger) ByID(ctx context.Context, id int) (*models.Purchase, error) {
	p := &models.Purchase{}
	err := l.db.NewSelect().Model(p).
		Where("p.id = ?", id).
		Scan(ctx)
	return found(p, err)
}

// AttachPremiumData overwrites the purchase's premium data bundle.
// Last write wins; there is no merge. This is the building → ready transition.
func (l *Ledger) AttachPremiumData(ctx context.Context, purchaseID int, doc json.RawMessage) error {
	res, err := l.db.NewUpdate().
		Model((*models.Purchase)(nil)).
		Set("premium_data = ?", string(doc)).
		Where("id = ?", purchaseID).
		Exec(ctx)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// GenerateCode returns a new access code: codeLength uppercase characters
// drawn from an unambiguous alphabet via crypto/rand. Bytes at or above the
// largest multiple of the alphabet size are rejected so a plain modulo does
// not skew toward the early characters.
func GenerateCode() string {
	limit := 256 - 256%len(codeAlphabet)
	out := make([]byte, 0, codeLength)
	buf := make([]byte, codeLength)
	for len(out) < codeLength {
		if _, err := rand.Read(buf); err != nil {
			// crypto/rand never fails on supported platforms
			panic(err)
		}
		for _, b := range buf {
			if int(b) >= limit || len(out) == codeLength {
				continue
			}
			out = append(out, codeAlphabet[int(b)%len(codeAlphabet)])
		}
	}
	return string(out)
}

func found(p *models.Purchase, err error) (*models.Purchase, error) {
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func nullable(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}
