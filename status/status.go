// Package status derives a purchase's content status. It is a pure function
// of ledger and catalog state and keeps no storage of its own.
package status

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/artlurun/api/catalog"
	"github.com/artlurun/api/ledger"
	"github.com/artlurun/api/models"
)

// Status is the fulfillment state for a (customer, race) pair.
type Status string

const (
	// None – no purchase exists.
	None Status = "none"
	// Building – purchased, premium data not yet attached.
	Building Status = "building"
	// Ready – premium data attached and well formed. Terminal.
	Ready Status = "ready"
)

// Report is the customer-facing status shape. The field names are a
// compatibility surface; clients key on them directly.
type Report struct {
	Status      Status          `json:"status"`
	Unlocked    bool            `json:"unlocked"`
	PurchaseID  int             `json:"purchase_id,omitempty"`
	PurchasedAt *time.Time      `json:"purchased_at,omitempty"`
	Data        json.RawMessage `json:"data,omitempty"`
}

// Of returns the status of a purchase. A stored premium-data value that fails
// to parse is reported as Building, not as an error: a data-quality hiccup
// must read as "still working on it", never break the customer path, and
// never unlock.
func Of(p *models.Purchase) Status {
	if p == nil {
		return None
	}
	if len(p.PremiumData) == 0 || string(p.PremiumData) == "null" {
		return Building
	}
	if !json.Valid(p.PremiumData) {
		return Building
	}
	return Ready
}

// ReportFor builds the full Report for a purchase.
func ReportFor(p *models.Purchase) Report {
	switch Of(p) {
	case Ready:
		return Report{Status: Ready, Unlocked: true, PurchaseID: p.ID, Data: p.PremiumData}
	case Building:
		at := p.CreatedAt
		return Report{Status: Building, PurchaseID: p.ID, PurchasedAt: &at}
	default:
		return Report{Status: None}
	}
}

// PurchaseFinder is the slice of the ledger the resolver reads.
type PurchaseFinder interface {
	ForRace(ctx context.Context, email string, raceID int) (*models.Purchase, error)
}

// RaceFinder is the slice of the catalog the resolver reads.
type RaceFinder interface {
	BySlug(ctx context.Context, slug string) (*models.Race, error)
}

// Resolver answers status queries for a session identity.
type Resolver struct {
	purchases PurchaseFinder
	races     RaceFinder
}

// NewResolver creates a Resolver over the given stores.
func NewResolver(purchases PurchaseFinder, races RaceFinder) *Resolver {
	return &Resolver{purchases: purchases, races: races}
}

// Resolve returns the Report for an email and race slug. An empty email means
// no session identity: the answer is None without touching storage, so
// unauthenticated callers learn nothing about existing purchases.
func (r *Resolver) Resolve(ctx context.Context, email, slug string) (Report, error) {
	if email == "" {
		return Report{Status: None}, nil
	}

	race, err := r.races.BySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return Report{Status: None}, nil
		}
		return Report{}, err
	}

	p, err := r.purchases.ForRace(ctx, email, race.ID)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			return Report{Status: None}, nil
		}
		return Report{}, err
	}

	return ReportFor(p), nil
}
