package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ListingSide distinguishes sell-side certificates from buy-side agreements.
type ListingSide string

const (
	// ListingSideREC is a Renewable Energy Certificate, a sell listing.
	ListingSideREC ListingSide = "REC"
	// ListingSidePPA is a Power Purchase Agreement, a buy listing.
	ListingSidePPA ListingSide = "PPA"
)

// Valid reports whether the side is one of the two known values.
func (s ListingSide) Valid() bool {
	return s == ListingSideREC || s == ListingSidePPA
}

// EnergyListing is an open order on the energy book. QuantityKwh is the
// remaining unfilled quantity; the matching pass decrements it in place and
// the book removes the listing exactly when it reaches zero.
type EnergyListing struct {
	ID            uuid.UUID       `json:"id"`
	OwnerWalletID string          `json:"owner_wallet_id"`
	Side          ListingSide     `json:"side"`
	QuantityKwh   decimal.Decimal `json:"quantity_kwh"`
	PricePerKwh   decimal.Decimal `json:"price_per_kwh"`
	CreatedAt     time.Time       `json:"created_at"`
}
