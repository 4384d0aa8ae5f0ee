package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Trade is an immutable record of a matched fill. Once appended to the trade
// log it is never mutated or deleted.
type Trade struct {
	BuyerWalletID  string          `json:"buyer_wallet_id"`
	SellerWalletID string          `json:"seller_wallet_id"`
	QuantityKwh    decimal.Decimal `json:"quantity_kwh"`
	// Price is the execution price per kWh. Fills execute at the seller's
	// listed price; any spread is price improvement for the buyer.
	Price     decimal.Decimal `json:"price"`
	Timestamp time.Time       `json:"timestamp"`
}

// MarketSnapshot is a read-only copy of the book and trade log.
type MarketSnapshot struct {
	Listings []EnergyListing `json:"listings"`
	Trades   []Trade         `json:"trades"`
}
