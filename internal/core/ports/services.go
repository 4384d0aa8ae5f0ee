package ports

import (
	"context"
	"time"

	"solar-ledger/internal/core/domain"

	"github.com/shopspring/decimal"
)

// LedgerService defines wallet accounting operations.
type LedgerService interface {
	// CreateWallet is idempotent: an existing wallet is returned unchanged,
	// a missing one is created with the configured seed balance.
	CreateWallet(ctx context.Context, id string) (*domain.Wallet, error)
	// Transfer debits amount from the wallet. There is no credit-side
	// operation; this models a spend only.
	Transfer(ctx context.Context, id string, amount decimal.Decimal) (*domain.Wallet, error)
	// GetWallet is a pure lookup; (nil, nil) when absent.
	GetWallet(ctx context.Context, id string) (*domain.Wallet, error)
}

// ListEnergyRequest holds validated input for a new listing.
type ListEnergyRequest struct {
	WalletID    string
	Side        domain.ListingSide
	QuantityKwh decimal.Decimal
	PricePerKwh decimal.Decimal
}

// MarketService defines the order book operations and the matching engine.
type MarketService interface {
	ListEnergy(ctx context.Context, req ListEnergyRequest) (*domain.EnergyListing, error)
	// MatchOrders executes one deterministic matching pass and returns the
	// trades it produced. It is never scheduled automatically; callers decide
	// the invocation cadence.
	MatchOrders(ctx context.Context) ([]domain.Trade, error)
	GetMarket(ctx context.Context) (*domain.MarketSnapshot, error)
}

// ProtocolRegistry exposes the deployment's fixed constants and the pure
// functions derived from them.
type ProtocolRegistry interface {
	Constants() domain.ProtocolConstants
	Hash() string
	UnitsFromKwh(kwh decimal.Decimal) decimal.Decimal
	KwhFromUnits(units decimal.Decimal) decimal.Decimal
	RaysFromUnits(units decimal.Decimal) decimal.Decimal
	UnitsFromRays(rays decimal.Decimal) decimal.Decimal
	DaysSinceGenesis(now time.Time) int
	// ComputeIndex returns the synthetic solar index in [85, 99]. It is a
	// placeholder heuristic, not backed by measurement.
	ComputeIndex(now time.Time) float64
}

// IntegrityService builds integrity reports and cross-validates them against
// remote deployments of the same protocol.
type IntegrityService interface {
	GenerateReport(now time.Time, nodeName string) *domain.IntegrityReport
	// CrossValidate fetches the remote node's report and compares it with the
	// local one. Remote failures degrade into discrepancy entries; the call
	// never returns an error for an unreachable peer.
	CrossValidate(ctx context.Context, local *domain.IntegrityReport, remoteEndpoint string) *domain.ValidationResult
}

// QueryService answers natural-language questions about a wallet and the
// market via a small regex dispatcher.
type QueryService interface {
	Answer(ctx context.Context, walletID, text string) (string, error)
}
