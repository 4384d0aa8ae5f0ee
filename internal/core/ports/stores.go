package ports

import (
	"context"

	"solar-ledger/internal/core/domain"

	"github.com/shopspring/decimal"
)

// WalletStore defines the owning store for wallet balances.
// Implementations must make Debit a single critical section so the
// non-negativity invariant holds under concurrent callers.
type WalletStore interface {
	// Create returns the existing wallet if present, otherwise creates one
	// with the given seed balance. Idempotent.
	Create(ctx context.Context, id string, seed decimal.Decimal) (*domain.Wallet, error)
	// Get returns the wallet or (nil, nil) when absent.
	Get(ctx context.Context, id string) (*domain.Wallet, error)
	// Debit atomically checks and decrements the balance. Returns
	// domain.ErrWalletNotFound or domain.ErrInsufficientBalance on failure;
	// the balance is untouched in either case.
	Debit(ctx context.Context, id string, amount decimal.Decimal) (*domain.Wallet, error)
}

// OrderBook defines the owning store for open listings and the trade log.
// Implementations follow a single-writer discipline: inserts, snapshots and
// matching passes serialize on one lock, so a pass never observes a listing
// mid-mutation from a concurrent insert.
type OrderBook interface {
	// Insert appends a listing to the book in arrival order.
	Insert(ctx context.Context, listing *domain.EnergyListing) error
	// Snapshot returns copies of the open listings and the full trade log.
	Snapshot(ctx context.Context) (*domain.MarketSnapshot, error)
	// MatchPass runs fn under the book's write lock with direct access to the
	// open listings in insertion order. fn may decrement remaining quantities
	// in place and returns the trades it produced; the book appends them to
	// the trade log and removes fully filled listings before unlocking.
	MatchPass(ctx context.Context, fn func(listings []*domain.EnergyListing) []domain.Trade) ([]domain.Trade, error)
}
