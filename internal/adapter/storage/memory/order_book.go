package memory

import (
	"context"
	"sync"

	"solar-ledger/internal/core/domain"
)

// OrderBook is the in-process implementation of ports.OrderBook.
// A single write lock owns both the listings and the trade log, giving the
// matching engine a single-writer view of the book: a pass can never observe
// a listing mid-mutation from a concurrent Insert.
type OrderBook struct {
	mu       sync.RWMutex
	listings []*domain.EnergyListing // insertion order
	trades   []domain.Trade          // append-only
}

// NewOrderBook creates an empty book.
func NewOrderBook() *OrderBook {
	return &OrderBook{}
}

// Insert appends a listing to the book in arrival order.
func (b *OrderBook) Insert(_ context.Context, listing *domain.EnergyListing) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	cp := *listing
	b.listings = append(b.listings, &cp)
	return nil
}

// Snapshot returns copies of the open listings and the full trade log.
func (b *OrderBook) Snapshot(_ context.Context) (*domain.MarketSnapshot, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	snap := &domain.MarketSnapshot{
		Listings: make([]domain.EnergyListing, 0, len(b.listings)),
		Trades:   make([]domain.Trade, len(b.trades)),
	}
	for _, l := range b.listings {
		snap.Listings = append(snap.Listings, *l)
	}
	copy(snap.Trades, b.trades)
	return snap, nil
}

// MatchPass runs fn under the write lock, records the trades it produced and
// compacts fully filled listings before unlocking.
func (b *OrderBook) MatchPass(_ context.Context, fn func(listings []*domain.EnergyListing) []domain.Trade) ([]domain.Trade, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	trades := fn(b.listings)
	b.trades = append(b.trades, trades...)

	// Compaction: listings leave the book exactly when their quantity hits zero.
	open := b.listings[:0]
	for _, l := range b.listings {
		if l.QuantityKwh.IsPositive() {
			open = append(open, l)
		}
	}
	b.listings = open

	return trades, nil
}
