package service

import (
	"context"
	"fmt"
	"time"

	"solar-ledger/internal/core/domain"
	"solar-ledger/internal/core/ports"
	"solar-ledger/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// MarketServiceImpl implements ports.MarketService: listing intake plus the
// matching engine over an OrderBook.
type MarketServiceImpl struct {
	book ports.OrderBook
	log  zerolog.Logger
}

// NewMarketService creates a market service.
func NewMarketService(book ports.OrderBook, log zerolog.Logger) *MarketServiceImpl {
	return &MarketServiceImpl{book: book, log: log}
}

// ListEnergy validates and appends a new listing to the book.
func (s *MarketServiceImpl) ListEnergy(ctx context.Context, req ports.ListEnergyRequest) (*domain.EnergyListing, error) {
	if req.WalletID == "" {
		return nil, apperror.ErrInvalidListing("wallet id must not be empty")
	}
	if !req.Side.Valid() {
		return nil, apperror.ErrInvalidListing(fmt.Sprintf("unknown side %q", req.Side))
	}
	if !req.QuantityKwh.IsPositive() {
		return nil, apperror.ErrInvalidListing("quantity must be positive")
	}
	if !req.PricePerKwh.IsPositive() {
		return nil, apperror.ErrInvalidListing("price must be positive")
	}

	listing := &domain.EnergyListing{
		ID:            uuid.New(),
		OwnerWalletID: req.WalletID,
		Side:          req.Side,
		QuantityKwh:   req.QuantityKwh,
		PricePerKwh:   req.PricePerKwh,
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.book.Insert(ctx, listing); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("insert listing: %w", err))
	}

	s.log.Info().
		Str("listing_id", listing.ID.String()).
		Str("wallet_id", req.WalletID).
		Str("side", string(req.Side)).
		Str("quantity_kwh", req.QuantityKwh.String()).
		Str("price_per_kwh", req.PricePerKwh.String()).
		Msg("energy listed")

	return listing, nil
}

// MatchOrders executes one deterministic matching pass under the book lock
// and returns the trades it produced.
func (s *MarketServiceImpl) MatchOrders(ctx context.Context) ([]domain.Trade, error) {
	trades, err := s.book.MatchPass(ctx, matchPass)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("match pass: %w", err))
	}

	if len(trades) > 0 {
		s.log.Info().Int("trades", len(trades)).Msg("matching pass executed")
	} else {
		s.log.Debug().Msg("matching pass executed, no crossings")
	}

	return trades, nil
}

// matchPass is the engine: one pass over the book in insertion order.
// For every PPA (buy) listing it scans the REC (sell) listings, also in
// insertion order; there is no price-time priority queue. A fill happens
// when the buyer's price covers the seller's and both sides still have
// quantity; the fill size is the smaller remainder, and the trade executes
// at the seller's price, so any spread is price improvement for the buyer.
// Buyer and seller may be the same wallet; self-trades are not prevented.
func matchPass(listings []*domain.EnergyListing) []domain.Trade {
	var trades []domain.Trade
	now := time.Now().UTC()

	for _, buy := range listings {
		if buy.Side != domain.ListingSidePPA {
			continue
		}
		for _, sell := range listings {
			if sell.Side != domain.ListingSideREC {
				continue
			}
			if !buy.QuantityKwh.IsPositive() {
				break
			}
			if !sell.QuantityKwh.IsPositive() {
				continue
			}
			if buy.PricePerKwh.LessThan(sell.PricePerKwh) {
				continue
			}

			qty := decimalMin(buy.QuantityKwh, sell.QuantityKwh)
			buy.QuantityKwh = buy.QuantityKwh.Sub(qty)
			sell.QuantityKwh = sell.QuantityKwh.Sub(qty)

			trades = append(trades, domain.Trade{
				BuyerWalletID:  buy.OwnerWalletID,
				SellerWalletID: sell.OwnerWalletID,
				QuantityKwh:    qty,
				Price:          sell.PricePerKwh,
				Timestamp:      now,
			})
		}
	}

	return trades
}

func decimalMin(a, b decimal.Decimal) decimal.Decimal {
	if a.LessThan(b) {
		return a
	}
	return b
}

// GetMarket returns a read-only snapshot of listings and trades.
func (s *MarketServiceImpl) GetMarket(ctx context.Context) (*domain.MarketSnapshot, error) {
	snap, err := s.book.Snapshot(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("snapshot book: %w", err))
	}
	return snap, nil
}
