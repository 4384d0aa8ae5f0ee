package dto

import (
	"time"

	"solar-ledger/internal/core/domain"

	"github.com/shopspring/decimal"
)

// CreateWalletRequest is the request body for wallet creation.
type CreateWalletRequest struct {
	WalletID string `json:"wallet_id" binding:"required,min=1,max=64,safe_id"`
}

// TransferRequest is the request body for a wallet spend.
type TransferRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// WalletResponse is the response body for wallet state.
type WalletResponse struct {
	WalletID  string `json:"wallet_id"`
	Balance   string `json:"balance"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// ListEnergyRequest is the request body for posting an energy listing.
type ListEnergyRequest struct {
	WalletID    string          `json:"wallet_id" binding:"required,min=1,max=64,safe_id"`
	Type        string          `json:"type" binding:"required,oneof=REC PPA"`
	Kwh         decimal.Decimal `json:"kwh" binding:"required"`
	PricePerKwh decimal.Decimal `json:"price_per_kwh" binding:"required"`
}

// ListEnergyResponse is the response body for a posted listing.
type ListEnergyResponse struct {
	OK        bool   `json:"ok"`
	ListingID string `json:"listing_id"`
}

// MatchResponse is the response body for a matching pass.
type MatchResponse struct {
	OK             bool `json:"ok"`
	TradesExecuted int  `json:"trades_executed"`
}

// ListingResponse is one open listing in the market view.
type ListingResponse struct {
	ID          string `json:"id"`
	WalletID    string `json:"wallet_id"`
	Type        string `json:"type"`
	Kwh         string `json:"kwh"`
	PricePerKwh string `json:"price_per_kwh"`
	CreatedAt   string `json:"created_at"`
}

// TradeResponse is one executed trade in the market view.
type TradeResponse struct {
	BuyerWalletID  string `json:"buyer_wallet_id"`
	SellerWalletID string `json:"seller_wallet_id"`
	Kwh            string `json:"kwh"`
	Price          string `json:"price"`
	Timestamp      string `json:"timestamp"`
}

// MarketResponse is the full order book view.
type MarketResponse struct {
	Listings []ListingResponse `json:"listings"`
	Trades   []TradeResponse   `json:"trades"`
}

// ValidateRequest is the request body for cross-validation against a peer.
type ValidateRequest struct {
	RemoteEndpoint string `json:"remote_endpoint" binding:"required,safe_url"`
}

// ValidationResponse is the response body for a cross-validation run.
type ValidationResponse struct {
	Synchronized  bool     `json:"synchronized"`
	Discrepancies []string `json:"discrepancies"`
}

// QueryRequest is the request body for the kid-friendly query endpoint.
type QueryRequest struct {
	WalletID string `json:"wallet_id" binding:"required,min=1,max=64,safe_id"`
	Text     string `json:"text" binding:"required,max=500"`
}

// QueryResponse is the response body for an answered question.
type QueryResponse struct {
	Answer string `json:"answer"`
}

// ToWalletResponse maps a domain wallet to its wire shape.
func ToWalletResponse(w *domain.Wallet) WalletResponse {
	return WalletResponse{
		WalletID:  w.ID,
		Balance:   w.Balance.String(),
		CreatedAt: w.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: w.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// ToMarketResponse maps a market snapshot to its wire shape. Slices are
// always non-nil so the JSON arrays render as [] rather than null.
func ToMarketResponse(snap *domain.MarketSnapshot) MarketResponse {
	resp := MarketResponse{
		Listings: make([]ListingResponse, 0, len(snap.Listings)),
		Trades:   make([]TradeResponse, 0, len(snap.Trades)),
	}
	for _, l := range snap.Listings {
		resp.Listings = append(resp.Listings, ListingResponse{
			ID:          l.ID.String(),
			WalletID:    l.OwnerWalletID,
			Type:        string(l.Side),
			Kwh:         l.QuantityKwh.String(),
			PricePerKwh: l.PricePerKwh.String(),
			CreatedAt:   l.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	for _, t := range snap.Trades {
		resp.Trades = append(resp.Trades, ToTradeResponse(t))
	}
	return resp
}

// ToTradeResponse maps a domain trade to its wire shape.
func ToTradeResponse(t domain.Trade) TradeResponse {
	return TradeResponse{
		BuyerWalletID:  t.BuyerWalletID,
		SellerWalletID: t.SellerWalletID,
		Kwh:            t.QuantityKwh.String(),
		Price:          t.Price.String(),
		Timestamp:      t.Timestamp.UTC().Format(time.RFC3339),
	}
}
