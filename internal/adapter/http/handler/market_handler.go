package handler

import (
	"solar-ledger/internal/adapter/http/dto"
	"solar-ledger/internal/core/domain"
	"solar-ledger/internal/core/ports"
	"solar-ledger/pkg/apperror"
	"solar-ledger/pkg/response"

	"github.com/gin-gonic/gin"
)

// MarketHandler handles the energy order book endpoints.
type MarketHandler struct {
	marketSvc ports.MarketService
}

// NewMarketHandler creates a new MarketHandler.
func NewMarketHandler(marketSvc ports.MarketService) *MarketHandler {
	return &MarketHandler{marketSvc: marketSvc}
}

// ListEnergy handles POST /energy/list.
func (h *MarketHandler) ListEnergy(c *gin.Context) {
	var req dto.ListEnergyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	listing, err := h.marketSvc.ListEnergy(c.Request.Context(), ports.ListEnergyRequest{
		WalletID:    req.WalletID,
		Side:        domain.ListingSide(req.Type),
		QuantityKwh: req.Kwh,
		PricePerKwh: req.PricePerKwh,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.ListEnergyResponse{
		OK:        true,
		ListingID: listing.ID.String(),
	})
}

// Match handles POST /energy/match. Each call runs exactly one matching pass;
// clients decide when the book is worth sweeping.
func (h *MarketHandler) Match(c *gin.Context) {
	trades, err := h.marketSvc.MatchOrders(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.MatchResponse{
		OK:             true,
		TradesExecuted: len(trades),
	})
}

// GetMarket handles GET /energy.
func (h *MarketHandler) GetMarket(c *gin.Context) {
	snap, err := h.marketSvc.GetMarket(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.ToMarketResponse(snap))
}
