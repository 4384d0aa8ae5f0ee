package handler

import (
	"solar-ledger/internal/adapter/http/dto"
	"solar-ledger/internal/core/ports"
	"solar-ledger/pkg/apperror"
	"solar-ledger/pkg/response"

	"github.com/gin-gonic/gin"
)

// WalletHandler handles wallet-related endpoints.
type WalletHandler struct {
	ledgerSvc ports.LedgerService
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(ledgerSvc ports.LedgerService) *WalletHandler {
	return &WalletHandler{ledgerSvc: ledgerSvc}
}

// Create handles POST /wallets. Creation is idempotent: posting an existing
// wallet ID returns the wallet unchanged.
func (h *WalletHandler) Create(c *gin.Context) {
	var req dto.CreateWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	wallet, err := h.ledgerSvc.CreateWallet(c.Request.Context(), req.WalletID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.ToWalletResponse(wallet))
}

// Get handles GET /wallets/:id.
func (h *WalletHandler) Get(c *gin.Context) {
	wallet, err := h.ledgerSvc.GetWallet(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if wallet == nil {
		response.Error(c, apperror.ErrNotFound("Wallet"))
		return
	}

	response.OK(c, dto.ToWalletResponse(wallet))
}

// Transfer handles POST /wallets/:id/transfer.
func (h *WalletHandler) Transfer(c *gin.Context) {
	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	wallet, err := h.ledgerSvc.Transfer(c.Request.Context(), c.Param("id"), req.Amount)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.ToWalletResponse(wallet))
}
