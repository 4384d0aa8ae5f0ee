package handler

import (
	"solar-ledger/internal/adapter/http/dto"
	"solar-ledger/internal/core/ports"
	"solar-ledger/pkg/apperror"
	"solar-ledger/pkg/response"

	"github.com/gin-gonic/gin"
)

// QueryHandler handles the kid-friendly question endpoint.
type QueryHandler struct {
	querySvc ports.QueryService
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(querySvc ports.QueryService) *QueryHandler {
	return &QueryHandler{querySvc: querySvc}
}

// Query handles POST /kid/query.
func (h *QueryHandler) Query(c *gin.Context) {
	var req dto.QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	answer, err := h.querySvc.Answer(c.Request.Context(), req.WalletID, req.Text)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.QueryResponse{Answer: answer})
}
