package handler

import (
	"net/http"
	"time"

	"solar-ledger/internal/adapter/http/dto"
	"solar-ledger/internal/core/ports"
	"solar-ledger/pkg/apperror"
	"solar-ledger/pkg/response"

	"github.com/gin-gonic/gin"
)

// IntegrityHandler handles the integrity report and cross-validation
// endpoints.
type IntegrityHandler struct {
	integritySvc ports.IntegrityService
	nodeName     string
}

// NewIntegrityHandler creates a new IntegrityHandler.
func NewIntegrityHandler(integritySvc ports.IntegrityService, nodeName string) *IntegrityHandler {
	return &IntegrityHandler{integritySvc: integritySvc, nodeName: nodeName}
}

// GetReport handles GET /integrity. The report is served bare, without the
// response envelope: it is the cross-node wire format that peer deployments
// fetch and decode during validation.
func (h *IntegrityHandler) GetReport(c *gin.Context) {
	report := h.integritySvc.GenerateReport(time.Now(), h.nodeName)
	c.JSON(http.StatusOK, report)
}

// Validate handles POST /integrity/validate.
func (h *IntegrityHandler) Validate(c *gin.Context) {
	var req dto.ValidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	local := h.integritySvc.GenerateReport(time.Now(), h.nodeName)
	result := h.integritySvc.CrossValidate(c.Request.Context(), local, req.RemoteEndpoint)

	resp := dto.ValidationResponse{
		Synchronized:  result.Synchronized,
		Discrepancies: result.Discrepancies,
	}
	if resp.Discrepancies == nil {
		resp.Discrepancies = []string{}
	}
	response.OK(c, resp)
}
