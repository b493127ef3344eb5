// internal/handlers/ledger.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/omstudio/studio-ops/internal/i18n"
	"github.com/omstudio/studio-ops/internal/services"
	"github.com/omstudio/studio-ops/internal/utils"
)

type LedgerHandler struct {
	ledgerService *services.LedgerService
}

func NewLedgerHandler(ledgerService *services.LedgerService) *LedgerHandler {
	return &LedgerHandler{ledgerService: ledgerService}
}

// GET /ledger/contracts
func (h *LedgerHandler) GetContracts(c *gin.Context) {
	params := utils.GetPaginationParams(c)
	records, total, err := h.ledgerService.ListContracts(c.Request.Context(), services.LedgerFilter{
		PaginationParams: params,
		AssetID:          c.Query("asset_id"),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	result := utils.CreatePaginationResult(records, total, params)
	utils.PaginatedResponse(c, result)
}

// POST /ledger/contracts
func (h *LedgerHandler) RecordContract(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req services.RecordContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	record, err := h.ledgerService.RecordContract(c.Request.Context(), actor, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message":  i18n.T(lang, i18n.KeyContractRecorded),
		"contract": record,
	})
}

// GET /ledger/receipts
func (h *LedgerHandler) GetReceipts(c *gin.Context) {
	params := utils.GetPaginationParams(c)
	receipts, total, err := h.ledgerService.ListReceipts(c.Request.Context(), services.LedgerFilter{
		PaginationParams: params,
		AssetID:          c.Query("asset_id"),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	result := utils.CreatePaginationResult(receipts, total, params)
	utils.PaginatedResponse(c, result)
}

// POST /ledger/receipts
func (h *LedgerHandler) RecordReceipt(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req services.RecordReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	receipt, err := h.ledgerService.RecordReceipt(c.Request.Context(), actor, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyReceiptRecorded),
		"receipt": receipt,
	})
}

// GET /ledger/valuation
func (h *LedgerHandler) GetValuation(c *gin.Context) {
	ctx := c.Request.Context()

	total, err := h.ledgerService.AggregateAssetValue(ctx)
	if err != nil {
		respondError(c, err)
		return
	}

	summary, err := h.ledgerService.ValuationSummary(ctx)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"aggregate_value": total,
		"summary":         summary,
	})
}
