// internal/handlers/equity.go
package handlers

import (
	"encoding/json"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/omstudio/studio-ops/internal/i18n"
	"github.com/omstudio/studio-ops/internal/models"
	"github.com/omstudio/studio-ops/internal/services"
	"github.com/omstudio/studio-ops/internal/utils"
)

type EquityHandler struct {
	equityService *services.EquityService
}

// Share counts are bound as json.Number so large integers are not rounded
// through float64.
type addShareholderBody struct {
	Name   string                 `json:"name"`
	Type   models.ShareholderType `json:"type"`
	Shares json.Number            `json:"shares"`
	Email  string                 `json:"email"`
}

type grantOptionsBody struct {
	EmployeeID uuid.UUID   `json:"employee_id" binding:"required"`
	Shares     json.Number `json:"shares"`
}

type resizePoolBody struct {
	PoolShares json.Number `json:"pool_shares"`
}

func NewEquityHandler(equityService *services.EquityService) *EquityHandler {
	return &EquityHandler{equityService: equityService}
}

// GET /equity/shareholders
func (h *EquityHandler) GetShareholders(c *gin.Context) {
	params := utils.GetPaginationParams(c)
	filter := services.ShareholderFilter{PaginationParams: params}

	if typeStr := c.Query("type"); typeStr != "" {
		holderType := models.ShareholderType(typeStr)
		if !holderType.Valid() {
			utils.BadRequestResponse(c, "Invalid shareholder type", nil)
			return
		}
		filter.Type = &holderType
	}

	if employeeIDStr := c.Query("employee_id"); employeeIDStr != "" {
		employeeID, err := uuid.Parse(employeeIDStr)
		if err != nil {
			utils.BadRequestResponse(c, "Invalid employee ID", nil)
			return
		}
		filter.EmployeeID = &employeeID
	}

	holders, total, err := h.equityService.ListShareholders(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	result := utils.CreatePaginationResult(holders, total, params)
	utils.PaginatedResponse(c, result)
}

// POST /equity/shareholders
func (h *EquityHandler) AddShareholder(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	if err := services.Authorize(actor, services.CapAddShareholder); err != nil {
		respondError(c, err)
		return
	}

	var body addShareholderBody
	if err := c.ShouldBindJSON(&body); err != nil {
		bindError(c, err)
		return
	}

	shares, err := services.SharesFromNumber(body.Shares)
	if err != nil {
		respondError(c, err)
		return
	}

	holder, err := h.equityService.AddShareholder(c.Request.Context(), actor, &services.AddShareholderRequest{
		Name:   body.Name,
		Type:   body.Type,
		Shares: shares,
		Email:  body.Email,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message":     i18n.T(lang, i18n.KeyShareholderAdded),
		"shareholder": holder,
	})
}

// GET /equity/pool
func (h *EquityHandler) GetPool(c *gin.Context) {
	pool, err := h.equityService.GetPool(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"pool": pool,
	})
}

// PUT /equity/pool
func (h *EquityHandler) ResizePool(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	if err := services.Authorize(actor, services.CapResizePool); err != nil {
		respondError(c, err)
		return
	}

	var body resizePoolBody
	if err := c.ShouldBindJSON(&body); err != nil {
		bindError(c, err)
		return
	}

	poolShares, err := services.SharesFromNumber(body.PoolShares)
	if err != nil {
		respondError(c, err)
		return
	}

	pool, err := h.equityService.ResizePool(c.Request.Context(), actor, poolShares)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyPoolResized),
		"pool":    pool,
	})
}

// POST /equity/grants
func (h *EquityHandler) GrantOptions(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	if err := services.Authorize(actor, services.CapGrantOptions); err != nil {
		respondError(c, err)
		return
	}

	var body grantOptionsBody
	if err := c.ShouldBindJSON(&body); err != nil {
		bindError(c, err)
		return
	}

	shares, err := services.SharesFromNumber(body.Shares)
	if err != nil {
		respondError(c, err)
		return
	}

	result, err := h.equityService.GrantOptions(c.Request.Context(), actor, &services.GrantOptionsRequest{
		EmployeeID: body.EmployeeID,
		Shares:     shares,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message":     i18n.T(lang, i18n.KeyOptionsGranted),
		"shareholder": result.Shareholder,
		"pool":        result.Pool,
	})
}

// GET /equity/summary
func (h *EquityHandler) GetSummary(c *gin.Context) {
	summary, err := h.equityService.CapTableSummary(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"summary": summary,
	})
}
