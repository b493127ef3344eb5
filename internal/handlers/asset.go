// internal/handlers/asset.go
package handlers

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"

	"github.com/omstudio/studio-ops/internal/i18n"
	"github.com/omstudio/studio-ops/internal/models"
	"github.com/omstudio/studio-ops/internal/services"
	"github.com/omstudio/studio-ops/internal/utils"
)

type AssetHandler struct {
	assetService *services.AssetService
}

type signAssetBody struct {
	Amount *float64 `json:"amount,omitempty"`
}

type rejectAssetBody struct {
	Reason string `json:"reason"`
}

func NewAssetHandler(assetService *services.AssetService) *AssetHandler {
	return &AssetHandler{assetService: assetService}
}

// GET /assets
func (h *AssetHandler) GetAssets(c *gin.Context) {
	params := utils.GetPaginationParams(c)
	filter := services.AssetFilter{
		PaginationParams: params,
		CreatorID:        c.Query("creator_id"),
	}

	if divisionID := c.Query("division_id"); divisionID != "" {
		division := models.Division(divisionID)
		if !division.Valid() {
			utils.BadRequestResponse(c, "Invalid division_id", nil)
			return
		}
		filter.DivisionID = &division
	}

	if statusStr := c.Query("status"); statusStr != "" {
		status := models.AssetStatus(statusStr)
		if !status.Valid() {
			utils.BadRequestResponse(c, "Invalid status", nil)
			return
		}
		filter.Status = &status
	}

	assets, total, err := h.assetService.ListAssets(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	result := utils.CreatePaginationResult(assets, total, params)
	utils.PaginatedResponse(c, result)
}

// POST /assets
func (h *AssetHandler) CreateAsset(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req services.CreateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	asset, err := h.assetService.CreateAsset(c.Request.Context(), actor, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyAssetCreated),
		"asset":   asset,
	})
}

// GET /assets/:id
func (h *AssetHandler) GetAsset(c *gin.Context) {
	asset, err := h.assetService.GetAsset(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			utils.NotFoundResponse(c, i18n.KeyAssetNotFound)
			return
		}
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"asset": asset,
	})
}

// PUT /assets/:id
func (h *AssetHandler) UpdateAsset(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req services.UpdateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	asset, err := h.assetService.UpdateAsset(c.Request.Context(), actor, c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyAssetUpdated),
		"asset":   asset,
	})
}

// POST /assets/:id/submit
func (h *AssetHandler) SubmitForReview(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	asset, err := h.assetService.SubmitForReview(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyAssetSubmitted),
		"asset":   asset,
	})
}

// POST /assets/:id/sign
func (h *AssetHandler) SignAsset(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var body signAssetBody
	if err := c.ShouldBindJSON(&body); err != nil && !errors.Is(err, io.EOF) {
		bindError(c, err)
		return
	}

	result, err := h.assetService.Sign(c.Request.Context(), actor, c.Param("id"), body.Amount)
	if err != nil {
		respondError(c, err)
		return
	}

	key := i18n.KeyAssetSigned
	if result.AlreadySigned {
		key = i18n.KeyAssetAlreadySigned
	}
	utils.SuccessResponse(c, gin.H{
		"message":        i18n.T(lang, key),
		"asset":          result.Asset,
		"contract":       result.Contract,
		"receipt":        result.Receipt,
		"already_signed": result.AlreadySigned,
	})
}

// POST /assets/:id/reject
func (h *AssetHandler) RejectAsset(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var body rejectAssetBody
	if err := c.ShouldBindJSON(&body); err != nil && !errors.Is(err, io.EOF) {
		bindError(c, err)
		return
	}

	asset, err := h.assetService.Reject(c.Request.Context(), actor, c.Param("id"), body.Reason)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyAssetRejected),
		"asset":   asset,
	})
}
