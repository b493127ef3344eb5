// internal/services/asset_service.go
package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/omstudio/studio-ops/internal/models"
	"github.com/omstudio/studio-ops/internal/utils"
)

type AssetService struct {
	db     *gorm.DB
	ledger *LedgerService
	audit  *AuditService
}

type CreateAssetRequest struct {
	DivisionID      models.Division        `json:"division_id" validate:"required,division"`
	IPStatus        models.IPStatus        `json:"ip_status" validate:"required,ip_status"`
	CreatorID       string                 `json:"creator_id,omitempty" validate:"omitempty,max=64"`
	Title           string                 `json:"title" validate:"required,max=255"`
	ContentMetadata map[string]interface{} `json:"content_metadata,omitempty"`
	Price           float64                `json:"price" validate:"finite,gte=0"`
	ReleaseDate     *time.Time             `json:"release_date,omitempty"`
	EstimatedValue  float64                `json:"estimated_value" validate:"finite,gte=0"`
}

type UpdateAssetRequest struct {
	Title           *string                `json:"title,omitempty" validate:"omitempty,min=1,max=255"`
	ContentMetadata map[string]interface{} `json:"content_metadata,omitempty"`
	Price           *float64               `json:"price,omitempty" validate:"omitempty,finite,gte=0"`
	ReleaseDate     *time.Time             `json:"release_date,omitempty"`
	EstimatedValue  *float64               `json:"estimated_value,omitempty" validate:"omitempty,finite,gte=0"`
}

type AssetFilter struct {
	utils.PaginationParams
	DivisionID *models.Division    `json:"division_id,omitempty"`
	Status     *models.AssetStatus `json:"status,omitempty"`
	CreatorID  string              `json:"creator_id,omitempty"`
}

// SignResult reports the outcome of a sign call. AlreadySigned is set when the
// asset was signed before the call and nothing was written.
type SignResult struct {
	Asset         *models.AssetPacket    `json:"asset"`
	Contract      *models.ContractRecord `json:"contract,omitempty"`
	Receipt       *models.Receipt        `json:"receipt,omitempty"`
	AlreadySigned bool                   `json:"already_signed"`
}

var assetSortFields = []string{"created_at", "updated_at", "asset_id", "estimated_value"}

func NewAssetService(db *gorm.DB, ledger *LedgerService, audit *AuditService) *AssetService {
	return &AssetService{
		db:     db,
		ledger: ledger,
		audit:  audit,
	}
}

func (s *AssetService) CreateAsset(ctx context.Context, actor models.Actor, req *CreateAssetRequest) (asset *models.AssetPacket, err error) {
	ctx, end := traced(ctx, "asset.Create", attribute.String("asset.division", string(req.DivisionID)))
	defer end(&err)

	if err := Authorize(actor, CapCreateAsset); err != nil {
		return nil, err
	}
	if err := utils.ValidateStruct(req); err != nil {
		return nil, validationError(err)
	}

	creatorID := actor.ID
	if req.CreatorID != "" && req.CreatorID != actor.ID {
		if !actor.IsAdmin() {
			return nil, fmt.Errorf("%w: only admins may create assets for another creator", ErrPermissionDenied)
		}
		creatorID = req.CreatorID
	}

	metadata := datatypes.JSONMap{}
	for k, v := range req.ContentMetadata {
		metadata[k] = v
	}
	metadata["title"] = req.Title

	asset = &models.AssetPacket{
		CreatorID:            creatorID,
		DivisionID:           req.DivisionID,
		IPStatus:             req.IPStatus,
		LegalSignatureStatus: models.SignatureUnsigned,
		Status:               models.AssetStatusDraft,
		ContentMetadata:      metadata,
		FinancialTag: models.FinancialTag{
			Price:       req.Price,
			ReleaseDate: releaseDate(req.ReleaseDate),
		},
		EstimatedValue: req.EstimatedValue,
	}

	err = runTx(ctx, s.db, func(tx *gorm.DB) error {
		assetID, err := s.nextAssetID(ctx, tx, req.DivisionID)
		if err != nil {
			return err
		}
		asset.AssetID = assetID

		if err := tx.WithContext(ctx).Create(asset).Error; err != nil {
			return storageError("create asset", err)
		}

		_, err = s.audit.Append(ctx, tx, models.AuditActionCreateAsset, TargetAsset, asset.AssetID, actor.ID, map[string]interface{}{
			"division_id": asset.DivisionID,
			"ip_status":   asset.IPStatus,
			"creator_id":  asset.CreatorID,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"asset_id": asset.AssetID,
		"actor":    actor.ID,
		"action":   models.AuditActionCreateAsset,
	}).Info("Asset created")
	return asset, nil
}

// UpdateAsset edits the descriptive fields of an asset. Status, signature,
// division and IP status are not writable here.
func (s *AssetService) UpdateAsset(ctx context.Context, actor models.Actor, assetID string, req *UpdateAssetRequest) (asset *models.AssetPacket, err error) {
	ctx, end := traced(ctx, "asset.Update", attribute.String("asset.id", assetID))
	defer end(&err)

	if err := Authorize(actor, CapUpdateAsset); err != nil {
		return nil, err
	}
	if err := utils.ValidateStruct(req); err != nil {
		return nil, validationError(err)
	}

	err = runTx(ctx, s.db, func(tx *gorm.DB) error {
		var err error
		asset, err = s.lockAsset(ctx, tx, assetID)
		if err != nil {
			return err
		}
		if !actor.IsAdmin() {
			if asset.CreatorID != actor.ID {
				return fmt.Errorf("%w: asset %s belongs to another creator", ErrPermissionDenied, assetID)
			}
			if asset.Status == models.AssetStatusSigned {
				return fmt.Errorf("%w: signed assets can only be edited by an admin", ErrPermissionDenied)
			}
		}

		updates := map[string]interface{}{}
		if req.ContentMetadata != nil || req.Title != nil {
			title := asset.Title()
			if req.Title != nil {
				title = *req.Title
			}
			metadata := asset.ContentMetadata
			if req.ContentMetadata != nil {
				metadata = datatypes.JSONMap{}
				for k, v := range req.ContentMetadata {
					metadata[k] = v
				}
			}
			if metadata == nil {
				metadata = datatypes.JSONMap{}
			}
			metadata["title"] = title
			asset.ContentMetadata = metadata
			updates["content_metadata"] = metadata
		}
		if req.Price != nil {
			asset.FinancialTag.Price = *req.Price
			updates["financial_price"] = *req.Price
		}
		if req.ReleaseDate != nil {
			asset.FinancialTag.ReleaseDate = releaseDate(req.ReleaseDate)
			updates["financial_release_date"] = asset.FinancialTag.ReleaseDate
		}
		if req.EstimatedValue != nil {
			asset.EstimatedValue = *req.EstimatedValue
			updates["estimated_value"] = *req.EstimatedValue
		}
		if len(updates) == 0 {
			return nil
		}

		if err := tx.WithContext(ctx).Model(&models.AssetPacket{}).
			Where("asset_id = ?", assetID).
			Updates(updates).Error; err != nil {
			return storageError("update asset", err)
		}

		fields := make([]string, 0, len(updates))
		for k := range updates {
			fields = append(fields, k)
		}
		sort.Strings(fields)
		_, err = s.audit.Append(ctx, tx, models.AuditActionUpdateAsset, TargetAsset, assetID, actor.ID, map[string]interface{}{
			"fields": fields,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return s.GetAsset(ctx, assetID)
}

func (s *AssetService) GetAsset(ctx context.Context, assetID string) (*models.AssetPacket, error) {
	var asset models.AssetPacket
	if err := s.db.WithContext(ctx).First(&asset, "asset_id = ?", assetID).Error; err != nil {
		return nil, notFoundOr(err, "asset", assetID)
	}
	return &asset, nil
}

func (s *AssetService) ListAssets(ctx context.Context, filter AssetFilter) (assets []models.AssetPacket, total int64, err error) {
	ctx, end := traced(ctx, "asset.List")
	defer end(&err)

	query := s.db.WithContext(ctx).Model(&models.AssetPacket{})
	if filter.DivisionID != nil {
		query = query.Where("division_id = ?", *filter.DivisionID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.CreatorID != "" {
		query = query.Where("creator_id = ?", filter.CreatorID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, storageError("count assets", err)
	}

	query = utils.ApplySort(query, filter.PaginationParams, assetSortFields)
	query = utils.ApplyPagination(query.Order("asset_id ASC"), filter.PaginationParams)
	if err := query.Find(&assets).Error; err != nil {
		return nil, 0, storageError("list assets", err)
	}
	return assets, total, nil
}

// SubmitForReview moves a draft into review. Creators may only submit their
// own assets.
func (s *AssetService) SubmitForReview(ctx context.Context, actor models.Actor, assetID string) (asset *models.AssetPacket, err error) {
	ctx, end := traced(ctx, "asset.SubmitForReview", attribute.String("asset.id", assetID))
	defer end(&err)

	if err := Authorize(actor, CapSubmitForReview); err != nil {
		return nil, err
	}

	err = runTx(ctx, s.db, func(tx *gorm.DB) error {
		var err error
		asset, err = s.lockAsset(ctx, tx, assetID)
		if err != nil {
			return err
		}
		if !actor.IsAdmin() && asset.CreatorID != actor.ID {
			return fmt.Errorf("%w: asset %s belongs to another creator", ErrPermissionDenied, assetID)
		}
		if asset.Status != models.AssetStatusDraft {
			return fmt.Errorf("%w: cannot submit asset in status %s", ErrInvalidTransition, asset.Status)
		}

		ok, err := s.transition(ctx, tx, asset, models.AssetStatusDraft, models.AssetStatusInReview, models.SignatureUnsigned)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: asset %s changed concurrently", ErrInvalidTransition, assetID)
		}

		_, err = s.audit.Append(ctx, tx, models.AuditActionSubmitAsset, TargetAsset, assetID, actor.ID, map[string]interface{}{
			"from": models.AssetStatusDraft,
			"to":   models.AssetStatusInReview,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"asset_id": assetID,
		"actor":    actor.ID,
		"action":   models.AuditActionSubmitAsset,
	}).Info("Asset submitted for review")
	return asset, nil
}

// Sign stamps an in-review asset and appends its contract record, receipt and
// audit entry in one transaction. amount overrides the asset's price on the
// receipt. Signing an already signed asset writes nothing.
func (s *AssetService) Sign(ctx context.Context, actor models.Actor, assetID string, amount *float64) (result *SignResult, err error) {
	ctx, end := traced(ctx, "asset.Sign", attribute.String("asset.id", assetID))
	defer end(&err)

	if err := Authorize(actor, CapSign); err != nil {
		return nil, err
	}
	if amount != nil {
		if err := checkAmount(*amount); err != nil {
			return nil, err
		}
	}

	result = &SignResult{}
	err = runTx(ctx, s.db, func(tx *gorm.DB) error {
		asset, err := s.lockAsset(ctx, tx, assetID)
		if err != nil {
			return err
		}
		result.Asset = asset

		switch asset.Status {
		case models.AssetStatusSigned:
			result.AlreadySigned = true
			return nil
		case models.AssetStatusInReview:
		default:
			return fmt.Errorf("%w: cannot sign asset in status %s", ErrInvalidTransition, asset.Status)
		}

		receiptAmount := asset.FinancialTag.Price
		if amount != nil {
			receiptAmount = *amount
		}
		if err := checkAmount(receiptAmount); err != nil {
			return err
		}

		now := time.Now().UTC()
		ok, err := s.transition(ctx, tx, asset, models.AssetStatusInReview, models.AssetStatusSigned, models.SignatureStamp(now))
		if err != nil {
			return err
		}
		if !ok {
			current, err := s.lockAsset(ctx, tx, assetID)
			if err != nil {
				return err
			}
			result.Asset = current
			if current.Status == models.AssetStatusSigned {
				result.AlreadySigned = true
				return nil
			}
			return fmt.Errorf("%w: cannot sign asset in status %s", ErrInvalidTransition, current.Status)
		}

		result.Contract, err = s.ledger.appendContract(ctx, tx, assetID, actor.ID, now)
		if err != nil {
			return err
		}

		result.Receipt = &models.Receipt{
			Date:       now,
			Asset:      asset.Title(),
			AssetID:    assetID,
			ContractID: &result.Contract.ID,
			Signer:     actor.ID,
			Amount:     receiptAmount,
		}
		if err := s.ledger.appendReceipt(ctx, tx, result.Receipt); err != nil {
			return err
		}

		_, err = s.audit.Append(ctx, tx, models.AuditActionSignAsset, TargetAsset, assetID, actor.ID, map[string]interface{}{
			"contract_id": result.Contract.ID,
			"receipt_id":  result.Receipt.ID,
			"amount":      receiptAmount,
			"signed_at":   asset.LegalSignatureStatus,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	logger := logrus.WithFields(logrus.Fields{
		"asset_id": assetID,
		"actor":    actor.ID,
		"action":   models.AuditActionSignAsset,
	})
	if result.AlreadySigned {
		logger.WithField("signed_at", result.Asset.LegalSignatureStatus).Warn("Asset already signed; sign request ignored")
	} else {
		logger.WithField("contract_id", result.Contract.ID).Info("Asset signed")
	}
	return result, nil
}

// Reject returns an in-review or signed asset to draft and clears its
// signature. Contract records and receipts of an earlier signing stay.
func (s *AssetService) Reject(ctx context.Context, actor models.Actor, assetID, reason string) (asset *models.AssetPacket, err error) {
	ctx, end := traced(ctx, "asset.Reject", attribute.String("asset.id", assetID))
	defer end(&err)

	if err := Authorize(actor, CapReject); err != nil {
		return nil, err
	}

	err = runTx(ctx, s.db, func(tx *gorm.DB) error {
		var err error
		asset, err = s.lockAsset(ctx, tx, assetID)
		if err != nil {
			return err
		}
		from := asset.Status
		if from != models.AssetStatusInReview && from != models.AssetStatusSigned {
			return fmt.Errorf("%w: cannot reject asset in status %s", ErrInvalidTransition, from)
		}

		ok, err := s.transition(ctx, tx, asset, from, models.AssetStatusDraft, models.SignatureUnsigned)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: asset %s changed concurrently", ErrInvalidTransition, assetID)
		}

		_, err = s.audit.Append(ctx, tx, models.AuditActionRejectAsset, TargetAsset, assetID, actor.ID, map[string]interface{}{
			"from":   from,
			"to":     models.AssetStatusDraft,
			"reason": reason,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"asset_id": assetID,
		"actor":    actor.ID,
		"action":   models.AuditActionRejectAsset,
	}).Info("Asset rejected")
	return asset, nil
}

func (s *AssetService) lockAsset(ctx context.Context, tx *gorm.DB, assetID string) (*models.AssetPacket, error) {
	var asset models.AssetPacket
	if err := forUpdate(tx.WithContext(ctx)).First(&asset, "asset_id = ?", assetID).Error; err != nil {
		return nil, notFoundOr(err, "asset", assetID)
	}
	return &asset, nil
}

// transition is a compare-and-set on status. It reports false when the row
// was no longer in the expected status.
func (s *AssetService) transition(ctx context.Context, tx *gorm.DB, asset *models.AssetPacket, from, to models.AssetStatus, signature string) (bool, error) {
	now := time.Now().UTC()
	res := tx.WithContext(ctx).Model(&models.AssetPacket{}).
		Where("asset_id = ? AND status = ?", asset.AssetID, from).
		Updates(map[string]interface{}{
			"status":                 to,
			"legal_signature_status": signature,
			"updated_at":             now,
		})
	if res.Error != nil {
		return false, storageError("update asset status", res.Error)
	}
	if res.RowsAffected != 1 {
		return false, nil
	}

	asset.Status = to
	asset.LegalSignatureStatus = signature
	asset.UpdatedAt = now
	return true, nil
}

// nextAssetID draws the next number of the division's sequence. The
// increment runs first so the row stays locked until the transaction ends.
func (s *AssetService) nextAssetID(ctx context.Context, tx *gorm.DB, division models.Division) (string, error) {
	res := tx.WithContext(ctx).Model(&models.AssetSequence{}).
		Where("division_id = ?", division).
		Update("last_value", gorm.Expr("last_value + 1"))
	if res.Error != nil {
		return "", storageError("advance asset sequence", res.Error)
	}
	if res.RowsAffected == 0 {
		if err := tx.WithContext(ctx).Create(&models.AssetSequence{DivisionID: division, LastValue: 1}).Error; err != nil {
			return "", storageError("create asset sequence", err)
		}
	}

	var seq models.AssetSequence
	if err := tx.WithContext(ctx).First(&seq, "division_id = ?", division).Error; err != nil {
		return "", storageError("read asset sequence", err)
	}
	return models.FormatAssetID(division, seq.LastValue), nil
}

func releaseDate(t *time.Time) *datatypes.Date {
	if t == nil {
		return nil
	}
	d := datatypes.Date(t.UTC())
	return &d
}
