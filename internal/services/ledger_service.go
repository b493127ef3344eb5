// internal/services/ledger_service.go
package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"

	"github.com/omstudio/studio-ops/internal/models"
	"github.com/omstudio/studio-ops/internal/utils"
)

type LedgerService struct {
	db    *gorm.DB
	audit *AuditService
}

type RecordContractRequest struct {
	AssetID string    `json:"asset_id" validate:"required,max=32"`
	Signer  string    `json:"signer" validate:"required,max=255"`
	Date    time.Time `json:"date" validate:"required"`
}

type RecordReceiptRequest struct {
	Date       time.Time  `json:"date" validate:"required"`
	Asset      string     `json:"asset" validate:"required,max=255"`
	AssetID    string     `json:"asset_id,omitempty" validate:"omitempty,max=32"`
	ContractID *uuid.UUID `json:"contract_id,omitempty"`
	Signer     string     `json:"signer" validate:"required,max=255"`
	Amount     float64    `json:"amount"`
}

type LedgerFilter struct {
	utils.PaginationParams
	AssetID string `json:"asset_id,omitempty"`
}

type DivisionValuation struct {
	DivisionID models.Division `json:"division_id"`
	Name       string          `json:"name"`
	AssetCount int64           `json:"asset_count"`
	TotalValue float64         `json:"total_value"`
}

type ValuationSummary struct {
	TotalValue  float64             `json:"total_value"`
	AssetCount  int64               `json:"asset_count"`
	SignedValue float64             `json:"signed_value"`
	SignedCount int64               `json:"signed_count"`
	ByDivision  []DivisionValuation `json:"by_division"`
}

type valuationRow struct {
	DivisionID models.Division
	AssetCount int64
	TotalValue float64
}

func NewLedgerService(db *gorm.DB, audit *AuditService) *LedgerService {
	return &LedgerService{db: db, audit: audit}
}

// RecordContract appends a contract record outside of a signing event, e.g.
// when backfilling paper agreements.
func (s *LedgerService) RecordContract(ctx context.Context, actor models.Actor, req *RecordContractRequest) (record *models.ContractRecord, err error) {
	ctx, end := traced(ctx, "ledger.RecordContract", attribute.String("asset.id", req.AssetID))
	defer end(&err)

	if err := Authorize(actor, CapRecordLedger); err != nil {
		return nil, err
	}
	if err := utils.ValidateStruct(req); err != nil {
		return nil, validationError(err)
	}

	err = runTx(ctx, s.db, func(tx *gorm.DB) error {
		var err error
		record, err = s.appendContract(ctx, tx, req.AssetID, req.Signer, req.Date)
		if err != nil {
			return err
		}
		_, err = s.audit.Append(ctx, tx, models.AuditActionRecordContract, TargetContract, record.ID.String(), actor.ID, map[string]interface{}{
			"asset_id": record.AssetID,
			"signer":   record.Signer,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"contract_id": record.ID,
		"asset_id":    record.AssetID,
		"actor":       actor.ID,
	}).Info("Contract recorded")
	return record, nil
}

// RecordReceipt appends a receipt outside of a signing event.
func (s *LedgerService) RecordReceipt(ctx context.Context, actor models.Actor, req *RecordReceiptRequest) (receipt *models.Receipt, err error) {
	ctx, end := traced(ctx, "ledger.RecordReceipt", attribute.String("asset.id", req.AssetID))
	defer end(&err)

	if err := Authorize(actor, CapRecordLedger); err != nil {
		return nil, err
	}
	if err := utils.ValidateStruct(req); err != nil {
		return nil, validationError(err)
	}
	if err := checkAmount(req.Amount); err != nil {
		return nil, err
	}

	receipt = &models.Receipt{
		Date:       req.Date.UTC(),
		Asset:      req.Asset,
		AssetID:    req.AssetID,
		ContractID: req.ContractID,
		Signer:     req.Signer,
		Amount:     req.Amount,
	}
	err = runTx(ctx, s.db, func(tx *gorm.DB) error {
		if err := s.appendReceipt(ctx, tx, receipt); err != nil {
			return err
		}
		_, err := s.audit.Append(ctx, tx, models.AuditActionRecordReceipt, TargetReceipt, receipt.ID.String(), actor.ID, map[string]interface{}{
			"asset":  receipt.Asset,
			"amount": receipt.Amount,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"receipt_id": receipt.ID,
		"asset":      receipt.Asset,
		"amount":     receipt.Amount,
		"actor":      actor.ID,
	}).Info("Receipt recorded")
	return receipt, nil
}

func (s *LedgerService) appendContract(ctx context.Context, tx *gorm.DB, assetID, signer string, date time.Time) (*models.ContractRecord, error) {
	date = date.UTC()
	record := &models.ContractRecord{
		AssetID: assetID,
		Signer:  signer,
		Date:    date,
		Digest:  utils.HashFields(assetID, signer, models.SignatureStamp(date)),
	}
	if err := tx.WithContext(ctx).Create(record).Error; err != nil {
		return nil, storageError("append contract record", err)
	}
	return record, nil
}

func (s *LedgerService) appendReceipt(ctx context.Context, tx *gorm.DB, receipt *models.Receipt) error {
	if err := checkAmount(receipt.Amount); err != nil {
		return err
	}
	if err := tx.WithContext(ctx).Create(receipt).Error; err != nil {
		return storageError("append receipt", err)
	}
	return nil
}

func (s *LedgerService) ListContracts(ctx context.Context, filter LedgerFilter) (records []models.ContractRecord, total int64, err error) {
	ctx, end := traced(ctx, "ledger.ListContracts")
	defer end(&err)

	query := s.db.WithContext(ctx).Model(&models.ContractRecord{})
	if filter.AssetID != "" {
		query = query.Where("asset_id = ?", filter.AssetID)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, storageError("count contract records", err)
	}
	query = utils.ApplyPagination(query.Order("date DESC").Order("created_at DESC"), filter.PaginationParams)
	if err := query.Find(&records).Error; err != nil {
		return nil, 0, storageError("list contract records", err)
	}
	return records, total, nil
}

func (s *LedgerService) ListReceipts(ctx context.Context, filter LedgerFilter) (receipts []models.Receipt, total int64, err error) {
	ctx, end := traced(ctx, "ledger.ListReceipts")
	defer end(&err)

	query := s.db.WithContext(ctx).Model(&models.Receipt{})
	if filter.AssetID != "" {
		query = query.Where("asset_id = ?", filter.AssetID)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, storageError("count receipts", err)
	}
	query = utils.ApplyPagination(query.Order("date DESC").Order("created_at DESC"), filter.PaginationParams)
	if err := query.Find(&receipts).Error; err != nil {
		return nil, 0, storageError("list receipts", err)
	}
	return receipts, total, nil
}

// AggregateAssetValue sums estimated value over every asset packet. The sum is
// computed by the database on each call.
func (s *LedgerService) AggregateAssetValue(ctx context.Context) (total float64, err error) {
	ctx, end := traced(ctx, "ledger.AggregateAssetValue")
	defer end(&err)

	if err := s.db.WithContext(ctx).Model(&models.AssetPacket{}).
		Select("COALESCE(SUM(estimated_value), 0)").
		Scan(&total).Error; err != nil {
		return 0, storageError("aggregate asset value", err)
	}
	return total, nil
}

func (s *LedgerService) ValuationSummary(ctx context.Context) (summary *ValuationSummary, err error) {
	ctx, end := traced(ctx, "ledger.ValuationSummary")
	defer end(&err)

	var rows []valuationRow
	if err := s.db.WithContext(ctx).Model(&models.AssetPacket{}).
		Select("division_id, COUNT(*) AS asset_count, COALESCE(SUM(estimated_value), 0) AS total_value").
		Group("division_id").
		Scan(&rows).Error; err != nil {
		return nil, storageError("summarize divisions", err)
	}

	var signed struct {
		AssetCount int64
		TotalValue float64
	}
	if err := s.db.WithContext(ctx).Model(&models.AssetPacket{}).
		Select("COUNT(*) AS asset_count, COALESCE(SUM(estimated_value), 0) AS total_value").
		Where("status = ?", models.AssetStatusSigned).
		Scan(&signed).Error; err != nil {
		return nil, storageError("summarize signed assets", err)
	}

	byDivision := make(map[models.Division]valuationRow, len(rows))
	for _, row := range rows {
		byDivision[row.DivisionID] = row
	}

	summary = &ValuationSummary{
		SignedValue: signed.TotalValue,
		SignedCount: signed.AssetCount,
	}
	for _, division := range models.Divisions() {
		row := byDivision[division]
		summary.TotalValue += row.TotalValue
		summary.AssetCount += row.AssetCount
		summary.ByDivision = append(summary.ByDivision, DivisionValuation{
			DivisionID: division,
			Name:       division.Name(),
			AssetCount: row.AssetCount,
			TotalValue: row.TotalValue,
		})
	}
	return summary, nil
}
