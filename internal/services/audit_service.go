// internal/services/audit_service.go
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/omstudio/studio-ops/internal/models"
	"github.com/omstudio/studio-ops/internal/utils"
)

// Audit target types.
const (
	TargetAsset       = "asset"
	TargetShareholder = "shareholder"
	TargetPool        = "cap_table_pool"
	TargetEmployee    = "employee"
	TargetContract    = "contract_record"
	TargetReceipt     = "receipt"
)

type AuditService struct {
	db *gorm.DB
}

type AuditFilter struct {
	utils.PaginationParams
	Action      *models.AuditAction `json:"action,omitempty"`
	TargetType  string              `json:"target_type,omitempty"`
	TargetID    string              `json:"target_id,omitempty"`
	PerformedBy string              `json:"performed_by,omitempty"`
}

func NewAuditService(db *gorm.DB) *AuditService {
	return &AuditService{db: db}
}

// Append writes one entry using the caller's transaction handle. details is
// stored as JSON unless it already is a string.
func (s *AuditService) Append(ctx context.Context, tx *gorm.DB, action models.AuditAction, targetType, targetID, performedBy string, details interface{}) (*models.AuditLogEntry, error) {
	if tx == nil {
		tx = s.db
	}

	var text string
	switch d := details.(type) {
	case nil:
	case string:
		text = d
	default:
		raw, err := json.Marshal(d)
		if err != nil {
			return nil, fmt.Errorf("%w: encode audit details: %w", ErrValidation, err)
		}
		text = string(raw)
	}

	entry := &models.AuditLogEntry{
		Action:      action,
		TargetType:  targetType,
		TargetID:    targetID,
		PerformedBy: performedBy,
		Timestamp:   time.Now().UTC(),
		Details:     text,
	}
	if err := tx.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, storageError("append audit entry", err)
	}
	return entry, nil
}

// Query returns entries newest first.
func (s *AuditService) Query(ctx context.Context, filter AuditFilter) (entries []models.AuditLogEntry, total int64, err error) {
	ctx, end := traced(ctx, "audit.Query")
	defer end(&err)

	query := s.db.WithContext(ctx).Model(&models.AuditLogEntry{})
	if filter.Action != nil {
		query = query.Where("action = ?", *filter.Action)
	}
	if filter.TargetType != "" {
		query = query.Where("target_type = ?", filter.TargetType)
	}
	if filter.TargetID != "" {
		query = query.Where("target_id = ?", filter.TargetID)
	}
	if filter.PerformedBy != "" {
		query = query.Where("performed_by = ?", filter.PerformedBy)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, storageError("count audit entries", err)
	}

	query = utils.ApplyPagination(query.Order("timestamp DESC").Order("id DESC"), filter.PaginationParams)
	if err := query.Find(&entries).Error; err != nil {
		return nil, 0, storageError("query audit entries", err)
	}
	return entries, total, nil
}
