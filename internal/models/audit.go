// internal/models/audit.go
package models

import (
	"time"

	"gorm.io/gorm"
)

// AuditLogEntry records one mutating administrative action. The
// auto-increment id preserves insertion order between equal timestamps.
type AuditLogEntry struct {
	ID          uint64      `json:"id" gorm:"primaryKey;autoIncrement"`
	Action      AuditAction `json:"action" gorm:"type:varchar(50);not null;index"`
	TargetType  string      `json:"target_type" gorm:"size:50;not null;index"`
	TargetID    string      `json:"target_id" gorm:"size:64;not null;index"`
	PerformedBy string      `json:"performed_by" gorm:"size:64;not null;index"`
	Timestamp   time.Time   `json:"timestamp" gorm:"not null;index"`
	Details     string      `json:"details" gorm:"type:text"`
}

func (AuditLogEntry) TableName() string {
	return "audit_log_entries"
}

func (e *AuditLogEntry) BeforeUpdate(tx *gorm.DB) error { return ErrAppendOnly }
func (e *AuditLogEntry) BeforeDelete(tx *gorm.DB) error { return ErrAppendOnly }
