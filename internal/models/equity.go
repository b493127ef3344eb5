// internal/models/equity.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// CapTablePoolID is the primary key of the singleton pool row.
const CapTablePoolID uint = 1

type Shareholder struct {
	BaseModel
	Name       string          `json:"name" gorm:"size:255;not null"`
	Type       ShareholderType `json:"type" gorm:"type:varchar(20);not null;index"`
	Shares     int64           `json:"shares" gorm:"not null"`
	Percentage float64         `json:"percentage" gorm:"not null"`
	Email      string          `json:"email" gorm:"size:255"`
	GrantDate  time.Time       `json:"grant_date" gorm:"not null"`
	EmployeeID *uuid.UUID      `json:"employee_id,omitempty" gorm:"type:uuid;index"`
}

// CapTablePool holds the option pool counters. The check constraint backs up
// the service-level bound on pool_utilized.
type CapTablePool struct {
	ID                    uint      `json:"id" gorm:"primaryKey;autoIncrement:false"`
	TotalAuthorizedShares int64     `json:"total_authorized_shares" gorm:"not null"`
	FounderShares         int64     `json:"founder_shares" gorm:"not null;default:0"`
	PoolShares            int64     `json:"pool_shares" gorm:"not null;default:0;check:chk_pool_shares_nonneg,pool_shares >= 0"`
	PoolUtilized          int64     `json:"pool_utilized" gorm:"not null;default:0;check:chk_pool_utilized_bounds,pool_utilized >= 0 AND pool_utilized <= pool_shares"`
	UpdatedAt             time.Time `json:"updated_at"`
}

func (p CapTablePool) Available() int64 {
	return p.PoolShares - p.PoolUtilized
}

// Percentage reports shares against the authorized-share ceiling rather than
// the issued total, so the cap table does not sum to 100.
func Percentage(shares, totalAuthorized int64) float64 {
	if totalAuthorized <= 0 {
		return 0
	}
	return float64(shares) / float64(totalAuthorized) * 100
}
