// internal/models/common.go
package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrAppendOnly is returned by ledger hooks when something tries to rewrite
// or remove a ledger row.
var ErrAppendOnly = errors.New("ledger rows are append-only")

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// Enums
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleCreator Role = "creator"
)

// Actor is the authenticated caller as handed over by the auth layer.
type Actor struct {
	ID   string `json:"id"`
	Role Role   `json:"role"`
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

type AssetStatus string

const (
	AssetStatusDraft    AssetStatus = "draft"
	AssetStatusInReview AssetStatus = "in_review"
	AssetStatusSigned   AssetStatus = "signed"
)

func (s AssetStatus) Valid() bool {
	switch s {
	case AssetStatusDraft, AssetStatusInReview, AssetStatusSigned:
		return true
	}
	return false
}

type IPStatus string

const (
	IPStatusWorkForHire  IPStatus = "work_for_hire"
	IPStatusRoyaltyShare IPStatus = "royalty_share"
)

func (s IPStatus) Valid() bool {
	return s == IPStatusWorkForHire || s == IPStatusRoyaltyShare
}

type Division string

const (
	DivisionComics    Division = "CM"
	DivisionProse     Division = "PR"
	DivisionGames     Division = "GM"
	DivisionAnimation Division = "AN"
	DivisionMusic     Division = "MU"
)

var divisionNames = map[Division]string{
	DivisionComics:    "Comics",
	DivisionProse:     "Prose",
	DivisionGames:     "Games",
	DivisionAnimation: "Animation",
	DivisionMusic:     "Music",
}

func (d Division) Valid() bool {
	_, ok := divisionNames[d]
	return ok
}

func (d Division) Name() string {
	return divisionNames[d]
}

// Divisions returns the fixed set of organizational divisions in display order.
func Divisions() []Division {
	return []Division{DivisionComics, DivisionProse, DivisionGames, DivisionAnimation, DivisionMusic}
}

type ShareholderType string

const (
	ShareholderTypeFounder  ShareholderType = "founder"
	ShareholderTypeInvestor ShareholderType = "investor"
	ShareholderTypeEmployee ShareholderType = "employee"
)

func (t ShareholderType) Valid() bool {
	switch t {
	case ShareholderTypeFounder, ShareholderTypeInvestor, ShareholderTypeEmployee:
		return true
	}
	return false
}

type AuditAction string

const (
	AuditActionCreateAsset    AuditAction = "CREATE_ASSET"
	AuditActionUpdateAsset    AuditAction = "UPDATE_ASSET"
	AuditActionSubmitAsset    AuditAction = "SUBMIT_ASSET"
	AuditActionSignAsset      AuditAction = "SIGN_ASSET"
	AuditActionRejectAsset    AuditAction = "REJECT_ASSET"
	AuditActionAddShareholder AuditAction = "ADD_SHAREHOLDER"
	AuditActionGrantOptions   AuditAction = "GRANT_OPTIONS"
	AuditActionResizePool     AuditAction = "RESIZE_POOL"
	AuditActionCreateEmployee AuditAction = "CREATE_EMPLOYEE"
	AuditActionRecordContract AuditAction = "RECORD_CONTRACT"
	AuditActionRecordReceipt  AuditAction = "RECORD_RECEIPT"
)
