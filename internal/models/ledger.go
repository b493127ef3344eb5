// internal/models/ledger.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ContractRecord is permanent evidence of a signed agreement.
type ContractRecord struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	AssetID   string    `json:"asset_id" gorm:"size:32;not null;index"`
	Signer    string    `json:"signer" gorm:"size:255;not null"`
	Date      time.Time `json:"date" gorm:"not null;index"`
	Digest    string    `json:"digest" gorm:"size:64;not null"`
	CreatedAt time.Time `json:"created_at"`
}

// Receipt is the value side of a signing event.
type Receipt struct {
	ID         uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	Date       time.Time  `json:"date" gorm:"not null;index"`
	Asset      string     `json:"asset" gorm:"size:255;not null"`
	AssetID    string     `json:"asset_id,omitempty" gorm:"size:32;index"`
	ContractID *uuid.UUID `json:"contract_id,omitempty" gorm:"type:uuid;index"`
	Signer     string     `json:"signer" gorm:"size:255;not null"`
	Amount     float64    `json:"amount" gorm:"type:decimal(14,2);not null"`
	CreatedAt  time.Time  `json:"created_at"`
}

func (c *ContractRecord) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func (c *ContractRecord) BeforeUpdate(tx *gorm.DB) error { return ErrAppendOnly }
func (c *ContractRecord) BeforeDelete(tx *gorm.DB) error { return ErrAppendOnly }

func (r *Receipt) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

func (r *Receipt) BeforeUpdate(tx *gorm.DB) error { return ErrAppendOnly }
func (r *Receipt) BeforeDelete(tx *gorm.DB) error { return ErrAppendOnly }
