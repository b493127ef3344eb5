// internal/models/asset.go
package models

import (
	"fmt"
	"time"

	"gorm.io/datatypes"
)

// SignatureUnsigned is the legal signature sentinel of every asset that is not
// in the signed state.
const SignatureUnsigned = "unsigned"

// AssetPacket is a unit of intellectual property moving through the legal
// signing workflow. Status and LegalSignatureStatus are owned by the lifecycle
// engine; nothing else writes them.
type AssetPacket struct {
	AssetID              string            `json:"asset_id" gorm:"primaryKey;size:32"`
	CreatorID            string            `json:"creator_id" gorm:"size:64;not null;index"`
	DivisionID           Division          `json:"division_id" gorm:"type:varchar(8);not null;index"`
	IPStatus             IPStatus          `json:"ip_status" gorm:"type:varchar(20);not null"`
	LegalSignatureStatus string            `json:"legal_signature_status" gorm:"size:40;not null;default:'unsigned'"`
	Status               AssetStatus       `json:"status" gorm:"type:varchar(20);not null;default:'draft';index"`
	ContentMetadata      datatypes.JSONMap `json:"content_metadata"`
	FinancialTag         FinancialTag      `json:"financial_tag" gorm:"embedded;embeddedPrefix:financial_"`
	EstimatedValue       float64           `json:"estimated_value" gorm:"type:decimal(14,2);not null;default:0"`
	CreatedAt            time.Time         `json:"created_at"`
	UpdatedAt            time.Time         `json:"updated_at"`
}

type FinancialTag struct {
	Price       float64         `json:"price" gorm:"type:decimal(14,2);not null;default:0"`
	ReleaseDate *datatypes.Date `json:"release_date,omitempty"`
}

// AssetSequence hands out the per-division running number used in asset ids.
type AssetSequence struct {
	DivisionID Division `gorm:"primaryKey;type:varchar(8)"`
	LastValue  int      `gorm:"not null;default:0"`
}

// FormatAssetID renders the studio asset id, e.g. OM-CM-003.
func FormatAssetID(division Division, seq int) string {
	return fmt.Sprintf("OM-%s-%03d", division, seq)
}

// Title is the display name used on receipts.
func (a *AssetPacket) Title() string {
	if a.ContentMetadata != nil {
		if title, ok := a.ContentMetadata["title"].(string); ok && title != "" {
			return title
		}
	}
	return a.AssetID
}

// SignedAt parses the legal signature timestamp.
func (a *AssetPacket) SignedAt() (time.Time, bool) {
	if a.LegalSignatureStatus == SignatureUnsigned {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339Nano, a.LegalSignatureStatus)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// CheckSignatureInvariant reports a violation of "signed iff the signature
// holds a valid timestamp".
func (a *AssetPacket) CheckSignatureInvariant() error {
	_, stamped := a.SignedAt()
	if a.Status == AssetStatusSigned && !stamped {
		return fmt.Errorf("asset %s is signed without a signature timestamp", a.AssetID)
	}
	if a.Status != AssetStatusSigned && a.LegalSignatureStatus != SignatureUnsigned {
		return fmt.Errorf("asset %s is %s but carries signature %q", a.AssetID, a.Status, a.LegalSignatureStatus)
	}
	return nil
}

// SignatureStamp formats a signing time the way it is persisted.
func SignatureStamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
