// internal/models/models_test.go
package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatAssetID(t *testing.T) {
	assert.Equal(t, "OM-CM-003", FormatAssetID(DivisionComics, 3))
	assert.Equal(t, "OM-MU-120", FormatAssetID(DivisionMusic, 120))
	assert.Equal(t, "OM-PR-1000", FormatAssetID(DivisionProse, 1000))
}

func TestDivisions(t *testing.T) {
	for _, d := range Divisions() {
		assert.True(t, d.Valid(), d)
		assert.NotEmpty(t, d.Name(), d)
	}
	assert.False(t, Division("XX").Valid())
	assert.Equal(t, "Games", DivisionGames.Name())
}

func TestSignatureInvariant(t *testing.T) {
	signedAt := time.Date(2025, 4, 2, 10, 30, 0, 0, time.UTC)

	asset := &AssetPacket{AssetID: "OM-CM-001", Status: AssetStatusDraft, LegalSignatureStatus: SignatureUnsigned}
	assert.NoError(t, asset.CheckSignatureInvariant())

	asset.Status = AssetStatusSigned
	assert.Error(t, asset.CheckSignatureInvariant())

	asset.LegalSignatureStatus = SignatureStamp(signedAt)
	assert.NoError(t, asset.CheckSignatureInvariant())
	got, ok := asset.SignedAt()
	assert.True(t, ok)
	assert.True(t, got.Equal(signedAt))

	asset.Status = AssetStatusInReview
	assert.Error(t, asset.CheckSignatureInvariant())

	asset.Status = AssetStatusSigned
	asset.LegalSignatureStatus = "yesterday"
	assert.Error(t, asset.CheckSignatureInvariant())
}

func TestTitleFallsBackToAssetID(t *testing.T) {
	asset := &AssetPacket{AssetID: "OM-GM-002"}
	assert.Equal(t, "OM-GM-002", asset.Title())

	asset.ContentMetadata = map[string]interface{}{"title": "Ember Court"}
	assert.Equal(t, "Ember Court", asset.Title())
}

func TestPoolAvailableAndPercentage(t *testing.T) {
	pool := CapTablePool{TotalAuthorizedShares: 10_000_000, PoolShares: 1_000_000, PoolUtilized: 150_000}
	assert.Equal(t, int64(850_000), pool.Available())

	assert.InDelta(t, 8.0, Percentage(800_000, 10_000_000), 1e-9)
	assert.Equal(t, 0.0, Percentage(10, 0))
}

func TestEnumValidity(t *testing.T) {
	assert.True(t, AssetStatusInReview.Valid())
	assert.False(t, AssetStatus("archived").Valid())
	assert.True(t, IPStatusRoyaltyShare.Valid())
	assert.False(t, IPStatus("public_domain").Valid())
	assert.True(t, ShareholderTypeInvestor.Valid())
	assert.False(t, ShareholderType("advisor").Valid())
	assert.True(t, Actor{ID: "a", Role: RoleAdmin}.IsAdmin())
}
