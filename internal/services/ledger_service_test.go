// internal/services/ledger_service_test.go
package services

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/omstudio/studio-ops/internal/models"
	"github.com/omstudio/studio-ops/internal/testsupport"
	"github.com/omstudio/studio-ops/internal/utils"
)

type LedgerServiceTestSuite struct {
	suite.Suite
	ctx    context.Context
	engine *testEngine
}

func (suite *LedgerServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.engine = newTestEngine(suite.T())
}

func (suite *LedgerServiceTestSuite) TestRecordContract() {
	date := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	record, err := suite.engine.ledger.RecordContract(suite.ctx, adminActor, &RecordContractRequest{
		AssetID: "OM-CM-001",
		Signer:  "legal@studio.test",
		Date:    date,
	})
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), utils.HashFields("OM-CM-001", "legal@studio.test", models.SignatureStamp(date)), record.Digest)

	records, total, err := suite.engine.ledger.ListContracts(suite.ctx, LedgerFilter{AssetID: "OM-CM-001"})
	require.NoError(suite.T(), err)
	assert.EqualValues(suite.T(), 1, total)
	assert.Equal(suite.T(), record.ID, records[0].ID)

	_, err = suite.engine.ledger.RecordContract(suite.ctx, adminActor, &RecordContractRequest{AssetID: "OM-CM-001"})
	assert.ErrorIs(suite.T(), err, ErrValidation)

	_, err = suite.engine.ledger.RecordContract(suite.ctx, creatorActor, &RecordContractRequest{
		AssetID: "OM-CM-001", Signer: "x", Date: date,
	})
	assert.ErrorIs(suite.T(), err, ErrPermissionDenied)
}

func (suite *LedgerServiceTestSuite) TestRecordReceipt() {
	req := &RecordReceiptRequest{
		Date:   time.Now(),
		Asset:  "Nebula Vol. 1",
		Signer: "admin-1",
		Amount: 120.25,
	}
	receipt, err := suite.engine.ledger.RecordReceipt(suite.ctx, adminActor, req)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), 120.25, receipt.Amount)

	for _, amount := range []float64{-0.01, math.NaN(), math.Inf(-1)} {
		req.Amount = amount
		_, err := suite.engine.ledger.RecordReceipt(suite.ctx, adminActor, req)
		assert.ErrorIs(suite.T(), err, ErrInvalidAmount)
	}
	assert.EqualValues(suite.T(), 1, testsupport.Count(suite.T(), suite.engine.db, "receipts"))

	action := models.AuditActionRecordReceipt
	_, total, err := suite.engine.audit.Query(suite.ctx, AuditFilter{Action: &action})
	require.NoError(suite.T(), err)
	assert.EqualValues(suite.T(), 1, total)
}

func (suite *LedgerServiceTestSuite) TestLedgerRowsAreAppendOnly() {
	e := suite.engine
	asset := e.inReviewAsset(suite.T(), "Nebula", 12)
	result, err := e.assets.Sign(suite.ctx, adminActor, asset.AssetID, nil)
	require.NoError(suite.T(), err)

	contract := *result.Contract
	contract.Signer = "someone-else"
	assert.ErrorIs(suite.T(), e.db.Save(&contract).Error, ErrAppendOnly)
	assert.ErrorIs(suite.T(), e.db.Delete(&contract).Error, ErrAppendOnly)

	receipt := *result.Receipt
	assert.ErrorIs(suite.T(), e.db.Model(&receipt).Update("amount", 0).Error, ErrAppendOnly)
	assert.ErrorIs(suite.T(), e.db.Delete(&receipt).Error, ErrAppendOnly)

	var entry models.AuditLogEntry
	require.NoError(suite.T(), e.db.First(&entry).Error)
	assert.ErrorIs(suite.T(), e.db.Model(&entry).Update("details", "redacted").Error, ErrAppendOnly)
	assert.ErrorIs(suite.T(), e.db.Delete(&entry).Error, ErrAppendOnly)

	records, _, err := e.ledger.ListContracts(suite.ctx, LedgerFilter{})
	require.NoError(suite.T(), err)
	require.Len(suite.T(), records, 1)
	assert.Equal(suite.T(), adminActor.ID, records[0].Signer)
}

func (suite *LedgerServiceTestSuite) TestAggregateAssetValueMatchesFullScan() {
	e := suite.engine
	total, err := e.ledger.AggregateAssetValue(suite.ctx)
	require.NoError(suite.T(), err)
	assert.Zero(suite.T(), total)

	e.createAsset(suite.T(), creatorActor, models.DivisionComics, "A", 1, 1000.5)
	b := e.createAsset(suite.T(), creatorActor, models.DivisionGames, "B", 1, 250)
	e.createAsset(suite.T(), otherCreator, models.DivisionMusic, "C", 1, 0)

	value := 4000.0
	_, err = e.assets.UpdateAsset(suite.ctx, creatorActor, b.AssetID, &UpdateAssetRequest{EstimatedValue: &value})
	require.NoError(suite.T(), err)

	total, err = e.ledger.AggregateAssetValue(suite.ctx)
	require.NoError(suite.T(), err)

	assets, _, err := e.assets.ListAssets(suite.ctx, AssetFilter{})
	require.NoError(suite.T(), err)
	var scan float64
	for _, a := range assets {
		scan += a.EstimatedValue
	}
	assert.InDelta(suite.T(), scan, total, 1e-6)
	assert.InDelta(suite.T(), 5000.5, total, 1e-6)
}

func (suite *LedgerServiceTestSuite) TestValuationSummary() {
	e := suite.engine
	e.createAsset(suite.T(), creatorActor, models.DivisionComics, "A", 1, 100)
	e.createAsset(suite.T(), creatorActor, models.DivisionComics, "B", 1, 200)
	signed := e.inReviewAsset(suite.T(), "C", 30)
	_, err := e.assets.Sign(suite.ctx, adminActor, signed.AssetID, nil)
	require.NoError(suite.T(), err)

	summary, err := e.ledger.ValuationSummary(suite.ctx)
	require.NoError(suite.T(), err)
	assert.EqualValues(suite.T(), 3, summary.AssetCount)
	assert.InDelta(suite.T(), 600, summary.TotalValue, 1e-6)
	assert.EqualValues(suite.T(), 1, summary.SignedCount)
	assert.InDelta(suite.T(), 300, summary.SignedValue, 1e-6)

	require.Len(suite.T(), summary.ByDivision, len(models.Divisions()))
	assert.Equal(suite.T(), models.DivisionComics, summary.ByDivision[0].DivisionID)
	assert.EqualValues(suite.T(), 3, summary.ByDivision[0].AssetCount)
	assert.Zero(suite.T(), summary.ByDivision[1].AssetCount)
}

func TestLedgerServiceSuite(t *testing.T) {
	suite.Run(t, new(LedgerServiceTestSuite))
}
