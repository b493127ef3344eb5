// internal/services/tx_test.go
package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/omstudio/studio-ops/internal/models"
	"github.com/omstudio/studio-ops/internal/testsupport"
)

type TransactionTestSuite struct {
	suite.Suite
	ctx    context.Context
	engine *testEngine
}

func (suite *TransactionTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.engine = newTestEngine(suite.T())
}

func (suite *TransactionTestSuite) TestClosedDatabaseIsStorageFailure() {
	e := suite.engine
	asset := e.inReviewAsset(suite.T(), "Nebula Vol. 1", 12)
	employee := e.createEmployee(suite.T(), "Ada", "ada@omstudio.test")

	sqlDB, err := e.db.DB()
	require.NoError(suite.T(), err)
	require.NoError(suite.T(), sqlDB.Close())

	_, err = e.assets.Sign(suite.ctx, adminActor, asset.AssetID, nil)
	assert.ErrorIs(suite.T(), err, ErrStorageFailure)

	_, err = e.equity.GrantOptions(suite.ctx, adminActor, &GrantOptionsRequest{EmployeeID: employee.ID, Shares: 1000})
	assert.ErrorIs(suite.T(), err, ErrStorageFailure)

	_, err = e.assets.Reject(suite.ctx, adminActor, asset.AssetID, "rights dispute")
	assert.ErrorIs(suite.T(), err, ErrStorageFailure)
	assert.NotErrorIs(suite.T(), err, ErrNotFound)
}

func (suite *TransactionTestSuite) TestFailedAuditInsertRollsBackSign() {
	e := suite.engine
	asset := e.inReviewAsset(suite.T(), "Nebula Vol. 1", 12)
	snapshot := testsupport.Snapshot(suite.T(), e.db)
	e.failInserts(suite.T(), "audit_log_entries")

	result, err := e.assets.Sign(suite.ctx, adminActor, asset.AssetID, nil)
	assert.ErrorIs(suite.T(), err, ErrStorageFailure)
	assert.Nil(suite.T(), result)

	assert.Equal(suite.T(), snapshot, testsupport.Snapshot(suite.T(), e.db))
	stored, err := e.assets.GetAsset(suite.ctx, asset.AssetID)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.AssetStatusInReview, stored.Status)
	assert.Equal(suite.T(), models.SignatureUnsigned, stored.LegalSignatureStatus)
}

func (suite *TransactionTestSuite) TestFailedAuditInsertRollsBackGrant() {
	e := suite.engine
	employee := e.createEmployee(suite.T(), "Ada", "ada@omstudio.test")
	snapshot := testsupport.Snapshot(suite.T(), e.db)
	e.failInserts(suite.T(), "audit_log_entries")

	_, err := e.equity.GrantOptions(suite.ctx, adminActor, &GrantOptionsRequest{EmployeeID: employee.ID, Shares: 1000})
	assert.ErrorIs(suite.T(), err, ErrStorageFailure)

	assert.Equal(suite.T(), snapshot, testsupport.Snapshot(suite.T(), e.db))
	pool, err := e.equity.GetPool(suite.ctx)
	require.NoError(suite.T(), err)
	assert.EqualValues(suite.T(), 0, pool.PoolUtilized)
}

func (suite *TransactionTestSuite) TestSignLosingRaceIsNoop() {
	e := suite.engine
	asset := e.inReviewAsset(suite.T(), "Nebula Vol. 1", 12)
	audits := testsupport.Count(suite.T(), e.db, "audit_log_entries")
	stamp := models.SignatureStamp(time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC))
	e.interleaveUpdate(suite.T(), "asset_packets",
		"UPDATE asset_packets SET status = ?, legal_signature_status = ? WHERE asset_id = ?",
		models.AssetStatusSigned, stamp, asset.AssetID)

	result, err := e.assets.Sign(suite.ctx, adminActor, asset.AssetID, nil)
	require.NoError(suite.T(), err)
	assert.True(suite.T(), result.AlreadySigned)
	assert.Nil(suite.T(), result.Contract)
	assert.Nil(suite.T(), result.Receipt)
	assert.Equal(suite.T(), stamp, result.Asset.LegalSignatureStatus)
	assert.NoError(suite.T(), result.Asset.CheckSignatureInvariant())

	assert.EqualValues(suite.T(), 0, testsupport.Count(suite.T(), e.db, "contract_records"))
	assert.EqualValues(suite.T(), 0, testsupport.Count(suite.T(), e.db, "receipts"))
	assert.Equal(suite.T(), audits, testsupport.Count(suite.T(), e.db, "audit_log_entries"))
}

func (suite *TransactionTestSuite) TestSubmitLosingRaceIsInvalidTransition() {
	e := suite.engine
	asset := e.createAsset(suite.T(), creatorActor, models.DivisionComics, "Nebula Vol. 1", 12, 120)
	snapshot := testsupport.Snapshot(suite.T(), e.db)
	e.interleaveUpdate(suite.T(), "asset_packets",
		"UPDATE asset_packets SET status = ? WHERE asset_id = ?", models.AssetStatusInReview, asset.AssetID)

	_, err := e.assets.SubmitForReview(suite.ctx, creatorActor, asset.AssetID)
	assert.ErrorIs(suite.T(), err, ErrInvalidTransition)
	assert.Equal(suite.T(), snapshot, testsupport.Snapshot(suite.T(), e.db))
}

func (suite *TransactionTestSuite) TestRejectLosingRaceIsInvalidTransition() {
	e := suite.engine
	asset := e.inReviewAsset(suite.T(), "Nebula Vol. 1", 12)
	snapshot := testsupport.Snapshot(suite.T(), e.db)
	e.interleaveUpdate(suite.T(), "asset_packets",
		"UPDATE asset_packets SET status = ? WHERE asset_id = ?", models.AssetStatusDraft, asset.AssetID)

	_, err := e.assets.Reject(suite.ctx, adminActor, asset.AssetID, "rights dispute")
	assert.ErrorIs(suite.T(), err, ErrInvalidTransition)
	assert.Equal(suite.T(), snapshot, testsupport.Snapshot(suite.T(), e.db))
}

func (suite *TransactionTestSuite) TestGrantLosingRaceIsPoolExhausted() {
	e := suite.engine
	employee := e.createEmployee(suite.T(), "Ada", "ada@omstudio.test")
	snapshot := testsupport.Snapshot(suite.T(), e.db)
	e.interleaveUpdate(suite.T(), "cap_table_pools", "UPDATE cap_table_pools SET pool_utilized = pool_shares")

	_, err := e.equity.GrantOptions(suite.ctx, adminActor, &GrantOptionsRequest{EmployeeID: employee.ID, Shares: 1000})
	assert.ErrorIs(suite.T(), err, ErrPoolExhausted)
	assert.Equal(suite.T(), snapshot, testsupport.Snapshot(suite.T(), e.db))
}

func (suite *TransactionTestSuite) TestResizeLosingRaceIsPoolExhausted() {
	e := suite.engine
	snapshot := testsupport.Snapshot(suite.T(), e.db)
	e.interleaveUpdate(suite.T(), "cap_table_pools", "UPDATE cap_table_pools SET pool_utilized = pool_shares")

	_, err := e.equity.ResizePool(suite.ctx, adminActor, 500_000)
	assert.ErrorIs(suite.T(), err, ErrPoolExhausted)
	assert.Equal(suite.T(), snapshot, testsupport.Snapshot(suite.T(), e.db))
}

func TestTransactionTestSuite(t *testing.T) {
	suite.Run(t, new(TransactionTestSuite))
}
