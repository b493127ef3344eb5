// internal/services/helpers_test.go
package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/omstudio/studio-ops/internal/models"
	"github.com/omstudio/studio-ops/internal/testsupport"
	"github.com/omstudio/studio-ops/internal/utils"
)

var (
	adminActor   = models.Actor{ID: "admin-1", Role: models.RoleAdmin}
	creatorActor = models.Actor{ID: "creator-1", Role: models.RoleCreator}
	otherCreator = models.Actor{ID: "creator-2", Role: models.RoleCreator}
)

type testEngine struct {
	db        *gorm.DB
	audit     *AuditService
	ledger    *LedgerService
	assets    *AssetService
	equity    *EquityService
	employees *EmployeeService
}

func newTestEngine(t testing.TB) *testEngine {
	t.Helper()

	db := testsupport.NewDB(t)
	engine := NewEngine(db)
	return &testEngine{
		db:        db,
		audit:     engine.Audit,
		ledger:    engine.Ledger,
		assets:    engine.Assets,
		equity:    engine.Equity,
		employees: engine.Employees,
	}
}

func (e *testEngine) createAsset(t testing.TB, actor models.Actor, division models.Division, title string, price, value float64) *models.AssetPacket {
	t.Helper()

	asset, err := e.assets.CreateAsset(context.Background(), actor, &CreateAssetRequest{
		DivisionID:      division,
		IPStatus:        models.IPStatusWorkForHire,
		Title:           title,
		ContentMetadata: map[string]interface{}{"genre": "sci-fi", "type": "comic"},
		Price:           price,
		EstimatedValue:  value,
	})
	require.NoError(t, err)
	return asset
}

func (e *testEngine) inReviewAsset(t testing.TB, title string, price float64) *models.AssetPacket {
	t.Helper()

	asset := e.createAsset(t, creatorActor, models.DivisionComics, title, price, price*10)
	asset, err := e.assets.SubmitForReview(context.Background(), creatorActor, asset.AssetID)
	require.NoError(t, err)
	return asset
}

func (e *testEngine) createEmployee(t testing.TB, name, email string) *models.Employee {
	t.Helper()

	employee, err := e.employees.CreateEmployee(context.Background(), adminActor, &CreateEmployeeRequest{
		Name:  name,
		Email: email,
		Title: "Artist",
	})
	require.NoError(t, err)
	return employee
}

func utilsPage(page, limit int) utils.PaginationParams {
	return utils.PaginationParams{Page: page, Limit: limit, Order: "desc"}
}

// failInserts makes every insert into table fail with a driver-style error
// for the rest of the test.
func (e *testEngine) failInserts(t testing.TB, table string) {
	t.Helper()

	err := e.db.Callback().Create().Before("gorm:create").Register("test:fail_"+table+"_insert", func(tx *gorm.DB) {
		if tx.Statement.Table == table {
			tx.AddError(errors.New("disk I/O error"))
		}
	})
	require.NoError(t, err)
}

// interleaveUpdate runs sql inside the caller's transaction right before the
// next conditional update of table, as if another writer had committed
// between the locked read and the write. It fires once.
func (e *testEngine) interleaveUpdate(t testing.TB, table, sql string, args ...interface{}) {
	t.Helper()

	fired := false
	err := e.db.Callback().Update().Before("gorm:update").Register("test:interleave_"+table, func(tx *gorm.DB) {
		if fired || tx.Error != nil || tx.Statement.Table != table {
			return
		}
		fired = true
		if err := tx.Session(&gorm.Session{NewDB: true}).Exec(sql, args...).Error; err != nil {
			tx.AddError(err)
		}
	})
	require.NoError(t, err)
}
