// cmd/studioctl/commands_test.go
package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/omstudio/studio-ops/internal/config"
	"github.com/omstudio/studio-ops/internal/models"
	"github.com/omstudio/studio-ops/internal/services"
	"github.com/omstudio/studio-ops/internal/testsupport"
	"github.com/omstudio/studio-ops/internal/utils"
)

type CommandsTestSuite struct {
	suite.Suite
	db     *gorm.DB
	engine *services.Engine
}

func (suite *CommandsTestSuite) SetupTest() {
	suite.db = testsupport.NewDB(suite.T())
	suite.engine = services.NewEngine(suite.db)
}

func (suite *CommandsTestSuite) run(args ...string) (string, error) {
	ctx := withDB(suite.db, &config.Config{
		JWT:      config.JWTConfig{SecretKey: "studioctl-test-secret"},
		CapTable: testsupport.CapTable,
	})
	root := buildRootCommand(ctx)

	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return buf.String(), err
}

func (suite *CommandsTestSuite) createAsset(title string, price float64) *models.AssetPacket {
	asset, err := suite.engine.Assets.CreateAsset(context.Background(),
		models.Actor{ID: "creator-1", Role: models.RoleCreator},
		&services.CreateAssetRequest{
			DivisionID:     models.DivisionComics,
			IPStatus:       models.IPStatusWorkForHire,
			Title:          title,
			Price:          price,
			EstimatedValue: price * 10,
		})
	require.NoError(suite.T(), err)
	return asset
}

func (suite *CommandsTestSuite) TestAssetLifecycle() {
	asset := suite.createAsset("Nebula Run", 9.99)

	out, err := suite.run("--as", "creator-1", "--role", "creator", "assets", "submit", asset.AssetID)
	require.NoError(suite.T(), err)
	assert.Contains(suite.T(), out, "is now in_review")

	_, err = suite.run("--as", "creator-1", "--role", "creator", "assets", "sign", asset.AssetID)
	assert.ErrorIs(suite.T(), err, services.ErrPermissionDenied)

	out, err = suite.run("--as", "ops", "assets", "sign", asset.AssetID, "--amount", "12.5")
	require.NoError(suite.T(), err)
	assert.Contains(suite.T(), out, asset.AssetID+" signed at")
	assert.Contains(suite.T(), out, "amount 12.50")

	out, err = suite.run("--as", "ops", "assets", "sign", asset.AssetID)
	require.NoError(suite.T(), err)
	assert.Contains(suite.T(), out, "already signed")

	out, err = suite.run("--as", "ops", "ledger", "receipts", "--asset", asset.AssetID)
	require.NoError(suite.T(), err)
	assert.Contains(suite.T(), out, "Nebula Run")
	assert.Contains(suite.T(), out, "12.50")
	assert.Contains(suite.T(), out, "Showing 1 of 1")

	out, err = suite.run("--as", "ops", "ledger", "contracts")
	require.NoError(suite.T(), err)
	assert.Contains(suite.T(), out, asset.AssetID)

	out, err = suite.run("--as", "ops", "assets", "list", "--status", "signed")
	require.NoError(suite.T(), err)
	assert.Contains(suite.T(), out, asset.AssetID)

	out, err = suite.run("--as", "ops", "assets", "reject", asset.AssetID, "--reason", "rights dispute")
	require.NoError(suite.T(), err)
	assert.Contains(suite.T(), out, "is now draft")

	_, err = suite.run("--as", "ops", "assets", "reject", asset.AssetID)
	assert.ErrorIs(suite.T(), err, services.ErrInvalidTransition)
}

func (suite *CommandsTestSuite) TestAssetListFilters() {
	out, err := suite.run("assets", "list")
	require.NoError(suite.T(), err)
	assert.Contains(suite.T(), out, "No assets found")

	_, err = suite.run("assets", "list", "--division", "XX")
	assert.Error(suite.T(), err)

	_, err = suite.run("assets", "list", "--status", "archived")
	assert.Error(suite.T(), err)
}

func (suite *CommandsTestSuite) TestEmployeesAndGrants() {
	out, err := suite.run("--as", "ops", "employees", "add", "Alice Chen", "Alice@Example.com", "--title", "Artist", "--hired", "2024-03-01")
	require.NoError(suite.T(), err)
	assert.Contains(suite.T(), out, "alice@example.com")

	_, err = suite.run("--as", "ops", "employees", "add", "Bob", "bob@example.com", "--hired", "March")
	assert.Error(suite.T(), err)

	employees, _, err := suite.engine.Employees.ListEmployees(context.Background(), services.EmployeeFilter{PaginationParams: utils.DefaultPaginationParams()})
	require.NoError(suite.T(), err)
	require.Len(suite.T(), employees, 1)
	employeeID := employees[0].ID.String()

	out, err = suite.run("employees", "list", "--search", "alice")
	require.NoError(suite.T(), err)
	assert.Contains(suite.T(), out, employeeID)
	assert.Contains(suite.T(), out, "2024-03-01")

	out, err = suite.run("--as", "ops", "equity", "grant", employeeID, "150_000")
	require.NoError(suite.T(), err)
	assert.Contains(suite.T(), out, "Granted 150,000 shares to Alice Chen")
	assert.Contains(suite.T(), out, "pool available 850,000")

	_, err = suite.run("--as", "ops", "equity", "grant", employeeID, "900000")
	assert.ErrorIs(suite.T(), err, services.ErrPoolExhausted)

	_, err = suite.run("--as", "ops", "equity", "grant", "not-a-uuid", "10")
	assert.Error(suite.T(), err)

	out, err = suite.run("equity", "pool")
	require.NoError(suite.T(), err)
	assert.Contains(suite.T(), out, "150,000")
	assert.Contains(suite.T(), out, "850,000")

	out, err = suite.run("equity", "shareholders", "--type", "employee")
	require.NoError(suite.T(), err)
	assert.Contains(suite.T(), out, "Alice Chen")
	assert.Contains(suite.T(), out, "1.5000%")

	_, err = suite.run("--as", "ops", "equity", "resize", "100000")
	assert.ErrorIs(suite.T(), err, services.ErrPoolExhausted)

	out, err = suite.run("--as", "ops", "equity", "resize", "1_200_000")
	require.NoError(suite.T(), err)
	assert.Contains(suite.T(), out, "1,050,000 available")
}

func (suite *CommandsTestSuite) TestAuditRequiresAdmin() {
	suite.createAsset("Quiet Harbor", 4)

	_, err := suite.run("--as", "creator-1", "--role", "creator", "audit", "list")
	assert.ErrorIs(suite.T(), err, services.ErrPermissionDenied)

	out, err := suite.run("--as", "ops", "audit", "list", "--action", "create_asset")
	require.NoError(suite.T(), err)
	assert.Contains(suite.T(), out, "CREATE_ASSET")
	assert.Contains(suite.T(), out, "creator-1")
}

func (suite *CommandsTestSuite) TestValuation() {
	suite.createAsset("Nebula Run", 10)
	suite.createAsset("Quiet Harbor", 5)

	out, err := suite.run("ledger", "valuation")
	require.NoError(suite.T(), err)
	assert.Contains(suite.T(), out, "Comics")
	assert.Contains(suite.T(), out, "150.00")
}

func (suite *CommandsTestSuite) TestSeedIsIdempotent() {
	out, err := suite.run("seed")
	require.NoError(suite.T(), err)
	assert.Contains(suite.T(), out, "Seed data present")

	out, err = suite.run("migrate")
	require.NoError(suite.T(), err)
	assert.Contains(suite.T(), out, "Schema is up to date")
}

func (suite *CommandsTestSuite) TestRejectsUnknownRole() {
	_, err := suite.run("--role", "viewer", "assets", "submit", "OM-CM-001")
	assert.ErrorContains(suite.T(), err, "unknown role")

	_, err = suite.run("--as", " ", "assets", "submit", "OM-CM-001")
	assert.ErrorContains(suite.T(), err, "--as")
}

func (suite *CommandsTestSuite) TestTokenRoundTrip() {
	out, err := suite.run("--as", "legal-2", "--role", "admin", "token", "--name", "Legal Desk", "--ttl", "1h")
	require.NoError(suite.T(), err)

	utils.SetJWTSecret("studioctl-test-secret")
	claims, err := utils.ValidateJWT(strings.TrimSpace(out))
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "legal-2", claims.UserID)
	assert.Equal(suite.T(), "Legal Desk", claims.Username)
	assert.Equal(suite.T(), "admin", claims.UserType)

	_, err = suite.run("token", "--ttl", "0s")
	assert.Error(suite.T(), err)
}

func TestCommandsTestSuite(t *testing.T) {
	suite.Run(t, new(CommandsTestSuite))
}
