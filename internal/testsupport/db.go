// internal/testsupport/db.go
package testsupport

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/omstudio/studio-ops/internal/config"
	"github.com/omstudio/studio-ops/internal/database"
)

// CapTable is the pool layout every test database starts with.
var CapTable = config.CapTableConfig{
	TotalAuthorizedShares: config.DefaultTotalAuthorizedShares,
	FounderShares:         8_000_000,
	PoolShares:            1_000_000,
}

// NewDB opens a migrated and seeded in-memory SQLite database that lives for
// the duration of the test.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := database.Initialize(config.DatabaseConfig{
		Driver:     config.DriverSQLite,
		SQLitePath: ":memory:",
		LogLevel:   "silent",
	})
	require.NoError(t, err)
	t.Cleanup(func() { database.Close(db) })

	require.NoError(t, database.RunMigrations(db))
	require.NoError(t, database.SeedInitialData(db, CapTable))
	return db
}
