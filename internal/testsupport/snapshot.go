// internal/testsupport/snapshot.go
package testsupport

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// Tables lists every table owned by the engine with the column its rows are
// ordered by in a snapshot.
var Tables = map[string]string{
	"asset_packets":     "asset_id",
	"asset_sequences":   "division_id",
	"shareholders":      "id",
	"cap_table_pools":   "id",
	"employees":         "id",
	"contract_records":  "id",
	"receipts":          "id",
	"audit_log_entries": "id",
}

// Snapshot reads every row of every table so a test can assert that a
// rejected call wrote nothing.
func Snapshot(t testing.TB, db *gorm.DB) map[string][]map[string]interface{} {
	t.Helper()

	snapshot := make(map[string][]map[string]interface{}, len(Tables))
	for table, order := range Tables {
		var rows []map[string]interface{}
		require.NoError(t, db.Table(table).Order(order).Find(&rows).Error)
		snapshot[table] = rows
	}
	return snapshot
}

// Count returns the number of rows in a table.
func Count(t testing.TB, db *gorm.DB, table string) int64 {
	t.Helper()

	var n int64
	require.NoError(t, db.Table(table).Count(&n).Error)
	return n
}
