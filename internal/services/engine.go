// internal/services/engine.go
package services

import "gorm.io/gorm"

// Engine bundles the services that share one database handle. The HTTP router
// and the operator CLI both drive the same Engine.
type Engine struct {
	Audit     *AuditService
	Ledger    *LedgerService
	Assets    *AssetService
	Equity    *EquityService
	Employees *EmployeeService
}

func NewEngine(db *gorm.DB) *Engine {
	audit := NewAuditService(db)
	ledger := NewLedgerService(db, audit)
	return &Engine{
		Audit:     audit,
		Ledger:    ledger,
		Assets:    NewAssetService(db, ledger, audit),
		Equity:    NewEquityService(db, audit),
		Employees: NewEmployeeService(db, audit),
	}
}
