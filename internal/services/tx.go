// internal/services/tx.go
package services

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/omstudio/studio-ops/internal/database"
)

// runTx runs fn in one transaction. Begin and commit failures surface as
// ErrStorageFailure; errors returned by fn keep their kind.
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	return storageError("transaction", database.WithTransaction(db.WithContext(ctx), fn))
}

// forUpdate adds a row lock to the next read. SQLite has no row locks; its
// database-level write lock serializes the transaction instead.
func forUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}
