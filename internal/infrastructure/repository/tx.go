package repository

import (
	"context"

	domainRepo "github.com/mesaposte/mesa-api/internal/domain/repository"
	"gorm.io/gorm"
)

type txCtxKey struct{}

// txManager implements repository.TxManager on gorm transactions. The
// transaction handle travels in the context so that repositories invoked
// inside the callback write through the same transaction.
type txManager struct {
	db *gorm.DB
}

// NewTxManager creates a transaction manager backed by the given database
func NewTxManager(db *gorm.DB) domainRepo.TxManager {
	return &txManager{db: db}
}

func (m *txManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	// Nested Do calls join the outer transaction
	if _, ok := ctx.Value(txCtxKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txCtxKey{}, tx))
	})
}

// dbFor returns the transaction bound to the context when one is active,
// falling back to the repository's own handle.
func dbFor(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txCtxKey{}).(*gorm.DB); ok {
		return tx
	}
	return db
}
