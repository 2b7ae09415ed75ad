package database

import (
	"context"

	"gorm.io/gorm"
)

// Transactor hands out storage handles. Usecases never hold a global
// connection; every repository call receives the handle explicitly.
type Transactor interface {
	// Conn returns a non-transactional handle bound to ctx.
	Conn(ctx context.Context) *gorm.DB
	// WithinTransaction runs fn in one transaction. It commits when fn
	// returns nil and rolls back otherwise.
	WithinTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type gormTransactor struct {
	db *gorm.DB
}

func NewTransactor(db *gorm.DB) Transactor {
	return &gormTransactor{db: db}
}

func (t *gormTransactor) Conn(ctx context.Context) *gorm.DB {
	return t.db.WithContext(ctx)
}

func (t *gormTransactor) WithinTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	tx := t.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	return tx.Commit().Error
}
