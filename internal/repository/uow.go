package repository

import (
	"context"

	"gorm.io/gorm"
)

// UnitOfWork runs fn inside one database transaction. Returning an error (or
// panicking) from fn rolls back every write made through tx.
//
// Repository methods ending in Tx must receive the tx handed to fn.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type gormUnitOfWork struct{ db *gorm.DB }

func NewUnitOfWork(db *gorm.DB) UnitOfWork { return &gormUnitOfWork{db: db} }

func (u *gormUnitOfWork) Do(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return u.db.WithContext(ctx).Transaction(fn)
}
