package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"vpnaas/controlplane/internal/model"
)

// Tables owned by the repository, in migration order.
var tables = []any{
	&model.IdentifierMapping{},
}

// Migrate creates or updates the mapping schema, including the unique
// indexes on the device id columns.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(tables...); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

type GormRepository struct {
	db *gorm.DB
}

func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

// WithTx runs fn against a repository bound to one transaction. fn's error
// rolls the transaction back.
func (r *GormRepository) WithTx(ctx context.Context, fn func(repo Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormRepository{db: tx})
	})
}

func mapErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	}
	return err
}
