package repository

import (
	"context"
	"errors"

	"vpnaas/controlplane/internal/model"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate key")
)

// Repository persists identifier mappings. It is the only owner of the
// mapping table.
type Repository interface {
	WithTx(ctx context.Context, fn func(repo Repository) error) error

	// UsedIDs returns the ids taken in space, ascending.
	UsedIDs(ctx context.Context, space model.IDSpace) ([]int, error)
	CreateMapping(ctx context.Context, m *model.IdentifierMapping) error
	GetMapping(ctx context.Context, connectionID string) (model.IdentifierMapping, error)
	ListMappings(ctx context.Context) ([]model.IdentifierMapping, error)
	CountMappings(ctx context.Context) (int64, error)
	DeleteMapping(ctx context.Context, connectionID string) (bool, error)
}
