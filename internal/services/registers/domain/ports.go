package domain

import (
	"context"

	"oarr/internal/core/register"
)

// StorePort is the storage boundary for registers
type StorePort interface {
	// Get returns nil, nil when no register has that id
	Get(ctx context.Context, id string) (*register.Register, error)
	Query(ctx context.Context, q Query) (Result, error)
	// Save assigns an id when the register has none, stamps created_date on first save
	// and last_updated on every save
	Save(ctx context.Context, r *register.Register) (string, error)
	Delete(ctx context.Context, id string) (bool, error)
}
