// Package snaps provides persistence for snap records. Snap.Creator is the
// authoritative ownership reference; the users package keeps the reverse
// index.
package snaps

import (
	"context"

	"github.com/snapshare/backend/internal/server/models"
)

// Repository is the storage contract for snaps.
type Repository interface {
	Create(ctx context.Context, snap *models.Snap) (*models.Snap, error)
	GetByID(ctx context.Context, id string) (*models.Snap, error)
	ListByCreator(ctx context.Context, creatorID string) ([]*models.Snap, error)
	Random(ctx context.Context) (*models.Snap, error)

	// Update persists title and description only; every other field is
	// immutable after creation.
	Update(ctx context.Context, snap *models.Snap) error
	Delete(ctx context.Context, id string) error
}
