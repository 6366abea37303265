// Package users provides persistence for user accounts, including the
// denormalized snaps back-reference.
package users

import (
	"context"

	"github.com/snapshare/backend/internal/server/models"
)

// Repository is the storage contract for user accounts. Implementations are
// bound to a dbx.DBTX, so the same repository code runs inside and outside a
// transaction.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)

	// AppendSnap and RemoveSnap mutate the snaps back-reference in place.
	// They must only be called from inside the snap create/delete
	// transaction.
	AppendSnap(ctx context.Context, userID, snapID string) error
	RemoveSnap(ctx context.Context, userID, snapID string) error
}
