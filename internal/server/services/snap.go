package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/snapshare/backend/internal/common"
	"github.com/snapshare/backend/internal/dbx"
	"github.com/snapshare/backend/internal/geocode"
	"github.com/snapshare/backend/internal/logging"
	"github.com/snapshare/backend/internal/server/filestore"
	"github.com/snapshare/backend/internal/server/models"
	"github.com/snapshare/backend/internal/server/repositories/repomanager"
)

// CreateSnapInput carries the validated fields of a snap creation request.
// The acting user comes from the verified token, never from the input.
type CreateSnapInput struct {
	Title       string
	Description string
	Address     string
	ImagePath   string
}

// SnapService orchestrates multi-entity snap writes. Create and Delete touch
// both the snap row and the owner's denormalized snaps list; the pair of
// writes always runs inside one transaction, so no caller can observe a snap
// without its back-reference or vice versa.
type SnapService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	geocoder    geocode.Geocoder
	files       filestore.Store
	logger      logging.Logger
}

// NewSnapService constructs a SnapService.
func NewSnapService(db *sql.DB, m repomanager.RepositoryManager, g geocode.Geocoder,
	files filestore.Store, logger logging.Logger) *SnapService {
	return &SnapService{
		db:          db,
		repomanager: m,
		geocoder:    g,
		files:       files,
		logger:      logger,
	}
}

// Create resolves the address, checks the creator still exists, and commits
// the snap row together with the owner's back-reference. Geocoding failures
// abort before anything is written. On any in-transaction failure the whole
// scope rolls back and the caller observes no partial state.
func (s *SnapService) Create(ctx context.Context, userID string, in CreateSnapInput) (*models.Snap, error) {
	coords, err := s.geocoder.Resolve(ctx, in.Address)
	if err != nil {
		return nil, err
	}

	// A valid token can still reference a deleted account.
	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}

	snap := &models.Snap{
		Title:       in.Title,
		Description: in.Description,
		ImagePath:   in.ImagePath,
		Address:     in.Address,
		Location:    coords,
		Creator:     user.ID,
	}

	// Snap first, back-reference second; the order is invisible once the
	// scope commits.
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := s.repomanager.Snaps(tx).Create(ctx, snap); err != nil {
			return err
		}
		return s.repomanager.Users(tx).AppendSnap(ctx, user.ID, snap.ID)
	})
	if err != nil {
		s.logger.Error(ctx, "snap create transaction failed", "creator", user.ID, "error", err)
		return nil, common.ErrorInternal
	}

	return snap, nil
}

// Update changes a snap's title and description. Only the owner may update;
// the relationship invariant is untouched, so no multi-entity scope is
// needed.
func (s *SnapService) Update(ctx context.Context, userID, snapID, title, description string) (*models.Snap, error) {
	repo := s.repomanager.Snaps(s.db)

	snap, err := repo.GetByID(ctx, snapID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}

	if snap.Creator != userID {
		return nil, common.ErrorNotOwner
	}

	snap.Title = title
	snap.Description = description

	if err := repo.Update(ctx, snap); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}

	return snap, nil
}

// Delete removes a snap and its back-reference in one transaction, then
// deletes the stored image. The ownership check runs before any destructive
// action. File deletion is best-effort: the database is the canonical
// record, so a cleanup failure is logged and swallowed.
func (s *SnapService) Delete(ctx context.Context, userID, snapID string) error {
	snap, err := s.repomanager.Snaps(s.db).GetByID(ctx, snapID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return common.ErrorInternal
	}

	if snap.Creator != userID {
		return common.ErrorNotOwner
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Snaps(tx).Delete(ctx, snap.ID); err != nil {
			return err
		}
		return s.repomanager.Users(tx).RemoveSnap(ctx, snap.Creator, snap.ID)
	})
	if err != nil {
		s.logger.Error(ctx, "snap delete transaction failed", "snap", snap.ID, "error", err)
		return common.ErrorInternal
	}

	// Only after commit; a rolled-back delete must keep its image.
	if err := s.files.Remove(ctx, snap.ImagePath); err != nil {
		s.logger.Warn(ctx, "orphaned image not removed", "path", snap.ImagePath, "error", err)
	}

	return nil
}

// GetByID returns a single snap.
func (s *SnapService) GetByID(ctx context.Context, snapID string) (*models.Snap, error) {
	snap, err := s.repomanager.Snaps(s.db).GetByID(ctx, snapID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}
	return snap, nil
}

// ListByCreator returns every snap owned by the given user.
func (s *SnapService) ListByCreator(ctx context.Context, creatorID string) ([]*models.Snap, error) {
	result, err := s.repomanager.Snaps(s.db).ListByCreator(ctx, creatorID)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return result, nil
}

// Random returns one randomly chosen snap.
func (s *SnapService) Random(ctx context.Context) (*models.Snap, error) {
	snap, err := s.repomanager.Snaps(s.db).Random(ctx)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}
	return snap, nil
}
