package services

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/snapshare/backend/internal/common"
	"github.com/snapshare/backend/internal/dbx"
	"github.com/snapshare/backend/internal/logging"
	"github.com/snapshare/backend/internal/server/models"
	"github.com/snapshare/backend/internal/server/repositories/snaps"
	"github.com/snapshare/backend/internal/server/repositories/users"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noopLogger struct{}

func (noopLogger) Debug(ctx context.Context, msg string, args ...any) {}
func (noopLogger) Info(ctx context.Context, msg string, args ...any)  {}
func (noopLogger) Warn(ctx context.Context, msg string, args ...any)  {}
func (noopLogger) Error(ctx context.Context, msg string, args ...any) {}
func (l noopLogger) With(args ...any) logging.Logger                  { return l }

type fakeGeocoder struct {
	coords models.Coordinates
	err    error
}

func (g *fakeGeocoder) Resolve(ctx context.Context, address string) (models.Coordinates, error) {
	return g.coords, g.err
}

// fakeFileStore records removals so tests can assert when image cleanup ran.
type fakeFileStore struct {
	removed   []string
	removeErr error
}

func (s *fakeFileStore) Save(ctx context.Context, ext string, r io.Reader) (string, error) {
	return "uploads/images/fake." + ext, nil
}

func (s *fakeFileStore) Remove(ctx context.Context, path string) error {
	s.removed = append(s.removed, path)
	return s.removeErr
}

type fakeUserRepo struct {
	user     *models.User
	getErr   error
	appended []string
	removed  []string
	writeErr error
}

func (r *fakeUserRepo) Create(ctx context.Context, user *models.User) (*models.User, error) {
	return user, nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	return r.user, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	return r.user, nil
}

func (r *fakeUserRepo) List(ctx context.Context) ([]*models.User, error) {
	return []*models.User{r.user}, nil
}

func (r *fakeUserRepo) AppendSnap(ctx context.Context, userID, snapID string) error {
	if r.writeErr != nil {
		return r.writeErr
	}
	r.appended = append(r.appended, snapID)
	return nil
}

func (r *fakeUserRepo) RemoveSnap(ctx context.Context, userID, snapID string) error {
	if r.writeErr != nil {
		return r.writeErr
	}
	r.removed = append(r.removed, snapID)
	return nil
}

type fakeSnapRepo struct {
	snap      *models.Snap
	getErr    error
	createErr error
	updated   *models.Snap
	updateErr error
	deleted   []string
	deleteErr error
}

func (r *fakeSnapRepo) Create(ctx context.Context, snap *models.Snap) (*models.Snap, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	snap.ID = "snap-1"
	return snap, nil
}

func (r *fakeSnapRepo) GetByID(ctx context.Context, id string) (*models.Snap, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	return r.snap, nil
}

func (r *fakeSnapRepo) ListByCreator(ctx context.Context, creatorID string) ([]*models.Snap, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	return []*models.Snap{r.snap}, nil
}

func (r *fakeSnapRepo) Random(ctx context.Context) (*models.Snap, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	return r.snap, nil
}

func (r *fakeSnapRepo) Update(ctx context.Context, snap *models.Snap) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	r.updated = snap
	return nil
}

func (r *fakeSnapRepo) Delete(ctx context.Context, id string) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	r.deleted = append(r.deleted, id)
	return nil
}

// fakeRepoManager records which DBTX each vend call received, so tests can
// assert that paired writes ran on the transaction rather than the pool.
type fakeRepoManager struct {
	userRepo *fakeUserRepo
	snapRepo *fakeSnapRepo

	userDBTXs []dbx.DBTX
	snapDBTXs []dbx.DBTX
}

func (m *fakeRepoManager) RunMigrations(ctx context.Context, db *sql.DB) error { return nil }

func (m *fakeRepoManager) Users(db dbx.DBTX) users.Repository {
	m.userDBTXs = append(m.userDBTXs, db)
	return m.userRepo
}

func (m *fakeRepoManager) Snaps(db dbx.DBTX) snaps.Repository {
	m.snapDBTXs = append(m.snapDBTXs, db)
	return m.snapRepo
}

func newSnapServiceForTest(t *testing.T, m *fakeRepoManager, g *fakeGeocoder,
	files *fakeFileStore) (*SnapService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewSnapService(db, m, g, files, noopLogger{}), mock
}

func TestSnapServiceCreate(t *testing.T) {
	owner := &models.User{ID: "user-1", Email: "a@b.c"}

	t.Run("commits snap and back-reference together", func(t *testing.T) {
		m := &fakeRepoManager{
			userRepo: &fakeUserRepo{user: owner},
			snapRepo: &fakeSnapRepo{},
		}
		g := &fakeGeocoder{coords: models.Coordinates{Lat: 52.52, Lng: 13.405}}
		svc, mock := newSnapServiceForTest(t, m, g, &fakeFileStore{})

		mock.ExpectBegin()
		mock.ExpectCommit()

		snap, err := svc.Create(context.Background(), owner.ID, CreateSnapInput{
			Title:       "Fernsehturm",
			Description: "tv tower",
			Address:     "Panoramastr. 1A, Berlin",
			ImagePath:   "uploads/images/x.png",
		})
		require.NoError(t, err)

		assert.Equal(t, "snap-1", snap.ID)
		assert.Equal(t, owner.ID, snap.Creator)
		assert.Equal(t, g.coords, snap.Location)
		assert.Equal(t, []string{"snap-1"}, m.userRepo.appended)
		assert.NoError(t, mock.ExpectationsWereMet())

		// Both writes must have run on the transaction, not the pool.
		require.Len(t, m.snapDBTXs, 1)
		require.Len(t, m.userDBTXs, 2)
		assert.Same(t, m.snapDBTXs[0], m.userDBTXs[1])
	})

	t.Run("geocode failure aborts before any write", func(t *testing.T) {
		m := &fakeRepoManager{
			userRepo: &fakeUserRepo{user: owner},
			snapRepo: &fakeSnapRepo{},
		}
		g := &fakeGeocoder{err: errors.New("boom")}
		svc, mock := newSnapServiceForTest(t, m, g, &fakeFileStore{})

		_, err := svc.Create(context.Background(), owner.ID, CreateSnapInput{Address: "nowhere"})
		require.Error(t, err)

		assert.Empty(t, m.userRepo.appended)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("deleted creator is reported as not found", func(t *testing.T) {
		m := &fakeRepoManager{
			userRepo: &fakeUserRepo{getErr: common.ErrorNotFound},
			snapRepo: &fakeSnapRepo{},
		}
		svc, mock := newSnapServiceForTest(t, m, &fakeGeocoder{}, &fakeFileStore{})

		_, err := svc.Create(context.Background(), "gone", CreateSnapInput{Address: "x"})
		assert.ErrorIs(t, err, common.ErrorNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("back-reference failure rolls the snap back", func(t *testing.T) {
		m := &fakeRepoManager{
			userRepo: &fakeUserRepo{user: owner, writeErr: errors.New("array update failed")},
			snapRepo: &fakeSnapRepo{},
		}
		svc, mock := newSnapServiceForTest(t, m, &fakeGeocoder{}, &fakeFileStore{})

		mock.ExpectBegin()
		mock.ExpectRollback()

		_, err := svc.Create(context.Background(), owner.ID, CreateSnapInput{Address: "x"})
		assert.ErrorIs(t, err, common.ErrorInternal)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSnapServiceUpdate(t *testing.T) {
	stored := func() *models.Snap {
		return &models.Snap{ID: "snap-1", Title: "old", Description: "old", Creator: "user-1"}
	}

	t.Run("owner updates title and description", func(t *testing.T) {
		m := &fakeRepoManager{snapRepo: &fakeSnapRepo{snap: stored()}, userRepo: &fakeUserRepo{}}
		svc, _ := newSnapServiceForTest(t, m, &fakeGeocoder{}, &fakeFileStore{})

		snap, err := svc.Update(context.Background(), "user-1", "snap-1", "new title", "new description")
		require.NoError(t, err)

		assert.Equal(t, "new title", snap.Title)
		assert.Equal(t, "new description", snap.Description)
		require.NotNil(t, m.snapRepo.updated)
	})

	t.Run("non-owner is rejected before any write", func(t *testing.T) {
		m := &fakeRepoManager{snapRepo: &fakeSnapRepo{snap: stored()}, userRepo: &fakeUserRepo{}}
		svc, _ := newSnapServiceForTest(t, m, &fakeGeocoder{}, &fakeFileStore{})

		_, err := svc.Update(context.Background(), "someone-else", "snap-1", "t", "d")
		assert.ErrorIs(t, err, common.ErrorNotOwner)
		assert.Nil(t, m.snapRepo.updated)
	})

	t.Run("missing snap", func(t *testing.T) {
		m := &fakeRepoManager{snapRepo: &fakeSnapRepo{getErr: common.ErrorNotFound}, userRepo: &fakeUserRepo{}}
		svc, _ := newSnapServiceForTest(t, m, &fakeGeocoder{}, &fakeFileStore{})

		_, err := svc.Update(context.Background(), "user-1", "nope", "t", "d")
		assert.ErrorIs(t, err, common.ErrorNotFound)
	})
}

func TestSnapServiceDelete(t *testing.T) {
	stored := func() *models.Snap {
		return &models.Snap{ID: "snap-1", Creator: "user-1", ImagePath: "uploads/images/a.png"}
	}

	t.Run("commits both removals then deletes the image", func(t *testing.T) {
		m := &fakeRepoManager{snapRepo: &fakeSnapRepo{snap: stored()}, userRepo: &fakeUserRepo{}}
		files := &fakeFileStore{}
		svc, mock := newSnapServiceForTest(t, m, &fakeGeocoder{}, files)

		mock.ExpectBegin()
		mock.ExpectCommit()

		require.NoError(t, svc.Delete(context.Background(), "user-1", "snap-1"))

		assert.Equal(t, []string{"snap-1"}, m.snapRepo.deleted)
		assert.Equal(t, []string{"snap-1"}, m.userRepo.removed)
		assert.Equal(t, []string{"uploads/images/a.png"}, files.removed)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("non-owner is rejected before any write", func(t *testing.T) {
		m := &fakeRepoManager{snapRepo: &fakeSnapRepo{snap: stored()}, userRepo: &fakeUserRepo{}}
		files := &fakeFileStore{}
		svc, mock := newSnapServiceForTest(t, m, &fakeGeocoder{}, files)

		err := svc.Delete(context.Background(), "someone-else", "snap-1")
		assert.ErrorIs(t, err, common.ErrorNotOwner)

		assert.Empty(t, m.snapRepo.deleted)
		assert.Empty(t, files.removed)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolled back delete keeps the image", func(t *testing.T) {
		m := &fakeRepoManager{
			snapRepo: &fakeSnapRepo{snap: stored()},
			userRepo: &fakeUserRepo{writeErr: errors.New("array update failed")},
		}
		files := &fakeFileStore{}
		svc, mock := newSnapServiceForTest(t, m, &fakeGeocoder{}, files)

		mock.ExpectBegin()
		mock.ExpectRollback()

		err := svc.Delete(context.Background(), "user-1", "snap-1")
		assert.ErrorIs(t, err, common.ErrorInternal)

		assert.Empty(t, files.removed)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("image cleanup failure is swallowed", func(t *testing.T) {
		m := &fakeRepoManager{snapRepo: &fakeSnapRepo{snap: stored()}, userRepo: &fakeUserRepo{}}
		files := &fakeFileStore{removeErr: errors.New("permission denied")}
		svc, mock := newSnapServiceForTest(t, m, &fakeGeocoder{}, files)

		mock.ExpectBegin()
		mock.ExpectCommit()

		assert.NoError(t, svc.Delete(context.Background(), "user-1", "snap-1"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSnapServiceReads(t *testing.T) {
	t.Run("get by id", func(t *testing.T) {
		m := &fakeRepoManager{snapRepo: &fakeSnapRepo{snap: &models.Snap{ID: "snap-1"}}, userRepo: &fakeUserRepo{}}
		svc, _ := newSnapServiceForTest(t, m, &fakeGeocoder{}, &fakeFileStore{})

		snap, err := svc.GetByID(context.Background(), "snap-1")
		require.NoError(t, err)
		assert.Equal(t, "snap-1", snap.ID)
	})

	t.Run("random with empty table", func(t *testing.T) {
		m := &fakeRepoManager{snapRepo: &fakeSnapRepo{getErr: common.ErrorNotFound}, userRepo: &fakeUserRepo{}}
		svc, _ := newSnapServiceForTest(t, m, &fakeGeocoder{}, &fakeFileStore{})

		_, err := svc.Random(context.Background())
		assert.ErrorIs(t, err, common.ErrorNotFound)
	})
}
