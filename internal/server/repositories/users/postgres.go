package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/snapshare/backend/internal/common"
	"github.com/snapshare/backend/internal/dbx"
	"github.com/snapshare/backend/internal/server/models"
)

// PostgresRepository implements user storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query :=
		`INSERT INTO users (name, motto, email, password_hash, image)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		user.Name, user.Motto, user.Email, user.PasswordHash, user.ImagePath).
		Scan(&user.ID, &user.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	user.Snaps = []string{}
	return user, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query :=
		`SELECT id, name, motto, email, password_hash, image, snaps, created_at FROM users
		 WHERE id = $1
		 `

	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query :=
		`SELECT id, name, motto, email, password_hash, image, snaps, created_at FROM users
		 WHERE email = $1
		 `

	return r.scanOne(r.db.QueryRowContext(ctx, query, email))
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.User, error) {
	query :=
		`SELECT id, name, motto, email, password_hash, image, snaps, created_at FROM users
		 ORDER BY created_at
		 `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.User
	for rows.Next() {
		var u models.User
		var snaps pq.StringArray
		if err := rows.Scan(&u.ID, &u.Name, &u.Motto, &u.Email, &u.PasswordHash,
			&u.ImagePath, &snaps, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		u.Snaps = snaps
		result = append(result, &u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

// AppendSnap adds snapID to the user's snaps array in place. The append
// happens inside the UPDATE itself, so concurrent appends accumulate instead
// of overwriting a stale snapshot.
func (r *PostgresRepository) AppendSnap(ctx context.Context, userID, snapID string) error {
	query :=
		`UPDATE users SET snaps = array_append(snaps, $2)
		 WHERE id = $1
		 `

	return r.execOnUser(ctx, query, userID, snapID)
}

func (r *PostgresRepository) RemoveSnap(ctx context.Context, userID, snapID string) error {
	query :=
		`UPDATE users SET snaps = array_remove(snaps, $2)
		 WHERE id = $1
		 `

	return r.execOnUser(ctx, query, userID, snapID)
}

func (r *PostgresRepository) execOnUser(ctx context.Context, query, userID, snapID string) error {
	res, err := r.db.ExecContext(ctx, query, userID, snapID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) scanOne(row *sql.Row) (*models.User, error) {
	var u models.User
	var snaps pq.StringArray

	err := row.Scan(&u.ID, &u.Name, &u.Motto, &u.Email, &u.PasswordHash,
		&u.ImagePath, &snaps, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	u.Snaps = snaps
	if u.Snaps == nil {
		u.Snaps = []string{}
	}
	return &u, nil
}
