package snaps

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/snapshare/backend/internal/common"
	"github.com/snapshare/backend/internal/dbx"
	"github.com/snapshare/backend/internal/server/models"
)

// PostgresRepository implements snap storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, snap *models.Snap) (*models.Snap, error) {
	query :=
		`INSERT INTO snaps (title, description, image, address, lat, lng, creator)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		snap.Title, snap.Description, snap.ImagePath, snap.Address,
		snap.Location.Lat, snap.Location.Lng, snap.Creator).
		Scan(&snap.ID, &snap.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return snap, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Snap, error) {
	query :=
		`SELECT id, title, description, image, address, lat, lng, creator, created_at FROM snaps
		 WHERE id = $1
		 `

	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) ListByCreator(ctx context.Context, creatorID string) ([]*models.Snap, error) {
	query :=
		`SELECT id, title, description, image, address, lat, lng, creator, created_at FROM snaps
		 WHERE creator = $1
		 ORDER BY created_at
		 `

	rows, err := r.db.QueryContext(ctx, query, creatorID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Snap
	for rows.Next() {
		var s models.Snap
		if err := rows.Scan(&s.ID, &s.Title, &s.Description, &s.ImagePath, &s.Address,
			&s.Location.Lat, &s.Location.Lng, &s.Creator, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) Random(ctx context.Context) (*models.Snap, error) {
	query :=
		`SELECT id, title, description, image, address, lat, lng, creator, created_at FROM snaps
		 ORDER BY random()
		 LIMIT 1
		 `

	return r.scanOne(r.db.QueryRowContext(ctx, query))
}

func (r *PostgresRepository) Update(ctx context.Context, snap *models.Snap) error {
	query :=
		`UPDATE snaps SET title = $2, description = $3
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, snap.ID, snap.Title, snap.Description)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return r.wantOneRow(res)
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query :=
		`DELETE FROM snaps
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return r.wantOneRow(res)
}

func (r *PostgresRepository) wantOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) scanOne(row *sql.Row) (*models.Snap, error) {
	var s models.Snap

	err := row.Scan(&s.ID, &s.Title, &s.Description, &s.ImagePath, &s.Address,
		&s.Location.Lat, &s.Location.Lng, &s.Creator, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return &s, nil
}
