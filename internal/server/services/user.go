// Package services contains server-side business logic. This file implements
// UserService, which handles signup, login, and token verification.
package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/snapshare/backend/internal/common"
	"github.com/snapshare/backend/internal/server/auth"
	"github.com/snapshare/backend/internal/server/config"
	"github.com/snapshare/backend/internal/server/models"
	"github.com/snapshare/backend/internal/server/repositories/repomanager"
)

// RegisterInput carries the validated signup fields.
type RegisterInput struct {
	Name      string
	Motto     string
	Email     string
	Password  string
	ImagePath string
}

// UserService provides account and credential operations:
//   - Register: create an account, never storing the raw password
//   - Login: verify credentials and mint a session token
//   - VerifyToken: re-check a token on each authenticated request
type UserService struct {
	db                    *sql.DB
	repomanager           repomanager.RepositoryManager
	jwtSecret             []byte
	tokenValidityDuration time.Duration
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:                    db,
		repomanager:           m,
		jwtSecret:             []byte(cfg.SecretKey),
		tokenValidityDuration: cfg.TokenValidityDuration,
	}
}

// Register creates a new account and logs it in, returning the stored user
// and a fresh token. A taken email yields common.ErrorEmailTaken.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, string, error) {
	repo := s.repomanager.Users(s.db)

	if _, err := repo.GetByEmail(ctx, in.Email); err == nil {
		return nil, "", common.ErrorEmailTaken
	} else if !errors.Is(err, common.ErrorNotFound) {
		return nil, "", common.ErrorInternal
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, "", common.ErrorInternal
	}

	user := &models.User{
		Name:         in.Name,
		Motto:        in.Motto,
		Email:        in.Email,
		PasswordHash: hash,
		ImagePath:    in.ImagePath,
	}
	user, err = repo.Create(ctx, user)
	if err != nil {
		return nil, "", common.ErrorInternal
	}

	token, err := auth.GenerateToken(user.ID, user.Email, s.jwtSecret, s.tokenValidityDuration)
	if err != nil {
		return nil, "", common.ErrorInternal
	}

	return user, token, nil
}

// Login verifies the credentials and, on success, returns the user and a new
// token. An unknown email and a wrong password are indistinguishable to the
// caller: both return common.ErrorUnauthorized.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, "", common.ErrorUnauthorized
		}
		return nil, "", common.ErrorInternal
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, "", common.ErrorUnauthorized
	}

	token, err := auth.GenerateToken(user.ID, user.Email, s.jwtSecret, s.tokenValidityDuration)
	if err != nil {
		return nil, "", common.ErrorInternal
	}

	return user, token, nil
}

// VerifyToken validates a bearer token and returns the identity it asserts.
func (s *UserService) VerifyToken(token string) (userID, email string, err error) {
	return auth.ParseToken(token, s.jwtSecret)
}

// List returns all registered users.
func (s *UserService) List(ctx context.Context) ([]*models.User, error) {
	users, err := s.repomanager.Users(s.db).List(ctx)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return users, nil
}
