// Package services contains server-side business logic. This file implements
// UserService: signup with profile image, login, and account listing.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/avoronin/placekeeper/internal/common"
	"github.com/avoronin/placekeeper/internal/logging"
	"github.com/avoronin/placekeeper/internal/server/assets"
	"github.com/avoronin/placekeeper/internal/server/auth"
	"github.com/avoronin/placekeeper/internal/server/config"
	"github.com/avoronin/placekeeper/internal/server/models"
	"github.com/avoronin/placekeeper/internal/server/repositories/repomanager"
)

// AuthResult is what a successful signup or login hands to the transport.
type AuthResult struct {
	UserID string
	Email  string
	Token  string
}

// UserService provides account operations:
//   - Signup: create an account with its profile image and mint a token
//   - Login: verify credentials and mint a token
//   - Users: list accounts (credential hashes withheld)
type UserService struct {
	db            *sql.DB
	repomanager   repomanager.RepositoryManager
	assets        assets.Store
	logger        logging.Logger
	jwtSecret     []byte
	tokenValidity time.Duration
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, store assets.Store, logger logging.Logger, cfg *config.Config) *UserService {
	return &UserService{
		db:            db,
		repomanager:   m,
		assets:        store,
		logger:        logger.With("module", "user_service"),
		jwtSecret:     []byte(cfg.SecretKey),
		tokenValidity: cfg.TokenValidityDuration,
	}
}

// Signup creates an account. The email must be unused: a duplicate surfaces
// as common.ErrorAlreadyExists from the insert itself, so two concurrent
// signups with the same email cannot both win. If the insert fails after the
// profile image was already stored, the image is removed again.
func (s *UserService) Signup(ctx context.Context, name, email, password string, image []byte, imageMime string) (*AuthResult, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, common.ErrorInternal
	}

	imagePath, err := s.assets.Store(ctx, image, imageMime)
	if err != nil {
		return nil, err
	}

	user := &models.User{Name: name, Email: email, PasswordHash: hash, ImagePath: imagePath}
	repo := s.repomanager.Users(s.db)

	created, err := repo.Create(ctx, user)
	if err != nil {
		s.removeAsset(ctx, imagePath)
		if errors.Is(err, common.ErrorAlreadyExists) || errors.Is(err, common.ErrorUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	token, err := auth.GenerateToken(created.ID, created.Email, s.jwtSecret, s.tokenValidity)
	if err != nil {
		return nil, common.ErrorInternal
	}

	return &AuthResult{UserID: created.ID, Email: created.Email, Token: token}, nil
}

// Login verifies the password for the given email. Unknown email and wrong
// password both return common.ErrorUnauthorized, never revealing which one
// it was.
func (s *UserService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		if errors.Is(err, common.ErrorUnavailable) {
			return nil, err
		}
		return nil, common.ErrorInternal
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		return nil, common.ErrorUnauthorized
	}

	token, err := auth.GenerateToken(user.ID, user.Email, s.jwtSecret, s.tokenValidity)
	if err != nil {
		return nil, common.ErrorInternal
	}

	return &AuthResult{UserID: user.ID, Email: user.Email, Token: token}, nil
}

// Users lists all accounts. An empty deployment yields an empty slice, not an
// error.
func (s *UserService) Users(ctx context.Context) ([]*models.User, error) {
	repo := s.repomanager.Users(s.db)

	list, err := repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing users: %w", err)
	}

	return list, nil
}

// removeAsset is the compensating cleanup after a failed insert. Its own
// failure is logged and never masks the original outcome.
func (s *UserService) removeAsset(ctx context.Context, ref string) {
	if err := s.assets.Remove(ctx, ref); err != nil {
		s.logger.Error(ctx, "failed to remove asset after aborted signup", "ref", ref, "error", err)
	}
}
