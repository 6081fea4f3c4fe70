package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/rmaksimov/videotube/internal/common"
	"github.com/rmaksimov/videotube/internal/server/models"
	"github.com/rmaksimov/videotube/internal/server/repositories/repomanager"
)

// UserService handles registration and account/profile maintenance. All
// users it returns are sanitized.
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager) *UserService {
	return &UserService{db: db, repomanager: m}
}

// RegisterParams carries the required registration fields.
type RegisterParams struct {
	FullName string
	Email    string
	Username string
	Password string
}

// Register creates a new account. Username and email are lowercased before
// the insert; a collision on either surfaces as common.ErrorAlreadyExists
// straight from the unique constraint, so concurrent registrations cannot
// race past an existence check.
func (s *UserService) Register(ctx context.Context, p RegisterParams) (*models.User, error) {
	fullName := strings.TrimSpace(p.FullName)
	email := strings.ToLower(strings.TrimSpace(p.Email))
	username := strings.ToLower(strings.TrimSpace(p.Username))

	if fullName == "" || email == "" || username == "" || p.Password == "" {
		return nil, common.ErrorValidation
	}

	hash, err := hashPassword(p.Password)
	if err != nil {
		return nil, common.ErrorInternal
	}

	user := &models.User{
		ID:           uuid.New().String(),
		Username:     username,
		Email:        email,
		FullName:     fullName,
		PasswordHash: hash,
	}

	repo := s.repomanager.Users(s.db)
	created, err := repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, common.ErrorInternal
	}

	return created.Sanitized(), nil
}

// GetByID returns the sanitized user record.
func (s *UserService) GetByID(ctx context.Context, id string) (*models.User, error) {
	repo := s.repomanager.Users(s.db)
	user, err := repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}
	return user.Sanitized(), nil
}

// UpdateProfile sets the account's full name and email.
func (s *UserService) UpdateProfile(ctx context.Context, id, fullName, email string) (*models.User, error) {
	fullName = strings.TrimSpace(fullName)
	email = strings.ToLower(strings.TrimSpace(email))
	if fullName == "" || email == "" {
		return nil, common.ErrorValidation
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.UpdateProfile(ctx, id, fullName, email)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorNotFound):
			return nil, common.ErrorNotFound
		case errors.Is(err, common.ErrorAlreadyExists):
			return nil, common.ErrorAlreadyExists
		default:
			return nil, common.ErrorInternal
		}
	}
	return user.Sanitized(), nil
}

// SetAvatar stores the object-storage key of the user's avatar image.
func (s *UserService) SetAvatar(ctx context.Context, id, key string) error {
	return s.setImage(ctx, id, key, s.repomanager.Users(s.db).UpdateAvatar)
}

// SetCoverImage stores the object-storage key of the user's cover image.
func (s *UserService) SetCoverImage(ctx context.Context, id, key string) error {
	return s.setImage(ctx, id, key, s.repomanager.Users(s.db).UpdateCoverImage)
}

func (s *UserService) setImage(ctx context.Context, id, key string, update func(context.Context, string, string) error) error {
	if strings.TrimSpace(key) == "" {
		return common.ErrorValidation
	}
	if err := update(ctx, id, key); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return common.ErrorInternal
	}
	return nil
}
