package users

import (
	"context"

	"github.com/rmaksimov/videotube/internal/server/models"
)

// Repository is the persistence boundary for user accounts. The service
// layer is agnostic to the backing technology; implementations map driver
// errors to the sentinel errors in internal/common.
type Repository interface {
	// Create inserts a new user. A username or email collision returns
	// common.ErrorAlreadyExists; the unique constraints in the schema are
	// the source of truth, there is no separate existence check.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// FindByID returns the user with the given ID or common.ErrorNotFound.
	FindByID(ctx context.Context, id string) (*models.User, error)

	// FindByLogin returns the user whose username or email equals login.
	// Callers pass the identifier lowercased.
	FindByLogin(ctx context.Context, login string) (*models.User, error)

	// UpdateRefreshToken overwrites the stored refresh token. An empty
	// token clears the field (logout).
	UpdateRefreshToken(ctx context.Context, id string, token string) error

	// UpdatePasswordHash replaces the stored password hash.
	UpdatePasswordHash(ctx context.Context, id string, hash string) error

	// UpdateProfile sets the mutable account fields and returns the
	// updated record.
	UpdateProfile(ctx context.Context, id string, fullName, email string) (*models.User, error)

	// UpdateAvatar and UpdateCoverImage store media locations.
	UpdateAvatar(ctx context.Context, id string, avatar string) error
	UpdateCoverImage(ctx context.Context, id string, coverImage string) error
}
