// Package services contains server-side business logic. This file implements
// SessionService, which handles login, logout, password changes, and
// refresh-token rotation.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/rmaksimov/videotube/internal/common"
	"github.com/rmaksimov/videotube/internal/dbx"
	"github.com/rmaksimov/videotube/internal/server/auth"
	"github.com/rmaksimov/videotube/internal/server/models"
	"github.com/rmaksimov/videotube/internal/server/repositories/repomanager"
)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// SessionService drives the session lifecycle. The account model allows a
// single live session per user: the refresh token column is overwritten on
// every login and rotation, which invalidates whatever was there before.
type SessionService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	codec       *auth.Codec
}

// NewSessionService constructs a SessionService using repositories and the
// token codec.
func NewSessionService(db *sql.DB, m repomanager.RepositoryManager, codec *auth.Codec) *SessionService {
	return &SessionService{db: db, repomanager: m, codec: codec}
}

// Login verifies the identifier (username or email, case-insensitive) and
// password, then mints and persists a fresh token pair. An unknown
// identifier and a wrong password both come back as
// common.ErrorInvalidCredentials so the two cases cannot be told apart.
func (s *SessionService) Login(ctx context.Context, identifier, password string) (*models.User, *TokenPair, error) {
	login := strings.ToLower(strings.TrimSpace(identifier))
	if login == "" || password == "" {
		return nil, nil, common.ErrorValidation
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.FindByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil, common.ErrorInvalidCredentials
		}
		return nil, nil, common.ErrorInternal
	}

	if !checkPassword(user.PasswordHash, password) {
		return nil, nil, common.ErrorInvalidCredentials
	}

	// Mint both tokens before touching the store so a signing failure
	// cannot leave a half-updated record.
	pair, err := s.issuePair(user.ID)
	if err != nil {
		return nil, nil, common.ErrorInternal
	}

	if err := repo.UpdateRefreshToken(ctx, user.ID, pair.RefreshToken); err != nil {
		return nil, nil, common.ErrorInternal
	}

	return user.Sanitized(), pair, nil
}

// Refresh exchanges a valid refresh token for a new pair, rotating the
// persisted token. The incoming token must both verify cryptographically
// and match the persisted value byte for byte; a previously rotated token
// is still a valid JWT but fails the comparison, which is how replay is
// detected.
//
// The read-compare-write runs in one transaction but takes no row lock, so
// two refreshes racing on the same token can both succeed with the second
// write winning. Known gap, kept as is.
func (s *SessionService) Refresh(ctx context.Context, incoming string) (*TokenPair, error) {
	if incoming == "" {
		return nil, common.ErrorUnauthorized
	}

	userID, err := s.codec.Verify(incoming, auth.PurposeRefresh)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorUnauthorized, err)
	}

	var pair *TokenPair
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		user, err := repo.FindByID(ctx, userID)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrorNotFound
			}
			return common.ErrorInternal
		}

		if user.RefreshToken == "" || user.RefreshToken != incoming {
			return common.ErrTokenReused
		}

		p, err := s.issuePair(user.ID)
		if err != nil {
			return common.ErrorInternal
		}
		if err := repo.UpdateRefreshToken(ctx, user.ID, p.RefreshToken); err != nil {
			return common.ErrorInternal
		}

		pair = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	return pair, nil
}

// Logout clears the persisted refresh token. Logging out an already
// logged-out user succeeds silently.
func (s *SessionService) Logout(ctx context.Context, userID string) error {
	repo := s.repomanager.Users(s.db)
	if err := repo.UpdateRefreshToken(ctx, userID, ""); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return common.ErrorInternal
	}
	return nil
}

// ChangePassword verifies the old password and persists a hash of the new
// one. The current refresh token stays valid; there is no forced re-login
// on password change.
func (s *SessionService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	if newPassword == "" {
		return common.ErrorValidation
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return common.ErrorInternal
	}

	if !checkPassword(user.PasswordHash, oldPassword) {
		return common.ErrorInvalidCredentials
	}

	hash, err := hashPassword(newPassword)
	if err != nil {
		return common.ErrorInternal
	}

	if err := repo.UpdatePasswordHash(ctx, userID, hash); err != nil {
		return common.ErrorInternal
	}
	return nil
}

func (s *SessionService) issuePair(userID string) (*TokenPair, error) {
	access, err := s.codec.Issue(userID, auth.PurposeAccess)
	if err != nil {
		return nil, err
	}
	refresh, err := s.codec.Issue(userID, auth.PurposeRefresh)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// checkPassword compares plaintext against the stored bcrypt hash. bcrypt
// comparison is constant-time over the derived key.
func checkPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
