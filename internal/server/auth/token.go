// Package auth implements the purpose-bound token codec. Access and refresh
// tokens are HS256 JWTs signed with independent secrets and independent
// lifetimes, so a token minted for one purpose is structurally rejected
// when presented for the other.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/rmaksimov/videotube/internal/common"
)

// Purpose names the role a token is minted for. Each purpose has its own
// signing secret and validity duration.
type Purpose string

const (
	PurposeAccess  Purpose = "access"
	PurposeRefresh Purpose = "refresh"
)

// Claims extends the registered JWT claims with the subject user ID and the
// purpose the token was minted for.
type Claims struct {
	jwt.RegisteredClaims
	UserID  string  `json:"uid"`
	Purpose Purpose `json:"purpose"`
}

type purposeKey struct {
	secret   []byte
	validity time.Duration
}

// Codec mints and verifies tokens. It is constructed once from config and
// safe for concurrent use.
type Codec struct {
	keys map[Purpose]purposeKey
}

// NewCodec builds a codec with one secret/validity pair per purpose.
func NewCodec(accessSecret []byte, accessValidity time.Duration, refreshSecret []byte, refreshValidity time.Duration) *Codec {
	return &Codec{
		keys: map[Purpose]purposeKey{
			PurposeAccess:  {secret: accessSecret, validity: accessValidity},
			PurposeRefresh: {secret: refreshSecret, validity: refreshValidity},
		},
	}
}

// Issue mints a signed token for userID with the given purpose. A signing
// failure is an internal fault, not a caller error.
func (c *Codec) Issue(userID string, purpose Purpose) (string, error) {
	key, ok := c.keys[purpose]
	if !ok {
		return "", common.ErrorInternal
	}

	// The jti claim makes every minted token unique even when two are
	// issued within the same second, so rotation always produces a new
	// refresh token string.
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(key.validity)),
		},
		UserID:  userID,
		Purpose: purpose,
	})

	tokenString, err := token.SignedString(key.secret)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// Verify checks the signature, expiry, and purpose of tokenString against
// the expected purpose and returns the subject user ID.
//
// Errors: common.ErrTokenExpired past expiry, common.ErrMalformedToken when
// the string cannot be decoded, common.ErrInvalidToken for a bad signature
// or a purpose mismatch.
func (c *Codec) Verify(tokenString string, purpose Purpose) (string, error) {
	key, ok := c.keys[purpose]
	if !ok {
		return "", common.ErrorInternal
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return key.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return "", common.ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenMalformed):
			return "", common.ErrMalformedToken
		default:
			return "", common.ErrInvalidToken
		}
	}

	if !token.Valid {
		return "", common.ErrInvalidToken
	}

	// Secrets differ per purpose, so a cross-purpose token already fails
	// the signature check. The claim comparison keeps the invariant even
	// if both purposes were configured with the same secret.
	if claims.Purpose != purpose {
		return "", common.ErrInvalidToken
	}

	return claims.UserID, nil
}
