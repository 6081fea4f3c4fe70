package models

import "time"

// User is the persisted account record. Username and Email are stored
// lowercased and carry unique constraints. RefreshToken holds the single
// currently-valid refresh token for the account, or "" when logged out:
// the schema allows at most one live session per user.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	FullName     string    `json:"fullName"`
	Avatar       string    `json:"avatar,omitempty"`
	CoverImage   string    `json:"coverImage,omitempty"`
	PasswordHash string    `json:"-"`
	RefreshToken string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Sanitized returns a copy of the user with credential material stripped.
// This is the only form that may leave the service layer.
func (u *User) Sanitized() *User {
	c := *u
	c.PasswordHash = ""
	c.RefreshToken = ""
	return &c
}
