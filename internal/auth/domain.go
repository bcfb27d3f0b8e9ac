// Package auth implements account registration, credential verification,
// and the session-token lifecycle (issue, refresh with rotation, revoke).
package auth

import (
	"regexp"
	"time"

	"github.com/google/uuid"
)

// User represents a stored account record. RefreshTokenHash holds the
// one-way hash of the single currently valid refresh token; nil means the
// account has no active session.
type User struct {
	ID               uuid.UUID
	Email            string
	Username         string
	PasswordHash     string
	RefreshTokenHash *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// SafeUser is the only projection of an account ever returned to callers.
type SafeUser struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	Username string    `json:"username"`
}

// Safe strips credential material from the record.
func (u *User) Safe() SafeUser {
	return SafeUser{ID: u.ID, Email: u.Email, Username: u.Username}
}

// TokenPair carries freshly minted plaintext tokens. The refresh token is
// persisted only as a hash; this struct is handed to the client and dropped.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// UsernameRE constrains usernames to 3-20 chars of letters, digits, "-", "_".
var UsernameRE = regexp.MustCompile(`^[A-Za-z0-9_-]{3,20}$`)
