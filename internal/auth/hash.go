package auth

import (
	"crypto/sha256"

	"golang.org/x/crypto/bcrypt"
)

// hashCost is the bcrypt work factor for passwords and refresh tokens.
const hashCost = 10

// HashPassword produces a one-way adaptive hash of the password.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), hashCost)
	return string(hashed), err
}

// CheckPassword reports whether password matches the stored hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// HashRefreshToken hashes a refresh token with the same primitive used for
// passwords. The token is digested first: bcrypt reads only the first 72
// bytes of its input and signed tokens are longer than that.
func HashRefreshToken(token string) (string, error) {
	sum := sha256.Sum256([]byte(token))
	hashed, err := bcrypt.GenerateFromPassword(sum[:], hashCost)
	return string(hashed), err
}

// CheckRefreshToken reports whether token matches the stored hash.
func CheckRefreshToken(hash, token string) bool {
	sum := sha256.Sum256([]byte(token))
	return bcrypt.CompareHashAndPassword([]byte(hash), sum[:]) == nil
}
