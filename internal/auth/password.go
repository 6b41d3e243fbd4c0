// Package auth wraps bcrypt hashing for the single operator credential.
package auth

import "golang.org/x/crypto/bcrypt"

// bcryptCost is the work factor the seeded admin credential is hashed with;
// existing hashes verify regardless of cost.
const bcryptCost = 10

// HashPassword returns a salted bcrypt hash of the password.
func HashPassword(raw string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(raw), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether raw matches the stored hash using bcrypt's
// own constant-time comparison.
func CheckPassword(hash, raw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(raw)) == nil
}
