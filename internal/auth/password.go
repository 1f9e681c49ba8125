package auth

import (
	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 12

// HashPassword hashes a plain-text password with bcrypt.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword reports whether password matches the stored hash.
func VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// CompareDummy burns a bcrypt comparison so that login attempts against
// unknown usernames take about as long as failed password checks.
func CompareDummy() {
	bcrypt.CompareHashAndPassword(
		[]byte("$2a$12$RrCoERGh5QX3o0Xi7z0P2eZBqrkB/6oyz2UOhfSZ7Kb4QnmFeDfPa"),
		[]byte("dummy"),
	)
}
