package auth

import "golang.org/x/crypto/bcrypt"

// bcryptCost matches the work factor the rest of the deployment was created
// with; changing it only affects newly hashed passwords.
const bcryptCost = 12

// HashPassword derives a bcrypt digest from a plaintext password.
func HashPassword(plaintext string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(plaintext), bcryptCost)
}

// CheckPassword reports whether plaintext matches the stored digest.
func CheckPassword(plaintext string, digest []byte) bool {
	return bcrypt.CompareHashAndPassword(digest, []byte(plaintext)) == nil
}
