package security

import "golang.org/x/crypto/bcrypt"

// bcrypt work factor for all stored password hashes.
const HashCost = 10

// HashPassword hashes a plain text password with bcrypt. The salt is random
// per call, so hashing the same input twice yields different values.
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), HashCost)

	if err != nil {
		return "", err
	}

	return string(hash), nil
}

// helper that compares a bcrypt hash with a plaintext password.
// A malformed hash reports as a mismatch error, never a panic.

func CheckPassword(hash, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
}
