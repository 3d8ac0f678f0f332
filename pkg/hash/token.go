package hash

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 12

// HashToken hashes a device pairing token for storage. The plaintext token is
// never persisted.
func HashToken(token string) (string, error) {
	if len(token) < 8 {
		return "", fmt.Errorf("token must be at least 8 characters")
	}

	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(token), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash token: %w", err)
	}

	return string(hashedBytes), nil
}

func CompareToken(hashedToken, token string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedToken), []byte(token))
}
