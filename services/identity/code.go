package identity

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const codeLength = 6

// generateCode returns a random numeric code of codeLength digits.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", fmt.Errorf("failed to generate random otp: %w", err)
	}
	return fmt.Sprintf("%0*d", codeLength, n.Int64()), nil
}
