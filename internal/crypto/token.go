package crypto

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// ResetTokenBytes is the amount of entropy in a password reset token.
const ResetTokenBytes = 20

// GenerateResetToken returns a random hex token suitable for a reset link.
func GenerateResetToken() (string, error) {
	buf := make([]byte, ResetTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating reset token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
