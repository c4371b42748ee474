package shared

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// SixDigitCode returns a uniformly random zero-padded six digit code.
func SixDigitCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
