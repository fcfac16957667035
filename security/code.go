package security

import (
	"crypto/rand"
	"math/big"
)

// CodeLength is the number of digits in a verification code
const CodeLength = 6

// GenerateCode returns a fixed-length numeric one-time code. Leading
// zeros are kept, so "004213" is a valid code.
func GenerateCode() (string, error) {
	digits := make([]byte, CodeLength)

	for i := range digits {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}

		digits[i] = byte('0' + n.Int64())
	}

	return string(digits), nil
}
