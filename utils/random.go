package utils

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
)

// GenerateCode returns an uppercase hex code from n random bytes. Used for
// human-facing booking and claim references.
func GenerateCode(n int) (string, error) {
	byt := make([]byte, n)

	if _, err := rand.Read(byt); err != nil {
		return "", err
	}

	return strings.ToUpper(hex.EncodeToString(byt)), nil
}

// GenerateReference builds a prefixed reference code such as "BK-3FA2C09D".
func GenerateReference(prefix string) (string, error) {
	code, err := GenerateCode(4)
	if err != nil {
		return "", err
	}
	return prefix + "-" + code, nil
}
