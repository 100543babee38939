package common

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// DecodeHex decodes a hex string with an optional 0x prefix
func DecodeHex(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if len(s)%2 != 0 {
		return nil, fmt.Errorf("invalid hex length")
	}
	return hex.DecodeString(s)
}

// TrimBaseURL strips whitespace and trailing slashes from a base URL
func TrimBaseURL(base string) string {
	return strings.TrimRight(strings.TrimSpace(base), "/")
}

// IsPositiveDecimal reports whether s is a plain decimal string greater than zero.
// Only the syntax is checked, so any scale and magnitude is accepted.
func IsPositiveDecimal(s string) bool {
	s = strings.TrimSpace(s)
	whole, frac, hasPoint := strings.Cut(s, ".")
	if whole == "" || (hasPoint && frac == "") {
		return false
	}
	nonZero := false
	for _, part := range []string{whole, frac} {
		for _, r := range part {
			if r < '0' || r > '9' {
				return false
			}
			if r != '0' {
				nonZero = true
			}
		}
	}
	return nonZero
}
