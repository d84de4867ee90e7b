package domain

import (
	"fmt"
	"strings"
)

// Address is an account identity: "0x" followed by 40 lowercase hex digits.
type Address string

// ZeroAddress is the all-zero address. It is never a valid treasury.
const ZeroAddress Address = "0x0000000000000000000000000000000000000000"

// ParseAddress validates and canonicalizes an address string.
func ParseAddress(s string) (Address, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) != 42 || !strings.HasPrefix(s, "0x") {
		return "", fmt.Errorf("address must be 0x followed by 40 hex digits, got %q", s)
	}
	for _, c := range s[2:] {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return "", fmt.Errorf("address contains non-hex character %q", c)
		}
	}
	return Address(s), nil
}

// IsZero reports whether the address is the zero address.
func (a Address) IsZero() bool {
	return a == ZeroAddress
}

func (a Address) String() string {
	return string(a)
}
