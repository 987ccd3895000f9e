package validate

import (
	"regexp"
	"strings"
)

var (
	reEmail    = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	reUsername = regexp.MustCompile(`^[a-zA-Z0-9]+$`)
	reAlnum    = regexp.MustCompile(`[^a-zA-Z0-9]`)
	reSpace    = regexp.MustCompile(`\s+`)
	reID       = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
)

// Username sanitizes and validates a username: backslashes and
// non-alphanumerics stripped, 6-12 characters.
func Username(s string) (string, bool) {
	s = strip(s)
	s = reAlnum.ReplaceAllString(s, "")
	if len(s) < 6 || len(s) > 12 {
		return s, false
	}
	return s, reUsername.MatchString(s)
}

// Email sanitizes and validates an email address: backslashes and inner
// whitespace stripped, 6-50 characters, single @ with a valid domain.
func Email(s string) (string, bool) {
	s = strip(s)
	if len(s) < 6 || len(s) > 50 {
		return s, false
	}
	return s, reEmail.MatchString(s)
}

// Password sanitizes a raw password (backslashes and whitespace stripped) and
// enforces 8-68 characters with at least one lowercase, uppercase, digit and
// symbol.
func Password(s string) (string, bool) {
	s = strip(s)
	l := len(s)
	if l < 8 || l > 68 {
		return s, false
	}
	var hasLower, hasUpper, hasDigit, hasSymbol bool
	for _, r := range s {
		switch {
		case 'a' <= r && r <= 'z':
			hasLower = true
		case 'A' <= r && r <= 'Z':
			hasUpper = true
		case '0' <= r && r <= '9':
			hasDigit = true
		default:
			hasSymbol = true
		}
	}
	return s, hasLower && hasUpper && hasDigit && hasSymbol
}

// ID validates a simple resource identifier (product/order/user ids).
func ID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reID.MatchString(s)
}

// Status validates an admin-assignable order status.
func Status(s string) bool {
	switch s {
	case "Pending", "Shipped", "Delivered":
		return true
	}
	return false
}

func strip(s string) string {
	s = strings.ReplaceAll(s, `\`, "")
	s = strings.TrimSpace(s)
	return reSpace.ReplaceAllString(s, "")
}
