package utils

import (
	"regexp"
	"strings"
)

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	orcidPattern = regexp.MustCompile(`^\d{4}-\d{4}-\d{4}-\d{3}[\dX]$`)
)

// ValidateEmail reports whether the address is plausible enough to receive
// editorial correspondence.
func ValidateEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// ValidateORCID checks the 16-digit ORCID iD format (0000-0000-0000-0000,
// final character may be X).
func ValidateORCID(id string) bool {
	return orcidPattern.MatchString(id)
}

// ValidatePassword enforces the portal account policy: at least 8 characters
// mixing letters and digits.
func ValidatePassword(password string) (bool, string) {
	if len(password) < 8 {
		return false, "Password must be at least 8 characters"
	}

	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case r >= '0' && r <= '9':
			hasDigit = true
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
			hasLetter = true
		}
	}
	if !hasLetter || !hasDigit {
		return false, "Password must contain both letters and digits"
	}

	return true, ""
}

// SanitizeInput trims whitespace and strips control characters from free-text
// fields (titles, abstracts, names). Newlines and tabs survive so abstracts
// keep their paragraph breaks.
func SanitizeInput(input string) string {
	input = strings.TrimSpace(input)
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, input)
}
