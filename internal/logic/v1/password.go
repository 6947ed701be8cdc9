package v1

import (
	"strings"
	"unicode"
)

// Password policy constants. No characters are restricted; the policy only
// enforces composition.
const (
	passwordMinLength = 8
	passwordMaxLength = 128 // exclusive
	specialCharacters = "!@#$%^&*()-+"
)

// ValidatePassword reports whether the candidate password satisfies the
// policy: byte length in [8, 128) and at least one uppercase letter, one
// lowercase letter, one ASCII digit and one special character.
//
// Length is measured in bytes, not grapheme clusters, so grapheme-rich
// input may behave unexpectedly near the bounds. Deliberate simplification.
func ValidatePassword(password string) bool {
	size := len(password)
	if size < passwordMinLength || size >= passwordMaxLength {
		return false
	}

	var hasUppercase, hasLowercase, hasDigit, hasSpecial bool

	for _, r := range password {
		switch {
		case !hasUppercase && unicode.IsUpper(r):
			hasUppercase = true
		case !hasLowercase && unicode.IsLower(r):
			hasLowercase = true
		case !hasDigit && r >= '0' && r <= '9':
			hasDigit = true
		case !hasSpecial && strings.ContainsRune(specialCharacters, r):
			hasSpecial = true
		}

		// Length is already satisfied, so all four classes end the scan.
		if hasUppercase && hasLowercase && hasDigit && hasSpecial {
			return true
		}
	}

	return hasUppercase && hasLowercase && hasDigit && hasSpecial
}
