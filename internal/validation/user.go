// Package validation holds the input rules shared by services and handlers.
package validation

import (
	"fmt"
	"regexp"
	"unicode/utf8"
)

// Profile limits.
const (
	UsernameMinLength = 3
	UsernameMaxLength = 20
	NameMaxLength     = 50
	BioMaxLength      = 160
)

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// ValidateUsername checks handle length and charset.
func ValidateUsername(username string) error {
	n := utf8.RuneCountInString(username)
	if n < UsernameMinLength || n > UsernameMaxLength {
		return fmt.Errorf("username must be between %d and %d characters", UsernameMinLength, UsernameMaxLength)
	}
	if !usernameRegex.MatchString(username) {
		return fmt.Errorf("username can only contain letters, numbers, and underscores")
	}
	return nil
}

func ValidateName(name string) error {
	if utf8.RuneCountInString(name) > NameMaxLength {
		return fmt.Errorf("name must be %d characters or less", NameMaxLength)
	}
	return nil
}

func ValidateBio(bio string) error {
	if utf8.RuneCountInString(bio) > BioMaxLength {
		return fmt.Errorf("bio must be %d characters or less", BioMaxLength)
	}
	return nil
}
