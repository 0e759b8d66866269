package validation

import (
	"errors"
	"regexp"
	"strings"
)

var emailPattern = regexp.MustCompile(`(?i)^[A-Z0-9._%+-]+@[A-Z0-9.-]+\.[A-Z]{2,}$`)

var (
	ErrEmailRequired = errors.New("Email is required")
	ErrEmailInvalid  = errors.New("Please enter a valid email address")
)

// ValidateEmail checks the login form contract.
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ErrEmailRequired
	}
	if !emailPattern.MatchString(email) {
		return ErrEmailInvalid
	}
	return nil
}
