package auth

import (
	"regexp"
	"strings"

	"backend-kayesworld/internal/shared/apperr"
)

var (
	displayNameRe = regexp.MustCompile(`^[a-zA-Z0-9\s'-]+$`)
	emailRe       = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

func validateDisplayName(name string) error {
	name = strings.TrimSpace(name)
	if len(name) < 2 {
		return apperr.New(apperr.Validation, "name must be at least 2 characters")
	}
	if len(name) > 50 {
		return apperr.New(apperr.Validation, "name is too long (max 50 characters)")
	}
	if !displayNameRe.MatchString(name) {
		return apperr.New(apperr.Validation, "name contains invalid characters")
	}
	return nil
}

func validateEmail(email string) error {
	if len(email) > 255 {
		return apperr.New(apperr.Validation, "email is too long")
	}
	if !emailRe.MatchString(email) {
		return apperr.New(apperr.Validation, "please enter a valid email address")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return apperr.New(apperr.Validation, "password must be at least 8 characters")
	}
	if len(password) > 128 {
		return apperr.New(apperr.Validation, "password is too long")
	}
	return nil
}
