package auth

import (
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/zatekoja/hospital-management/pkg/errors"
)

const MinPasswordLength = 8

// HashPassword hashes pw with bcrypt
func HashPassword(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	return string(b), err
}

// CheckPassword reports whether pw matches hash
func CheckPassword(hash, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}

// ValidatePassword rejects passwords that are too short, entirely numeric
// or the same as the username.
func ValidatePassword(pw, username string) error {
	if len(pw) < MinPasswordLength {
		return apperrors.NewValidationError("This password is too short. It must contain at least 8 characters.")
	}
	if strings.IndexFunc(pw, func(r rune) bool { return !unicode.IsDigit(r) }) < 0 {
		return apperrors.NewValidationError("This password is entirely numeric.")
	}
	if username != "" && strings.EqualFold(pw, username) {
		return apperrors.NewValidationError("The password is too similar to the username.")
	}
	return nil
}
