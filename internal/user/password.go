package user

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const PasswordMinimumLength = 8

var (
	ErrPasswordTooShort                    = fmt.Errorf("password should be at least %d characters", PasswordMinimumLength)
	ErrPasswordNotAlphanumeric             = errors.New("password must contain a letter and a digit")
	ErrPasswordDoesNotHaveSpecialCharacter = errors.New("password does not contain special characters")
)

const specialCharacters = "!@#$%^&*()-_=+[]{}|;:'\",.<>?/`~"

// HashPassword returns a salted bcrypt hash. The salt is random per call,
// so two hashes of the same password differ.
func HashPassword(plaintext string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// VerifyPassword reports whether plaintext matches hash. A malformed hash
// is a mismatch.
func VerifyPassword(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}

// CheckPassword enforces the registration password policy.
func CheckPassword(password string) error {
	if len(password) < PasswordMinimumLength {
		return ErrPasswordTooShort
	}
	if !hasLetterAndDigit(password) {
		return ErrPasswordNotAlphanumeric
	}
	if !strings.ContainsAny(password, specialCharacters) {
		return ErrPasswordDoesNotHaveSpecialCharacter
	}
	return nil
}

func hasLetterAndDigit(password string) bool {
	hasLetter := false
	hasDigit := false
	for _, c := range password {
		if ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') {
			hasLetter = true
		}
		if '0' <= c && c <= '9' {
			hasDigit = true
		}
	}
	return hasLetter && hasDigit
}
