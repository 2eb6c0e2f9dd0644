package auth

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// DefaultPassword is assigned to newly created employees.
const DefaultPassword = "123456"

var ErrEmptyPassword = errors.New("password is empty")

func NormalizeUsername(s string) string {
	return strings.TrimSpace(s)
}

func HashPassword(pw string) (string, error) {
	pw = strings.TrimSpace(pw)
	if pw == "" {
		return "", ErrEmptyPassword
	}
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func CheckPassword(hash string, pw string) bool {
	if hash == "" || pw == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(strings.TrimSpace(pw))) == nil
}
