package onboard

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 12

// HashKey returns a bcrypt hash of an onboarding key, suitable for the
// ONBOARD_*_KEY settings in place of the plain key.
func HashKey(key string) (string, error) {
	if key == "" {
		return "", errors.New("onboard: empty key")
	}
	b, err := bcrypt.GenerateFromPassword([]byte(key), bcryptCost)
	return string(b), err
}
