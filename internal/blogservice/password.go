package blogservice

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidPassword = errors.New("invalid upload password")

// bcrypt ignores input past this length, so longer secrets cannot be compared in full.
const maxSecretLength = 72

// UploadSecret gates the write operations. The zero value rejects every password.
type UploadSecret struct {
	hash []byte
}

func NewUploadSecret(plain string) (*UploadSecret, error) {
	return NewUploadSecretWithCost(plain, 12)
}

// NewUploadSecretWithCost hashes plain at the given bcrypt cost.
func NewUploadSecretWithCost(plain string, cost int) (*UploadSecret, error) {
	if plain == "" {
		return &UploadSecret{}, nil
	}

	if len(plain) > maxSecretLength {
		return nil, fmt.Errorf("upload password must not be longer than %d bytes", maxSecretLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return nil, err
	}

	return &UploadSecret{hash: hash}, nil
}

// compare reports whether pwd equals the configured secret in full.
func (s *UploadSecret) compare(pwd string) (bool, error) {
	if s == nil || len(s.hash) == 0 || pwd == "" || len(pwd) > maxSecretLength {
		return false, nil
	}

	err := bcrypt.CompareHashAndPassword(s.hash, []byte(pwd))
	if err != nil {
		switch {
		case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
			return false, nil
		default:
			return false, err
		}
	}

	return true, nil
}

// authorize returns ErrInvalidPassword unless pwd matches the secret.
func (s *UploadSecret) authorize(pwd string) error {
	ok, err := s.compare(pwd)
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidPassword
	}

	return nil
}
