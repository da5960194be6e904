package auth

import (
	"errors"

	goerrors "github.com/goliatone/go-errors"
	"golang.org/x/crypto/bcrypt"
)

// ErrNoEmptyString rejects empty credentials before they are stored.
var ErrNoEmptyString = goerrors.New("string must not be empty", goerrors.CategoryValidation)

// ErrMismatchedHashAndPassword is the shared comparison failure.
var ErrMismatchedHashAndPassword = goerrors.New("passwords do not match", goerrors.CategoryAuth)

// PlaintextAuthenticator stores and compares credentials verbatim.
// Placeholder for real hashing; swap in BcryptAuthenticator via
// WithPasswordAuthenticator to strengthen.
type PlaintextAuthenticator struct{}

var _ PasswordAuthenticator = PlaintextAuthenticator{}

func (PlaintextAuthenticator) HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrNoEmptyString
	}
	return password, nil
}

func (PlaintextAuthenticator) ComparePasswordAndHash(password, hash string) error {
	if password != hash {
		return ErrMismatchedHashAndPassword
	}
	return nil
}

// BcryptAuthenticator hashes credentials with bcrypt. Enabling it
// changes the persisted layout: stored records hold hashes instead of
// the verbatim credential.
type BcryptAuthenticator struct {
	// Cost defaults to bcrypt.DefaultCost when zero.
	Cost int
}

var _ PasswordAuthenticator = BcryptAuthenticator{}

func (b BcryptAuthenticator) HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrNoEmptyString
	}

	cost := b.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}

	h, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	return string(h), err
}

func (b BcryptAuthenticator) ComparePasswordAndHash(password, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrMismatchedHashAndPassword
		}
		return err
	}
	return nil
}
