package services

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidDigest reports a stored digest that bcrypt cannot parse. A plain
// mismatch is not an error; it is the false return of VerifyPassword.
var ErrInvalidDigest = errors.New("services: invalid password digest")

// HashPassword produces a salted bcrypt digest of the plaintext. The digest
// is the only form that ever reaches storage.
func HashPassword(plain string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// VerifyPassword compares plaintext against a stored digest. bcrypt's
// comparison is constant-time; the digest is never reversed.
func VerifyPassword(plain, digest string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(digest), []byte(plain))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, ErrInvalidDigest
}
