package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ErrPasswordMismatch is returned when a password does not match its hash
var ErrPasswordMismatch = errors.New("password mismatch")

// HashPassword returns the bcrypt hash of password
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// Credentials is the configured librarian account
type Credentials struct {
	username     string
	passwordHash []byte
}

// NewCredentials builds the librarian account. An empty hash falls back to
// hashing the plain password, which configuration only allows outside
// production.
func NewCredentials(username, passwordHash, password string) (*Credentials, error) {
	if username == "" {
		return nil, errors.New("librarian username is required")
	}
	if passwordHash == "" {
		if password == "" {
			return nil, errors.New("librarian password or password hash is required")
		}
		hashed, err := HashPassword(password)
		if err != nil {
			return nil, err
		}
		passwordHash = hashed
	}
	if _, err := bcrypt.Cost([]byte(passwordHash)); err != nil {
		return nil, fmt.Errorf("librarian password hash: %w", err)
	}
	return &Credentials{username: username, passwordHash: []byte(passwordHash)}, nil
}

// Username returns the librarian username
func (c *Credentials) Username() string {
	return c.username
}

// Verify checks username and password. Both are always compared so a wrong
// username costs the same as a wrong password.
func (c *Credentials) Verify(username, password string) error {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(c.username)) == 1
	passErr := bcrypt.CompareHashAndPassword(c.passwordHash, []byte(password))
	if !userOK || passErr != nil {
		return ErrPasswordMismatch
	}
	return nil
}
