package credential

import (
	"crypto/sha256"
	"crypto/subtle"
	"fmt"
	"io"

	"golang.org/x/crypto/pbkdf2"
)

const (
	DefaultIterations = 200000
	SaltSize          = 16
	KeySize           = 32
)

// DeriveKey stretches password with PBKDF2-HMAC-SHA256 into KeySize bytes.
// It is CPU bound and blocks for as long as iterations demand.
func DeriveKey(password string, salt []byte, iterations int) []byte {
	return pbkdf2.Key([]byte(password), salt, iterations, KeySize, sha256.New)
}

// Provision builds a record for username/password using a fresh salt
// read from rnd (normally crypto/rand.Reader).
func Provision(rnd io.Reader, username, password, role string) (Record, error) {
	salt := make([]byte, SaltSize)
	if _, err := io.ReadFull(rnd, salt); err != nil {
		return Record{}, fmt.Errorf("credential: unable to generate salt, cause %w", err)
	}
	return Record{
		Username:   username,
		Role:       role,
		Iterations: DefaultIterations,
		Salt:       salt,
		Hash:       DeriveKey(password, salt, DefaultIterations),
	}, nil
}

// equalBytes never exits early for equal length inputs; inputs with a
// different length are simply not equal.
func equalBytes(a, b []byte) bool {
	return subtle.ConstantTimeCompare(a, b) == 1
}
