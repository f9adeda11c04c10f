package services

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const (
	secretPrefix    = "gyf_"
	secretRandomLen = 16
	secretShownLen  = 8
)

// GenerateWorkspaceSecret returns a new access secret, its bcrypt hash and the
// prefix shown on the dashboard after the secret itself is no longer retrievable.
func GenerateWorkspaceSecret() (plain, hash, prefix string, err error) {
	plain, err = randomToken(secretRandomLen)
	if err != nil {
		return "", "", "", err
	}
	plain = secretPrefix + plain

	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", "", "", fmt.Errorf("failed to hash secret: %w", err)
	}

	return plain, string(hashed), plain[:secretShownLen] + "...", nil
}

func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// CheckHash reports whether plain matches a bcrypt hash.
func CheckHash(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// GenerateOpaqueToken returns a random hex token for single-use links.
func GenerateOpaqueToken() (string, error) {
	return randomToken(32)
}

func HashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}

func randomToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return hex.EncodeToString(b), nil
}
