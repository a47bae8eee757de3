package auth

import (
	"crypto/hmac"
	"errors"
)

var (
	// ErrSecretNotConfigured is returned when no admin secret is set.
	ErrSecretNotConfigured = errors.New("auth: admin secret not configured")
	// ErrInvalidSecret is returned when the supplied secret does not match.
	ErrInvalidSecret = errors.New("auth: invalid admin secret")
)

// SecretGate guards privileged request options behind a single shared secret.
type SecretGate struct {
	secret []byte
}

// NewSecretGate constructs a gate. An empty secret rejects every candidate.
func NewSecretGate(secret string) *SecretGate {
	return &SecretGate{secret: []byte(secret)}
}

// Verify checks candidate against the configured secret in constant time.
func (g *SecretGate) Verify(candidate string) error {
	if g == nil || len(g.secret) == 0 {
		return ErrSecretNotConfigured
	}
	if !hmac.Equal([]byte(candidate), g.secret) {
		return ErrInvalidSecret
	}
	return nil
}

// ResolvePVPath picks the PV metadata workbook for a request. The override is
// used only when one is supplied together with the correct secret; otherwise the
// default path is returned along with the verification error, which callers
// report as a warning.
func (g *SecretGate) ResolvePVPath(defaultPath, overridePath, password string) (string, error) {
	if overridePath == "" {
		return defaultPath, nil
	}
	if err := g.Verify(password); err != nil {
		return defaultPath, err
	}
	return overridePath, nil
}
