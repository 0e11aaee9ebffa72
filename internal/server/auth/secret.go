// Package auth holds the server-side credential primitives: the signing
// secret, password hashing and JWT issuance/verification.
package auth

import "github.com/dmitrijs2005/handlekeeper/internal/common"

// SecretProvider resolves the HMAC key used to sign and verify tokens.
// It is consulted on every call so a rotated or missing secret is noticed
// without a restart.
type SecretProvider interface {
	SigningSecret() ([]byte, error)
}

// StaticSecret is a SecretProvider backed by a fixed configuration value.
type StaticSecret string

// SigningSecret returns the secret bytes, or common.ErrSecretNotConfigured
// when the value is empty.
func (s StaticSecret) SigningSecret() ([]byte, error) {
	if s == "" {
		return nil, common.ErrSecretNotConfigured
	}
	return []byte(s), nil
}

// SecretFunc adapts a plain function to SecretProvider.
type SecretFunc func() ([]byte, error)

func (f SecretFunc) SigningSecret() ([]byte, error) { return f() }
