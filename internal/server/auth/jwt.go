package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmitrijs2005/handlekeeper/internal/common"
)

// Claims carries the registered claims only; the account handle travels in
// Subject.
type Claims struct {
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies HS256 tokens with an absolute expiry.
type TokenIssuer struct {
	secret SecretProvider
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenIssuer returns an issuer that signs with the secret resolved from
// p and stamps every token with the given lifetime.
func NewTokenIssuer(p SecretProvider, ttl time.Duration) *TokenIssuer {
	if ttl <= 0 {
		ttl = common.DefaultTokenTTL
	}
	return &TokenIssuer{secret: p, ttl: ttl, now: time.Now}
}

// Issue returns a signed token for subject together with its expiry.
// A missing secret is reported as common.ErrSecretNotConfigured.
func (i *TokenIssuer) Issue(subject string) (string, time.Time, error) {
	key, err := i.secret.SigningSecret()
	if err != nil {
		return "", time.Time{}, err
	}

	issuedAt := jwt.NewNumericDate(i.now())
	expiresAt := jwt.NewNumericDate(issuedAt.Add(i.ttl))

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  issuedAt,
			ExpiresAt: expiresAt,
		},
	})

	tokenString, err := token.SignedString(key)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}

	return tokenString, expiresAt.Time, nil
}

// Parse verifies tokenString and returns its claims. Only HS256 is accepted.
// Expired tokens yield common.ErrTokenExpired, anything else that fails
// verification yields common.ErrInvalidToken.
func (i *TokenIssuer) Parse(tokenString string) (*Claims, error) {
	key, err := i.secret.SigningSecret()
	if err != nil {
		return nil, err
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (any, error) { return key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}

	if !token.Valid || claims.Subject == "" {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
