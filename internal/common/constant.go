package common

import "time"

// AuthorizationHeaderName carries the bearer token on authenticated requests.
const AuthorizationHeaderName = "Authorization"

// BearerPrefix precedes the token in the Authorization header.
const BearerPrefix = "Bearer "

// RequestIDHeaderName is echoed back on every HTTP response.
const RequestIDHeaderName = "X-Request-ID"

// DefaultTokenTTL is the lifetime of an issued token.
const DefaultTokenTTL = time.Hour

// DefaultBcryptCost is the password hashing work factor.
const DefaultBcryptCost = 10
