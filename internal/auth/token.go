package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// Token decode failures. The middleware collapses both into anonymous
// fallthrough; callers must not expose which case occurred.
var (
	ErrMalformedToken   = errors.New("malformed token")
	ErrInvalidSignature = errors.New("invalid token signature")
)

// TokenManager issues and validates signed bearer tokens. Tokens are
// self-contained; nothing is stored server-side.
type TokenManager struct {
	key []byte
	ttl time.Duration
}

// NewTokenManager builds a new manager around a symmetric signing key.
func NewTokenManager(key []byte, ttl time.Duration) *TokenManager {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenManager{key: key, ttl: ttl}
}

// Claims describes the token payload.
type Claims struct {
	Authorities []string `json:"roles"`
	jwt.RegisteredClaims
}

// Issue builds and signs a token for the subject. The expiry is now plus the
// configured TTL.
func (tm *TokenManager) Issue(subject string, authorities []string, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(tm.ttl)
	claims := &Claims{
		Authorities: authorities,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(tm.key)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Subject extracts the subject claim. The signature must verify, but expiry is
// not checked here so callers that only need identity (logging, lookups) can
// decode expired tokens.
func (tm *TokenManager) Subject(tokenStr string) (string, error) {
	claims, err := tm.parse(tokenStr)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

// Expiry extracts the expiry claim for validity checks.
func (tm *TokenManager) Expiry(tokenStr string) (time.Time, error) {
	claims, err := tm.parse(tokenStr)
	if err != nil {
		return time.Time{}, err
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, ErrMalformedToken
	}
	return claims.ExpiresAt.Time, nil
}

// Authorities extracts the role claims embedded at issuance.
func (tm *TokenManager) Authorities(tokenStr string) ([]string, error) {
	claims, err := tm.parse(tokenStr)
	if err != nil {
		return nil, err
	}
	return claims.Authorities, nil
}

// IsValid reports whether the token's signature verifies, its subject matches
// the expected one, and now is strictly before its expiry. Expiry is compared
// against the caller-supplied clock, not wall time.
func (tm *TokenManager) IsValid(tokenStr, expectedSubject string, now time.Time) bool {
	claims, err := tm.parse(tokenStr)
	if err != nil {
		return false
	}
	if claims.Subject != expectedSubject {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return now.Before(claims.ExpiresAt.Time)
}

// parse verifies the signature and decodes claims. Claim validation is left to
// IsValid so decoding and validity stay separate concerns.
func (tm *TokenManager) parse(tokenStr string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, ErrInvalidSignature
		}
		return tm.key, nil
	}, jwt.WithoutClaimsValidation())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenSignatureInvalid) {
			return nil, ErrInvalidSignature
		}
		return nil, ErrMalformedToken
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok {
		return nil, ErrMalformedToken
	}
	return claims, nil
}
