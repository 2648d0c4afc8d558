// Package auth implements the token codec and password hasher used by the
// user service. Both are stateless aside from configuration read once at
// startup; revocation checks live with the caller.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmitrijs2005/calcledger/internal/common"
)

// TokenType selects which secret and default lifetime apply to a token.
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// jtiSize is the number of random bytes in a token id (128 bits).
const jtiSize = 16

// Claims is the signed claim set carried by every token. TokenType is
// checked on decode even though the per-type secrets already isolate the two
// kinds; secret reuse misconfiguration must not let a refresh token pass as
// an access token.
type Claims struct {
	jwt.RegisteredClaims
	TokenType TokenType `json:"type"`
}

// TokenCodec signs and verifies claim-bearing tokens. Access and refresh
// tokens use independent HMAC secrets.
type TokenCodec struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

// NewTokenCodec validates the signer configuration and returns a codec.
// A missing secret is a startup-class misconfiguration, not a per-request
// condition.
func NewTokenCodec(accessSecret, refreshSecret []byte, accessTTL, refreshTTL time.Duration) (*TokenCodec, error) {
	if len(accessSecret) == 0 || len(refreshSecret) == 0 {
		return nil, errors.New("token codec: signing secret is not configured")
	}
	if accessTTL <= 0 || refreshTTL <= 0 {
		return nil, errors.New("token codec: token lifetime must be positive")
	}
	return &TokenCodec{
		accessSecret:  accessSecret,
		refreshSecret: refreshSecret,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}, nil
}

func (c *TokenCodec) secretFor(tokenType TokenType) ([]byte, error) {
	switch tokenType {
	case TokenTypeAccess:
		return c.accessSecret, nil
	case TokenTypeRefresh:
		return c.refreshSecret, nil
	default:
		return nil, fmt.Errorf("token codec: unknown token type %q", tokenType)
	}
}

func (c *TokenCodec) defaultTTL(tokenType TokenType) time.Duration {
	if tokenType == TokenTypeRefresh {
		return c.refreshTTL
	}
	return c.accessTTL
}

// Issue signs a token for userID. A non-positive ttl selects the per-type
// default lifetime. Every issued token carries a fresh random jti.
func (c *TokenCodec) Issue(userID string, tokenType TokenType, ttl time.Duration) (string, error) {
	secret, err := c.secretFor(tokenType)
	if err != nil {
		return "", err
	}

	if ttl <= 0 {
		ttl = c.defaultTTL(tokenType)
	}

	jti, err := common.MakeRandHexString(jtiSize)
	if err != nil {
		return "", fmt.Errorf("token codec: generating token id: %w", err)
	}

	now := time.Now().UTC()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        jti,
		},
		TokenType: tokenType,
	})

	tokenString, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("token codec: signing token: %w", err)
	}

	return tokenString, nil
}

// Decode verifies tokenString against the secret for expectedType and
// returns its claims.
//
// Failure modes are distinct: an elapsed exp yields common.ErrTokenExpired,
// anything else (bad signature, wrong type claim, missing sub/jti/exp,
// malformed input) yields common.ErrInvalidToken. With verifyExpiry=false
// an expired token still decodes; signature and claim-shape checks are
// never skipped. The signing algorithm is pinned by the verifier, not
// trusted from the token header.
func (c *TokenCodec) Decode(tokenString string, expectedType TokenType, verifyExpiry bool) (*Claims, error) {
	secret, err := c.secretFor(expectedType)
	if err != nil {
		return nil, err
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if !verifyExpiry {
		opts = append(opts, jwt.WithoutClaimsValidation())
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}

	if !token.Valid && verifyExpiry {
		return nil, common.ErrInvalidToken
	}

	// Defense in depth: the per-type secret should already have rejected a
	// cross-type token, but a shared-secret misconfiguration must not get
	// through on signature alone.
	if claims.TokenType != expectedType {
		return nil, common.ErrInvalidToken
	}

	// The exp requirement above is part of claims validation, which the
	// verifyExpiry=false path skips entirely, so the shape check repeats it.
	// Every later consumer of ExpiresAt relies on it being present.
	if claims.Subject == "" || claims.ID == "" || claims.ExpiresAt == nil {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
