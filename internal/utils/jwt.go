package utils // package utils provides helpers for identity tokens and password hashing

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5" // JWT library for creating and verifying signed tokens
)

// ErrInvalidToken is returned by VerifyIdentity for every kind of failure:
// wrong segment count, bad encoding, unexpected algorithm, signature
// mismatch or an expired token.  Callers never learn which one.
var ErrInvalidToken = errors.New("invalid token")

// Identity is the payload carried by a signed token.  SponsorID binds a
// sponsor-role identity to exactly one sponsor and is null for admins.
type Identity struct {
	ID        int64  `json:"id"`
	Role      string `json:"role"`
	SponsorID *int64 `json:"sponsor_id"`
}

// identityClaims is the JSON body of the token.  The registered claims
// are all omitempty so a token without TTL carries only the identity.
type identityClaims struct {
	ID        int64  `json:"id"`
	Role      string `json:"role"`
	SponsorID *int64 `json:"sponsor_id"`
	jwt.RegisteredClaims
}

// SignIdentity builds an HS256 token for the identity.  The header is
// the fixed {"alg":"HS256","typ":"JWT"}; header and payload are
// base64url encoded and signed with HMAC-SHA256 over the shared secret.
// A zero ttl produces a token that never expires.  A positive ttl adds
// exp and iat claims.
func SignIdentity(id Identity, secret string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("empty signing secret")
	}
	claims := identityClaims{ID: id.ID, Role: id.Role, SponsorID: id.SponsorID}
	if ttl > 0 {
		now := time.Now().UTC()
		claims.IssuedAt = jwt.NewNumericDate(now)
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign identity: %w", err)
	}
	return signed, nil
}

// VerifyIdentity checks the token signature against secret and returns
// the decoded identity.  Only tokens with exactly three segments and the
// HS256 algorithm are accepted; the signature comparison is constant
// time.  Any failure yields ErrInvalidToken and a zero Identity.
func VerifyIdentity(token, secret string) (Identity, error) {
	if token == "" || secret == "" {
		return Identity{}, ErrInvalidToken
	}
	var claims identityClaims
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	tok, err := parser.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return Identity{}, ErrInvalidToken
	}
	return Identity{ID: claims.ID, Role: claims.Role, SponsorID: claims.SponsorID}, nil
}
