package utils // helper functions for token creation, verification and hashing

import (
	"crypto/rand"   // secure random number generation
	"crypto/sha256" // SHA-256 hashing for refresh tokens at rest
	"encoding/hex"  // hex encoding for token material
	"errors"        // sentinel error for invalid tokens
	"time"          // expiry arithmetic

	"github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
)

// ErrInvalidToken is returned by VerifyAccessToken for any token that is
// malformed, carries a bad signature, uses the wrong algorithm or has
// expired. Callers translate it to HTTP 401.
var ErrInvalidToken = errors.New("invalid access token")

// AccessToken is a signed JWT access token along with its expiry. The
// Token field contains the serialized JWT string. Access tokens are
// short-lived and sent in the Authorization header on protected calls.
type AccessToken struct {
	Token string
	Exp   time.Time
}

// RefreshToken is the long-lived secret used to obtain new access tokens.
// Raw goes back to the client; only its SHA-256 hash is stored.
type RefreshToken struct {
	Raw string
	Exp time.Time
}

// Claims is the verified claim set of an access token.
type Claims struct {
	UserID uint64
	Email  string
	Role   string
}

// NewAccessToken builds and signs an HS256 JWT for a user. The claim set
// is fixed: sub (user id), email, role, exp and iat. The TTL is given in
// minutes and comes from configuration.
func NewAccessToken(secret string, userID uint64, email, role string, ttlMin int) (AccessToken, error) {
	exp := time.Now().UTC().Add(time.Duration(ttlMin) * time.Minute)
	claims := jwt.MapClaims{
		"sub":   userID,
		"email": email,
		"role":  role,
		"exp":   exp.Unix(),
		"iat":   time.Now().UTC().Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}

// VerifyAccessToken parses and validates a signed access token and
// returns its claims. The signing method must be HMAC; anything else is
// rejected to block algorithm-substitution tricks. Expiry is enforced by
// the jwt library against wall-clock time.
func VerifyAccessToken(secret, raw string) (Claims, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return Claims{}, ErrInvalidToken
	}
	mc, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, ErrInvalidToken
	}
	var c Claims
	// Numeric JSON values decode as float64.
	sub, ok := mc["sub"].(float64)
	if !ok {
		return Claims{}, ErrInvalidToken
	}
	c.UserID = uint64(sub)
	c.Email, _ = mc["email"].(string)
	c.Role, _ = mc["role"].(string)
	return c, nil
}

// NewRefreshToken returns a cryptographically secure random token (raw)
// and its expiration. 32 random bytes give 256 bits of entropy, encoded
// as 64 hex characters. ttlDays controls how long the token is valid.
func NewRefreshToken(ttlDays int) (RefreshToken, error) {
	raw, err := randomHex(32)
	if err != nil {
		return RefreshToken{}, err
	}
	return RefreshToken{
		Raw: raw,
		Exp: time.Now().UTC().Add(time.Duration(ttlDays) * 24 * time.Hour),
	}, nil
}

// HashRefreshRaw returns the SHA-256 hash of the raw refresh token as a
// hex string. Storing only the hash means a leaked database dump cannot
// be replayed to refresh sessions.
func HashRefreshRaw(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// randomHex returns a hex-encoded string built from n bytes of
// cryptographically secure random data.
func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
