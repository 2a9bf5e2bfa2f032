// Package identity resolves the authenticated caller of a request.
//
// The service does not implement an auth provider; it consumes tokens
// minted by the outer auth layer and only needs a stable user id plus
// optional display name and avatar from them.
package identity

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Identity describes an authenticated caller.
type Identity struct {
	ID     string
	Name   string
	Avatar string
}

// Provider extracts the caller's identity from a request, reporting
// false when the request carries no valid credentials.
type Provider interface {
	FromRequest(r *http.Request) (Identity, bool)
}

// JWTProvider validates HMAC-signed bearer tokens. Claims used:
// sub (required), name, picture.
type JWTProvider struct {
	secret []byte
}

// NewJWTProvider creates a provider for the given shared secret.
func NewJWTProvider(secret string) *JWTProvider {
	return &JWTProvider{secret: []byte(secret)}
}

// FromRequest implements Provider.
func (p *JWTProvider) FromRequest(r *http.Request) (Identity, bool) {
	if len(p.secret) == 0 {
		return Identity{}, false
	}
	raw := bearerToken(r)
	if raw == "" {
		return Identity{}, false
	}

	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return p.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return Identity{}, false
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return Identity{}, false
	}
	return Identity{
		ID:     sub,
		Name:   stringClaim(claims, "name"),
		Avatar: stringClaim(claims, "picture"),
	}, true
}

// Token mints a signed token for the given identity. Used by local
// tooling and tests; production tokens come from the auth layer sharing
// the same secret.
func (p *JWTProvider) Token(id Identity, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": id.ID,
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	}
	if id.Name != "" {
		claims["name"] = id.Name
	}
	if id.Avatar != "" {
		claims["picture"] = id.Avatar
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return tok, nil
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(h) <= len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(h[len(prefix):])
}

func stringClaim(claims jwt.MapClaims, key string) string {
	if v, ok := claims[key].(string); ok {
		return v
	}
	return ""
}
