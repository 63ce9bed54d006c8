package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const RoleAdmin = "admin"

var ErrInvalidToken = errors.New("invalid token")

type Claim struct {
	Metadata Metadata `json:"metadata"`
	jwt.RegisteredClaims
}

type Metadata struct {
	UserID   string `json:"user_id"`
	FullName string `json:"full_name"`
	Role     string `json:"role,omitempty"`
}

func (m Metadata) IsAdmin() bool {
	return m.Role == RoleAdmin
}

// Parse verifies an HS256 bearer token and returns its claims.
func Parse(raw, secret string) (*Claim, error) {
	claim := &Claim{}
	parsed, err := jwt.ParseWithClaims(raw, claim, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid || claim.Metadata.UserID == "" {
		return nil, ErrInvalidToken
	}
	return claim, nil
}

// Sign issues a token; the auth service owns issuance, this is used by tests and tooling.
func Sign(meta Metadata, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claim := Claim{
		Metadata: meta,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   meta.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claim).SignedString([]byte(secret))
}
