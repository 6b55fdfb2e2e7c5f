package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
)

const issuer = "anbud"

// Principal identifies the authenticated user a session token was issued to.
type Principal struct {
	ID    string
	Email string
	Name  string
}

type sessionClaims struct {
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// IssueSession creates a signed session token for the given principal.
func IssueSession(secret string, p Principal, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("session secret not provided")
	}
	if p.ID == "" {
		return "", errors.New("principal id not provided")
	}

	now := time.Now()
	claims := &sessionClaims{
		Email: p.Email,
		Name:  p.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseSession validates a session token and returns the principal it was
// issued to.
func ParseSession(secret, tokenStr string) (Principal, error) {
	if secret == "" {
		return Principal{}, errors.New("session secret not provided")
	}

	parsed, err := jwt.ParseWithClaims(tokenStr, &sessionClaims{}, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("invalid signing method")
		}
		return []byte(secret), nil
	}, jwt.WithIssuer(issuer))
	if err != nil {
		log.Debug().Err(err).Msg("session token parse error")
		return Principal{}, errors.New("invalid session token")
	}

	if !parsed.Valid {
		return Principal{}, errors.New("session token invalid")
	}

	claims, ok := parsed.Claims.(*sessionClaims)
	if !ok {
		return Principal{}, errors.New("invalid session claims")
	}

	if claims.ExpiresAt != nil && claims.ExpiresAt.Before(time.Now()) {
		return Principal{}, errors.New("session token expired")
	}

	return Principal{
		ID:    claims.Subject,
		Email: claims.Email,
		Name:  claims.Name,
	}, nil
}
