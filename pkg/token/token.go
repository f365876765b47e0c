// Package token mints and verifies the signed, room-scoped, time-bounded
// credentials that authorize joining a room. Tokens are stateless:
// verification is a pure function of the token bytes and the process-wide
// signing secret.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Verification failure causes. Callers treat all of them as a single
// generic unauthorized condition; the distinction exists for logs.
var (
	ErrMalformed    = errors.New("token malformed")
	ErrExpired      = errors.New("token expired")
	ErrRoomMismatch = errors.New("token bound to a different room")
)

// Claims bind a token to one room for a bounded time window.
type Claims struct {
	RoomID string `json:"roomId"`
	jwt.RegisteredClaims
}

type Issuer struct {
	secret []byte
}

func NewIssuer(secret string) *Issuer {
	return &Issuer{secret: []byte(secret)}
}

// Issue produces an HS256 token for roomID valid for ttl from now.
func (i *Issuer) Issue(roomID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		RoomID: roomID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
}

// Verify checks signature and expiry first; only a structurally valid
// token has its embedded room id compared against expectedRoomID.
func (i *Issuer) Verify(tokenString, expectedRoomID string) error {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return i.secret, nil
	})
	switch {
	case err == nil:
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpired
	default:
		return ErrMalformed
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return ErrMalformed
	}

	if claims.RoomID != expectedRoomID {
		return ErrRoomMismatch
	}

	return nil
}
