// session tokens for the digest API

package jwtutil

import (
	"time"

	"github.com/decred/dcrwallet/errors/v2"
	"github.com/golang-jwt/jwt/v4"
)

// DefaultTTL is the token lifetime used when an Issuer is created with a
// non-positive ttl.
const DefaultTTL = time.Hour

type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Issuer signs and validates HS256 tokens with a shared secret.
type Issuer struct {
	secret []byte
	ttl    time.Duration
}

func NewIssuer(secret []byte, ttl time.Duration) *Issuer {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Issuer{secret: secret, ttl: ttl}
}

func (i *Issuer) GenerateToken(username string) (string, error) {
	now := time.Now()
	claims := &Claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(i.secret)
}

func (i *Issuer) ValidateToken(tokenStr string) (*Claims, error) {
	const op errors.Op = "jwtutil.ValidateToken"
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return i.secret, nil
	})
	if err != nil {
		return nil, errors.E(op, errors.Permission, err)
	}
	if !token.Valid {
		return nil, errors.E(op, errors.Permission, "invalid token")
	}
	return claims, nil
}
