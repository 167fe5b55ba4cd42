// Package auth issues and verifies the JWT access and refresh tokens used
// by the API.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token type claim values.
const (
	TokenAccess  = "access"
	TokenRefresh = "refresh"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	// ErrWrongTokenType is returned when an access token is presented
	// where a refresh token is required, or the other way around.
	ErrWrongTokenType = errors.New("wrong token type")
)

// Claims is the JWT payload for both token types.
type Claims struct {
	TokenType string `json:"typ"`
	jwt.RegisteredClaims
}

// Issuer signs and verifies tokens with a shared HMAC secret.
type Issuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewIssuer creates an Issuer. accessTTL and refreshTTL control token
// lifetimes.
func NewIssuer(secret string, accessTTL, refreshTTL time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), accessTTL: accessTTL, refreshTTL: refreshTTL}
}

// IssuePair returns a signed access and refresh token for the doctor.
func (i *Issuer) IssuePair(doctorID uuid.UUID) (access, refresh string, err error) {
	access, err = i.sign(doctorID, TokenAccess, i.accessTTL)
	if err != nil {
		return "", "", err
	}
	refresh, err = i.sign(doctorID, TokenRefresh, i.refreshTTL)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

func (i *Issuer) sign(doctorID uuid.UUID, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   doctorID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
}

// Verify parses a token, checks the signature and expiry, and enforces the
// expected token type. It returns the doctor ID from the subject claim.
func (i *Issuer) Verify(tokenStr, wantType string) (uuid.UUID, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return i.secret, nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, ErrInvalidToken
	}

	if claims.TokenType != wantType {
		return uuid.Nil, ErrWrongTokenType
	}

	doctorID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}
	return doctorID, nil
}
