// Package auth issues and verifies session credentials: signed JWT identity
// tokens, password-reset tokens, the signed session cookie, bcrypt password
// checks and the strategies that resolve a user for register, login and
// GitHub sign-in.
package auth

import (
	"errors"
	"fmt"
	"time"

	"ecommerce-sessions/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const resetAudience = "password-reset"

// ErrInvalidToken is returned when a token parses but its claims are unusable
var ErrInvalidToken = errors.New("invalid token")

// Claims carried by the identity token stored in the session cookie
type Claims struct {
	jwt.RegisteredClaims
	User models.SessionUser `json:"user"`
}

// ResetClaims carried by a password-reset token. Only the email is embedded.
type ResetClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// Tokens signs and verifies identity and reset tokens with one HMAC secret
type Tokens struct {
	secret   []byte
	ttl      time.Duration
	resetTTL time.Duration
}

// NewTokens creates the token utility
func NewTokens(secret string, ttl, resetTTL time.Duration) *Tokens {
	return &Tokens{
		secret:   []byte(secret),
		ttl:      ttl,
		resetTTL: resetTTL,
	}
}

// GenerateToken signs an identity token for the given user
func (t *Tokens) GenerateToken(user models.SessionUser) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
		User: user,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// GenerateResetToken signs a short-lived token that only carries the email.
// Reset tokens are not tracked: a token stays valid until it expires.
func (t *Tokens) GenerateResetToken(email string) (string, error) {
	now := time.Now()
	claims := ResetClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Audience:  jwt.ClaimStrings{resetAudience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.resetTTL)),
		},
		Email: email,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// ValidateToken verifies signature and expiry of an identity token
func (t *Tokens) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	if err := t.parse(tokenString, claims); err != nil {
		return nil, err
	}
	if claims.User.Email == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// ValidateResetToken verifies a password-reset token
func (t *Tokens) ValidateResetToken(tokenString string) (*ResetClaims, error) {
	claims := &ResetClaims{}
	if err := t.parse(tokenString, claims, jwt.WithAudience(resetAudience)); err != nil {
		return nil, err
	}
	if claims.Email == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (t *Tokens) parse(tokenString string, claims jwt.Claims, opts ...jwt.ParserOption) error {
	if tokenString == "" {
		return ErrInvalidToken
	}
	opts = append(opts, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	token, err := jwt.ParseWithClaims(tokenString, claims, func(tok *jwt.Token) (interface{}, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", tok.Header["alg"])
		}
		return t.secret, nil
	}, opts...)
	if err != nil {
		return err
	}
	if !token.Valid {
		return ErrInvalidToken
	}
	return nil
}
