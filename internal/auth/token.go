package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrTokenExpired indicates a structurally valid session token past its expiry.
var ErrTokenExpired = errors.New("session token expired")

// ErrTokenInvalid indicates a session token that failed signature or shape checks.
var ErrTokenInvalid = errors.New("session token invalid")

// Pair is one freshly minted session: a short-lived access token and a
// longer-lived refresh token, both bound to the same user identifier.
type Pair struct {
	AccessToken  string
	RefreshToken string
}

// TokenManager issues and verifies the signed session tokens. Tokens carry
// only the user identifier; role and profile data are always re-fetched from
// the record store rather than trusted from a token.
type TokenManager struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

// NewTokenManager creates a manager with separate secrets for the two token kinds.
func NewTokenManager(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *TokenManager {
	return &TokenManager{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

// AccessTTL returns the configured access token lifetime.
func (t *TokenManager) AccessTTL() time.Duration { return t.accessTTL }

// RefreshTTL returns the configured refresh token lifetime.
func (t *TokenManager) RefreshTTL() time.Duration { return t.refreshTTL }

// IssuePair mints an access+refresh token pair for the given user identifier.
func (t *TokenManager) IssuePair(userID string) (Pair, error) {
	access, err := sign(userID, t.accessSecret, t.accessTTL)
	if err != nil {
		return Pair{}, fmt.Errorf("sign access token: %w", err)
	}
	refresh, err := sign(userID, t.refreshSecret, t.refreshTTL)
	if err != nil {
		return Pair{}, fmt.Errorf("sign refresh token: %w", err)
	}
	return Pair{AccessToken: access, RefreshToken: refresh}, nil
}

// VerifyAccess checks signature and expiry of an access token and returns the
// bound user identifier.
func (t *TokenManager) VerifyAccess(raw string) (string, error) {
	return verify(raw, t.accessSecret)
}

// VerifyRefresh checks signature and expiry of a refresh token and returns the
// bound user identifier.
func (t *TokenManager) VerifyRefresh(raw string) (string, error) {
	return verify(raw, t.refreshSecret)
}

func sign(userID string, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func verify(raw string, secret []byte) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(tok *jwt.Token) (any, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", tok.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", ErrTokenInvalid
	}
	if !token.Valid || claims.Subject == "" {
		return "", ErrTokenInvalid
	}
	return claims.Subject, nil
}
