// Package localident is a self-hosted identity provider for deployments that
// run without the hosted service. Credentials are bcrypt-hashed in the record
// store and id tokens are short-lived JWTs, so the login handlers see the
// exact same Provider contract in both modes.
package localident

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/citygrid/sambag-alert-be/internal/identity"
	"github.com/citygrid/sambag-alert-be/internal/models"
	"github.com/citygrid/sambag-alert-be/internal/storage"
)

const idTokenTTL = 5 * time.Minute

// Ensure Provider satisfies the identity.Provider contract at compile time.
var _ identity.Provider = (*Provider)(nil)

// Provider verifies credentials against the local store and signs its own
// short-lived id tokens.
type Provider struct {
	store  storage.CredentialStore
	secret []byte
}

// New builds a local provider signing id tokens with the given secret.
func New(store storage.CredentialStore, secret string) *Provider {
	return &Provider{store: store, secret: []byte(secret)}
}

// CreateUser hashes the password and stores a new credential under a fresh uid.
func (p *Provider) CreateUser(ctx context.Context, email, password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	uid := uuid.NewString()
	err = p.store.CreateCredential(ctx, models.Credential{
		UID:          uid,
		Email:        email,
		PasswordHash: string(hash),
	})
	if err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return "", identity.ErrEmailTaken
		}
		return "", fmt.Errorf("store credential: %w", err)
	}
	return uid, nil
}

// IssueIDToken checks an email/password pair and mints an id token for it.
func (p *Provider) IssueIDToken(ctx context.Context, email, password string) (string, error) {
	cred, err := p.store.GetCredentialByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", identity.ErrInvalidCredentials
		}
		return "", fmt.Errorf("look up credential: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)); err != nil {
		return "", identity.ErrInvalidCredentials
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   cred.UID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(idTokenTTL)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
	if err != nil {
		return "", fmt.Errorf("sign id token: %w", err)
	}
	return token, nil
}

// VerifyIDToken validates a locally issued id token and returns its uid.
func (p *Provider) VerifyIDToken(ctx context.Context, idToken string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(idToken, claims, func(tok *jwt.Token) (any, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", tok.Header["alg"])
		}
		return p.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", identity.ErrTokenExpired
		}
		return "", identity.ErrTokenInvalid
	}
	if !token.Valid || claims.Subject == "" {
		return "", identity.ErrTokenInvalid
	}
	return claims.Subject, nil
}
