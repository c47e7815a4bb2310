package localident

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/citygrid/sambag-alert-be/internal/identity"
	"github.com/citygrid/sambag-alert-be/internal/models"
	"github.com/citygrid/sambag-alert-be/internal/storage"
)

type memCredentialStore struct {
	byEmail map[string]models.Credential
}

func newMemCredentialStore() *memCredentialStore {
	return &memCredentialStore{byEmail: make(map[string]models.Credential)}
}

func (m *memCredentialStore) CreateCredential(_ context.Context, cred models.Credential) error {
	if _, ok := m.byEmail[cred.Email]; ok {
		return storage.ErrAlreadyExists
	}
	m.byEmail[cred.Email] = cred
	return nil
}

func (m *memCredentialStore) GetCredentialByEmail(_ context.Context, email string) (models.Credential, error) {
	cred, ok := m.byEmail[email]
	if !ok {
		return models.Credential{}, storage.ErrNotFound
	}
	return cred, nil
}

func TestCreateUserAndLoginRoundTrip(t *testing.T) {
	ctx := context.Background()
	p := New(newMemCredentialStore(), "signing-secret")

	uid, err := p.CreateUser(ctx, "a@x.com", "secret123")
	require.NoError(t, err)
	require.NotEmpty(t, uid)

	idToken, err := p.IssueIDToken(ctx, "a@x.com", "secret123")
	require.NoError(t, err)

	got, err := p.VerifyIDToken(ctx, idToken)
	require.NoError(t, err)
	assert.Equal(t, uid, got)
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	p := New(newMemCredentialStore(), "signing-secret")

	_, err := p.CreateUser(ctx, "a@x.com", "secret123")
	require.NoError(t, err)

	_, err = p.CreateUser(ctx, "a@x.com", "other-pass")
	assert.ErrorIs(t, err, identity.ErrEmailTaken)
}

func TestIssueIDTokenBadCredentials(t *testing.T) {
	ctx := context.Background()
	p := New(newMemCredentialStore(), "signing-secret")

	_, err := p.CreateUser(ctx, "a@x.com", "secret123")
	require.NoError(t, err)

	_, err = p.IssueIDToken(ctx, "a@x.com", "wrong-pass")
	assert.ErrorIs(t, err, identity.ErrInvalidCredentials)

	_, err = p.IssueIDToken(ctx, "missing@x.com", "secret123")
	assert.ErrorIs(t, err, identity.ErrInvalidCredentials)
}

func TestVerifyIDTokenForeignSignature(t *testing.T) {
	ctx := context.Background()
	store := newMemCredentialStore()
	issuer := New(store, "secret-a")
	verifier := New(store, "secret-b")

	_, err := issuer.CreateUser(ctx, "a@x.com", "secret123")
	require.NoError(t, err)
	idToken, err := issuer.IssueIDToken(ctx, "a@x.com", "secret123")
	require.NoError(t, err)

	_, err = verifier.VerifyIDToken(ctx, idToken)
	assert.ErrorIs(t, err, identity.ErrTokenInvalid)
}
