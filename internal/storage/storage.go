package storage

import (
	"context"
	"errors"

	"github.com/citygrid/sambag-alert-be/internal/models"
)

// ErrNotFound indicates a record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists indicates a uniqueness conflict.
var ErrAlreadyExists = errors.New("record already exists")

// UserStore captures the profile-record operations needed by the auth handlers.
type UserStore interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	GetUser(ctx context.Context, uid string) (models.User, error)
	FindByUsername(ctx context.Context, username string) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
}

// CredentialStore holds local-mode login secrets for the self-hosted
// identity provider.
type CredentialStore interface {
	CreateCredential(ctx context.Context, cred models.Credential) error
	GetCredentialByEmail(ctx context.Context, email string) (models.Credential, error)
}

// ReportStore captures incident report persistence.
type ReportStore interface {
	CreateReport(ctx context.Context, report models.Report) (models.Report, error)
	GetReport(ctx context.Context, id string) (models.Report, error)
	ListReports(ctx context.Context) ([]models.Report, error)
	DeleteReport(ctx context.Context, id string) error
	AppendHistory(ctx context.Context, entry models.HistoryEntry) error
	ListHistory(ctx context.Context) ([]models.HistoryEntry, error)
}

// Store is the full persistence surface the server wires together.
type Store interface {
	UserStore
	CredentialStore
	ReportStore
}
