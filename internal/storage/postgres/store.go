package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/citygrid/sambag-alert-be/internal/models"
	"github.com/citygrid/sambag-alert-be/internal/storage"
)

// Ensure Store satisfies the storage.Store interface at compile time.
var _ storage.Store = (*Store)(nil)

// Store provides Postgres-backed persistence for user records, local
// credentials, and incident reports.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a new Store and runs migrations.
func NewStore(ctx context.Context, databaseURL string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	s := &Store{pool: pool}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return s, nil
}

// Close releases database resources.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *Store) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			uid TEXT PRIMARY KEY,
			username TEXT UNIQUE NOT NULL,
			email TEXT UNIQUE NOT NULL,
			role TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS users_email_unique_idx ON users (email);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS users_username_unique_idx ON users (username);`,
		`CREATE TABLE IF NOT EXISTS credentials (
			uid TEXT PRIMARY KEY,
			email TEXT UNIQUE NOT NULL,
			password_hash TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE TABLE IF NOT EXISTS reports (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			contact TEXT NOT NULL,
			type TEXT NOT NULL,
			location TEXT NOT NULL,
			device_id TEXT NOT NULL DEFAULT '',
			image_url TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE TABLE IF NOT EXISTS history (
			id BIGSERIAL PRIMARY KEY,
			report_id TEXT NOT NULL,
			name TEXT NOT NULL,
			contact TEXT NOT NULL,
			type TEXT NOT NULL,
			location TEXT NOT NULL,
			device_id TEXT NOT NULL DEFAULT '',
			image_url TEXT NOT NULL DEFAULT '',
			reported_at TIMESTAMPTZ NOT NULL,
			success TEXT NOT NULL,
			resolved_by TEXT NOT NULL,
			resolved_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
	}
	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
	}
	return nil
}

// CreateUser inserts a new user row keyed by the provider-assigned uid.
func (s *Store) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	const query = `
	INSERT INTO users (uid, username, email, role)
	VALUES ($1, $2, $3, $4)
	RETURNING uid, username, email, role, created_at;
	`
	row := s.pool.QueryRow(ctx, query, user.ID, user.Username, user.Email, user.Role)
	created, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return models.User{}, storage.ErrAlreadyExists
		}
		return models.User{}, err
	}
	return created, nil
}

// GetUser fetches a user record by its identifier.
func (s *Store) GetUser(ctx context.Context, uid string) (models.User, error) {
	const query = `SELECT uid, username, email, role, created_at FROM users WHERE uid = $1;`
	return scanUser(s.pool.QueryRow(ctx, query, uid))
}

// FindByUsername fetches a user record by username.
func (s *Store) FindByUsername(ctx context.Context, username string) (models.User, error) {
	const query = `SELECT uid, username, email, role, created_at FROM users WHERE username = $1;`
	return scanUser(s.pool.QueryRow(ctx, query, username))
}

// FindByEmail fetches a user record by email address.
func (s *Store) FindByEmail(ctx context.Context, email string) (models.User, error) {
	const query = `SELECT uid, username, email, role, created_at FROM users WHERE email = $1;`
	return scanUser(s.pool.QueryRow(ctx, query, email))
}

// CreateCredential stores a local-mode credential.
func (s *Store) CreateCredential(ctx context.Context, cred models.Credential) error {
	const query = `INSERT INTO credentials (uid, email, password_hash) VALUES ($1, $2, $3);`
	if _, err := s.pool.Exec(ctx, query, cred.UID, cred.Email, cred.PasswordHash); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return storage.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// GetCredentialByEmail fetches a local-mode credential by email.
func (s *Store) GetCredentialByEmail(ctx context.Context, email string) (models.Credential, error) {
	const query = `SELECT uid, email, password_hash, created_at FROM credentials WHERE email = $1;`
	var cred models.Credential
	err := s.pool.QueryRow(ctx, query, email).Scan(&cred.UID, &cred.Email, &cred.PasswordHash, &cred.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Credential{}, storage.ErrNotFound
		}
		return models.Credential{}, err
	}
	return cred, nil
}

// CreateReport inserts a new active incident report.
func (s *Store) CreateReport(ctx context.Context, report models.Report) (models.Report, error) {
	const query = `
	INSERT INTO reports (id, name, contact, type, location, device_id, image_url)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	RETURNING id, name, contact, type, location, device_id, image_url, created_at;
	`
	row := s.pool.QueryRow(ctx, query,
		report.ID, report.Name, report.Contact, report.Type, report.Location, report.DeviceID, report.ImageURL)
	created, err := scanReport(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return models.Report{}, storage.ErrAlreadyExists
		}
		return models.Report{}, err
	}
	return created, nil
}

// GetReport fetches one active report by id.
func (s *Store) GetReport(ctx context.Context, id string) (models.Report, error) {
	const query = `SELECT id, name, contact, type, location, device_id, image_url, created_at FROM reports WHERE id = $1;`
	return scanReport(s.pool.QueryRow(ctx, query, id))
}

// ListReports returns all active reports, newest first.
func (s *Store) ListReports(ctx context.Context) ([]models.Report, error) {
	const query = `SELECT id, name, contact, type, location, device_id, image_url, created_at FROM reports ORDER BY created_at DESC;`
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reports := []models.Report{}
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}
	return reports, rows.Err()
}

// DeleteReport removes an active report; ErrNotFound when it is already gone.
func (s *Store) DeleteReport(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM reports WHERE id = $1;`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// AppendHistory records a triaged report outcome.
func (s *Store) AppendHistory(ctx context.Context, entry models.HistoryEntry) error {
	const query = `
	INSERT INTO history (report_id, name, contact, type, location, device_id, image_url, reported_at, success, resolved_by)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := s.pool.Exec(ctx, query,
		entry.ReportID, entry.Name, entry.Contact, entry.Type, entry.Location,
		entry.DeviceID, entry.ImageURL, entry.ReportedAt, entry.Success, entry.ResolvedBy)
	return err
}

// ListHistory returns triaged reports, newest first.
func (s *Store) ListHistory(ctx context.Context) ([]models.HistoryEntry, error) {
	const query = `
	SELECT id, report_id, name, contact, type, location, device_id, image_url, reported_at, success, resolved_by, resolved_at
	FROM history ORDER BY resolved_at DESC;
	`
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []models.HistoryEntry{}
	for rows.Next() {
		var e models.HistoryEntry
		if err := rows.Scan(&e.ID, &e.ReportID, &e.Name, &e.Contact, &e.Type, &e.Location,
			&e.DeviceID, &e.ImageURL, &e.ReportedAt, &e.Success, &e.ResolvedBy, &e.ResolvedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func scanUser(row pgx.Row) (models.User, error) {
	var user models.User
	if err := row.Scan(&user.ID, &user.Username, &user.Email, &user.Role, &user.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, storage.ErrNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

func scanReport(row pgx.Row) (models.Report, error) {
	var report models.Report
	err := row.Scan(&report.ID, &report.Name, &report.Contact, &report.Type,
		&report.Location, &report.DeviceID, &report.ImageURL, &report.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Report{}, storage.ErrNotFound
		}
		return models.Report{}, err
	}
	return report, nil
}
