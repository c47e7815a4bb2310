package models

import "time"

// User is the profile record kept for every account. The identifier is
// assigned by the identity provider at account creation and never changes.
// Credentials never live here; they belong to the identity provider.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// Credential is a local-mode login secret, keyed by the same identifier
// as the user record. Only the self-hosted identity provider touches it.
type Credential struct {
	UID          string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
