package dto

import "github.com/citygrid/sambag-alert-be/internal/models"

type SignupRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

type LoginRequest struct {
	IDToken        string `json:"idToken"`
	RecaptchaToken string `json:"recaptchaToken"`
}

// LocalLoginRequest drives the self-hosted identity mode where the backend
// verifies credentials itself instead of receiving a provider id token.
type LocalLoginRequest struct {
	Email          string `json:"email"`
	Password       string `json:"password"`
	RecaptchaToken string `json:"recaptchaToken"`
}

type LoginResponse struct {
	Success     bool        `json:"success"`
	Message     string      `json:"message"`
	User        models.User `json:"user"`
	AccessToken string      `json:"accessToken"`
}

type CheckAuthResponse struct {
	Success bool        `json:"success"`
	User    models.User `json:"user"`
}
