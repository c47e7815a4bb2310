package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Client talks to the hosted identity provider's JSON API.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewClient builds a provider client for the given API endpoint.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

type accountRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type verifyRequest struct {
	IDToken string `json:"idToken"`
}

type providerResponse struct {
	UID     string `json:"uid"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// CreateUser registers a credential with the provider and returns the new uid.
func (c *Client) CreateUser(ctx context.Context, email, password string) (string, error) {
	out, err := c.post(ctx, "/v1/accounts", accountRequest{Email: email, Password: password})
	if err != nil {
		return "", err
	}
	return out.UID, nil
}

// VerifyIDToken asks the provider to validate a bearer id token.
func (c *Client) VerifyIDToken(ctx context.Context, idToken string) (string, error) {
	out, err := c.post(ctx, "/v1/tokens:verify", verifyRequest{IDToken: idToken})
	if err != nil {
		return "", err
	}
	return out.UID, nil
}

func (c *Client) post(ctx context.Context, path string, payload any) (providerResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return providerResponse{}, fmt.Errorf("marshal provider request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return providerResponse{}, fmt.Errorf("build provider request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return providerResponse{}, fmt.Errorf("call identity provider: %w", err)
	}
	defer resp.Body.Close()

	var out providerResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return providerResponse{}, fmt.Errorf("decode provider response: %w", err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return out, nil
	}
	switch out.Code {
	case "EMAIL_EXISTS":
		return providerResponse{}, ErrEmailTaken
	case "TOKEN_EXPIRED":
		return providerResponse{}, ErrTokenExpired
	case "TOKEN_INVALID":
		return providerResponse{}, ErrTokenInvalid
	}
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusBadRequest {
		return providerResponse{}, ErrTokenInvalid
	}
	return providerResponse{}, fmt.Errorf("identity provider returned status %d: %s", resp.StatusCode, out.Message)
}
