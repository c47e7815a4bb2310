// Package botcheck validates client-supplied CAPTCHA challenge tokens against
// the external verification endpoint before a login may proceed.
package botcheck

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Verifier reports whether a challenge token passes the bot check.
type Verifier interface {
	Verify(ctx context.Context, token string) (bool, error)
}

// HTTPVerifier posts tokens to a reCAPTCHA-style siteverify endpoint.
type HTTPVerifier struct {
	secret    string
	verifyURL string
	http      *http.Client
}

// New builds a verifier for the given siteverify endpoint.
func New(secret, verifyURL string) *HTTPVerifier {
	return &HTTPVerifier{
		secret:    secret,
		verifyURL: verifyURL,
		http:      &http.Client{Timeout: 10 * time.Second},
	}
}

// Verify posts the challenge token and returns the endpoint's success verdict.
// An empty token is rejected without a network call.
func (v *HTTPVerifier) Verify(ctx context.Context, token string) (bool, error) {
	if strings.TrimSpace(token) == "" {
		return false, nil
	}

	form := url.Values{
		"secret":   {v.secret},
		"response": {token},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.verifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		return false, fmt.Errorf("build siteverify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.http.Do(req)
	if err != nil {
		return false, fmt.Errorf("call siteverify: %w", err)
	}
	defer resp.Body.Close()

	var out struct {
		Success bool `json:"success"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return false, fmt.Errorf("decode siteverify response: %w", err)
	}
	return out.Success, nil
}
