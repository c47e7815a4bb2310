package auth

import (
	"net/http"
	"time"
)

// Cookie names the SPA expects.
const (
	AccessCookieName  = "accessToken"
	RefreshCookieName = "refreshToken"
)

// SetSessionCookies attaches both session tokens as HTTP-only, same-site-strict
// cookies. Secure is set in production so the cookies only travel over TLS.
func SetSessionCookies(w http.ResponseWriter, pair Pair, accessTTL, refreshTTL time.Duration, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     AccessCookieName,
		Value:    pair.AccessToken,
		Path:     "/",
		MaxAge:   int(accessTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		Secure:   secure,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshCookieName,
		Value:    pair.RefreshToken,
		Path:     "/",
		MaxAge:   int(refreshTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		Secure:   secure,
	})
}

// ClearSessionCookies overwrites both cookies with empty, already-expired
// values so the client drops them. There is no server-side revocation list;
// tokens simply age out.
func ClearSessionCookies(w http.ResponseWriter, secure bool) {
	for _, name := range []string{AccessCookieName, RefreshCookieName} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			Expires:  time.Unix(0, 0),
			MaxAge:   -1,
			HttpOnly: true,
			SameSite: http.SameSiteStrictMode,
			Secure:   secure,
		})
	}
}
