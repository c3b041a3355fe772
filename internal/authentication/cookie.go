package authentication

import (
	"net/http"
	"time"
)

// RefreshCookieName names the cookie carrying the refresh token.
const RefreshCookieName = "refreshToken"

// CookiePolicy decides the attributes of the refresh cookie. Outside local
// development the cookie is Secure and SameSite=None so that a front end on
// another origin can send it; locally it is SameSite=Lax over plain HTTP.
type CookiePolicy struct {
	Name     string
	Secure   bool
	SameSite http.SameSite
}

func NewCookiePolicy(development bool) CookiePolicy {
	if development {
		return CookiePolicy{Name: RefreshCookieName, Secure: false, SameSite: http.SameSiteLaxMode}
	}
	return CookiePolicy{Name: RefreshCookieName, Secure: true, SameSite: http.SameSiteNoneMode}
}

// Set writes the refresh cookie; it expires together with the token row.
func (p CookiePolicy) Set(w http.ResponseWriter, value string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     p.Name,
		Value:    value,
		Path:     "/",
		Expires:  expires.UTC(),
		HttpOnly: true,
		Secure:   p.Secure,
		SameSite: p.SameSite,
	})
}

// Clear instructs the client to drop the refresh cookie.
func (p CookiePolicy) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     p.Name,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   p.Secure,
		SameSite: p.SameSite,
	})
}

// Read returns the raw refresh cookie value or "" when absent. The value is
// read without unescaping because base64 contains '+'.
func (p CookiePolicy) Read(r *http.Request) string {
	cookie, err := r.Cookie(p.Name)
	if err != nil {
		return ""
	}
	return cookie.Value
}
