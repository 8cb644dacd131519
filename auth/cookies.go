package auth

import (
	"errors"
	"net/http"

	"github.com/gorilla/securecookie"
)

const (
	// TokenCookieName is the session cookie holding the identity token
	TokenCookieName = "token"
	stateCookieName = "oauth_state"
	stateCookieAge  = 300
)

// ErrNoCookie is returned when the requested cookie is absent
var ErrNoCookie = errors.New("cookie not present")

// CookieJar writes http-only cookies whose values are HMAC-signed
type CookieJar struct {
	codec  *securecookie.SecureCookie
	maxAge int
	secure bool
}

// NewCookieJar creates a jar signing with hashKey. maxAge is in seconds.
func NewCookieJar(hashKey string, maxAge int, secure bool) *CookieJar {
	codec := securecookie.New([]byte(hashKey), nil)
	codec.MaxAge(maxAge)
	return &CookieJar{
		codec:  codec,
		maxAge: maxAge,
		secure: secure,
	}
}

// SetToken stores the identity token in the session cookie
func (j *CookieJar) SetToken(w http.ResponseWriter, token string) error {
	return j.set(w, TokenCookieName, token, j.maxAge)
}

// Token returns the verified identity token from the request, if any
func (j *CookieJar) Token(r *http.Request) (string, error) {
	return j.get(r, TokenCookieName)
}

// ClearToken expires the session cookie
func (j *CookieJar) ClearToken(w http.ResponseWriter) {
	j.clear(w, TokenCookieName)
}

func (j *CookieJar) set(w http.ResponseWriter, name, value string, maxAge int) error {
	encoded, err := j.codec.Encode(name, value)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    encoded,
		Path:     "/",
		HttpOnly: true,
		Secure:   j.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
	})
	return nil
}

func (j *CookieJar) get(r *http.Request, name string) (string, error) {
	cookie, err := r.Cookie(name)
	if err != nil || cookie.Value == "" {
		return "", ErrNoCookie
	}
	var value string
	if err := j.codec.Decode(name, cookie.Value, &value); err != nil {
		return "", err
	}
	return value, nil
}

func (j *CookieJar) clear(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   j.secure,
		MaxAge:   -1,
	})
}
