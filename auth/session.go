package auth

import (
	"net/http"

	"ecommerce-sessions/models"

	"github.com/umakantv/go-utils/httpserver"
)

// AuthTypeCookie marks routes that require a valid session cookie
const AuthTypeCookie = "cookie"

const sessionClaimKey = "user"

// SessionAuthenticator resolves the session user from the signed token cookie
type SessionAuthenticator struct {
	tokens  *Tokens
	cookies *CookieJar
}

// NewSessionAuthenticator creates the cookie session authenticator
func NewSessionAuthenticator(tokens *Tokens, cookies *CookieJar) *SessionAuthenticator {
	return &SessionAuthenticator{
		tokens:  tokens,
		cookies: cookies,
	}
}

// Resolve returns the user carried by a valid session cookie
func (a *SessionAuthenticator) Resolve(r *http.Request) (*models.SessionUser, bool) {
	token, err := a.cookies.Token(r)
	if err != nil {
		return nil, false
	}
	claims, err := a.tokens.ValidateToken(token)
	if err != nil {
		return nil, false
	}
	user := claims.User
	return &user, true
}

// CheckAuth implements the httpserver auth callback for cookie routes
func (a *SessionAuthenticator) CheckAuth(r *http.Request) (bool, httpserver.RequestAuth) {
	user, ok := a.Resolve(r)
	if !ok {
		return false, httpserver.RequestAuth{}
	}
	return true, httpserver.RequestAuth{
		Type:   AuthTypeCookie,
		Client: user.Email,
		Claims: map[string]interface{}{sessionClaimKey: *user},
	}
}

// SessionUserFromAuth returns the user CheckAuth stored in the request auth claims
func SessionUserFromAuth(ra *httpserver.RequestAuth) (*models.SessionUser, bool) {
	if ra == nil || ra.Type != AuthTypeCookie {
		return nil, false
	}
	claims, ok := ra.Claims.(map[string]interface{})
	if !ok {
		return nil, false
	}
	user, ok := claims[sessionClaimKey].(models.SessionUser)
	if !ok {
		return nil, false
	}
	return &user, true
}
