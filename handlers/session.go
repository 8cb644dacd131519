package handlers

import (
	"context"
	"net/http"

	"ecommerce-sessions/auth"
	"ecommerce-sessions/models"

	"github.com/umakantv/go-utils/httpserver"
	"go.uber.org/zap"
)

// Session is the per-request state handed to session handlers.
// User is nil on public routes without a valid cookie.
type Session struct {
	User *models.SessionUser
	Log  RequestLogger
}

// SessionHandlerFunc handles a request with an explicit session
type SessionHandlerFunc func(ctx context.Context, s *Session, w http.ResponseWriter, r *http.Request)

// RouteHandler is the handler shape registered with httpserver
type RouteHandler func(ctx context.Context, w http.ResponseWriter, r *http.Request)

// SessionResolver reads the session user from the request cookie
type SessionResolver interface {
	Resolve(r *http.Request) (*models.SessionUser, bool)
}

// withSession builds a session for public routes; the user is attached when the cookie is valid
func (h *SessionsHandler) withSession(fn SessionHandlerFunc) RouteHandler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) {
		s := &Session{Log: h.newLogger(ctx)}
		if user, ok := h.sessions.Resolve(r); ok {
			s.User = user
		}
		fn(ctx, s, w, r)
	}
}

// authenticated hands over the user that httpserver's CheckAuth stored for cookie routes.
// A route registered without cookie auth has no such user and is refused.
func (h *SessionsHandler) authenticated(fn SessionHandlerFunc) RouteHandler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) {
		log := h.newLogger(ctx)
		user, ok := auth.SessionUserFromAuth(httpserver.GetRequestAuth(ctx))
		if !ok {
			log.Error("Session user missing from request auth")
			sendUnauthorized(w, "Authentication required")
			return
		}
		fn(ctx, &Session{User: user, Log: log}, w, r)
	}
}

// withStrategy runs an auth strategy and attaches the resulting user to the session
func (h *SessionsHandler) withStrategy(strategy auth.Strategy, fn SessionHandlerFunc) RouteHandler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) {
		s := &Session{Log: h.newLogger(ctx)}
		user, err := strategy.Authenticate(ctx, w, r)
		if err != nil {
			switch {
			case auth.IsUnauthorized(err):
				s.Log.Warning(err.Error())
				sendUnauthorized(w, err.Error())
			case auth.IsUserError(err):
				s.Log.Warning(err.Error())
				sendUserError(w, err.Error())
			default:
				s.Log.Error("Authentication failed", zap.Error(err))
				sendServerError(w, err.Error())
			}
			return
		}
		sessionUser := user.WithoutPassword()
		s.User = &sessionUser
		fn(ctx, s, w, r)
	}
}
