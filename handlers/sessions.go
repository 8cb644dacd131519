package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"ecommerce-sessions/auth"
	"ecommerce-sessions/config"
	"ecommerce-sessions/models"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

const (
	msgEmailRequired     = "The email field is required"
	msgInvalidEmail      = "The email entered is not valid"
	msgPasswordRequired  = "The password field is required"
	msgWeakPassword      = "The password must have at least 8 characters, an uppercase letter, a lowercase letter, a number and a special character"
	msgInvalidResetToken = "A valid token has not been provided"
	msgNoUserForToken    = "No user was found associated with the provided token"
	msgPasswordReused    = "The new password cannot be the same as the previous one"
	msgInvalidUserID     = "Invalid user ID"
)

// UserService is the user storage the session handlers depend on
type UserService interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	UpdateUser(ctx context.Context, id int64, user models.User) error
	UpdateUserPassword(ctx context.Context, id int64, user models.User) error
}

// Mailer sends password reset emails
type Mailer interface {
	SendResetPasswordEmail(ctx context.Context, user *models.User, link string) error
}

// TokenService issues and verifies identity and reset tokens
type TokenService interface {
	GenerateToken(user models.SessionUser) (string, error)
	GenerateResetToken(email string) (string, error)
	ValidateResetToken(token string) (*auth.ResetClaims, error)
}

// SessionCookies writes and clears the session cookie
type SessionCookies interface {
	SetToken(w http.ResponseWriter, token string) error
	ClearToken(w http.ResponseWriter)
}

// GitHubFlow is the OAuth strategy that can also start the authorization redirect
type GitHubFlow interface {
	auth.Strategy
	Begin(w http.ResponseWriter) (string, error)
}

// Strategies groups the auth strategies behind the session routes.
// GitHub is nil when GitHub login is not configured.
type Strategies struct {
	Register auth.Strategy
	Login    auth.Strategy
	GitHub   GitHubFlow
}

// SessionsHandler serves the /api/sessions routes
type SessionsHandler struct {
	users      UserService
	mailer     Mailer
	tokens     TokenService
	cookies    SessionCookies
	sessions   SessionResolver
	strategies Strategies
	settings   config.SessionConfig

	newLogger       func(ctx context.Context) RequestLogger
	isValidPassword func(candidate string, user *models.User) bool
}

// NewSessionsHandler creates the sessions handler
func NewSessionsHandler(
	log *zap.Logger,
	users UserService,
	mailer Mailer,
	tokens TokenService,
	cookies SessionCookies,
	sessions SessionResolver,
	strategies Strategies,
	settings config.SessionConfig,
) *SessionsHandler {
	return &SessionsHandler{
		users:      users,
		mailer:     mailer,
		tokens:     tokens,
		cookies:    cookies,
		sessions:   sessions,
		strategies: strategies,
		settings:   settings,
		newLogger: func(ctx context.Context) RequestLogger {
			return newRouteLogger(ctx, log)
		},
		isValidPassword: auth.IsValidPassword,
	}
}

// Register creates an account through the register strategy
func (h *SessionsHandler) Register(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	h.withStrategy(h.strategies.Register, h.register)(ctx, w, r)
}

// Login verifies credentials and issues the session cookie
func (h *SessionsHandler) Login(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	h.withStrategy(h.strategies.Login, h.login)(ctx, w, r)
}

// GitHubCallback completes the GitHub OAuth flow and issues the session cookie
func (h *SessionsHandler) GitHubCallback(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	h.withStrategy(h.strategies.GitHub, h.githubCallback)(ctx, w, r)
}

// RestorePassword emails a password reset link
func (h *SessionsHandler) RestorePassword(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	h.withSession(h.restorePassword)(ctx, w, r)
}

// ResetPassword sets a new password from a reset token
func (h *SessionsHandler) ResetPassword(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	h.withSession(h.resetPassword)(ctx, w, r)
}

// ChangeUserRole toggles a user between the standard and premium roles
func (h *SessionsHandler) ChangeUserRole(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	h.authenticated(h.changeUserRole)(ctx, w, r)
}

// Current returns the session user
func (h *SessionsHandler) Current(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	h.authenticated(h.current)(ctx, w, r)
}

// Logout clears the session cookie
func (h *SessionsHandler) Logout(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	h.withSession(h.logout)(ctx, w, r)
}

func (h *SessionsHandler) register(ctx context.Context, s *Session, w http.ResponseWriter, r *http.Request) {
	s.Log.Info(fmt.Sprintf("User %s registered successfully", s.User.Email), zap.Int64("user_id", s.User.ID))
	sendSuccessMessage(w, "User registered successfully")
}

func (h *SessionsHandler) login(ctx context.Context, s *Session, w http.ResponseWriter, r *http.Request) {
	if err := h.issueToken(w, *s.User); err != nil {
		s.Log.Error("Failed to issue session token", zap.String("email", s.User.Email), zap.Error(err))
		sendServerError(w, err.Error())
		return
	}
	s.Log.Info(fmt.Sprintf("User session %s started successfully", s.User.Email))
	sendSuccessPayload(w, s.User)
}

func (h *SessionsHandler) githubCallback(ctx context.Context, s *Session, w http.ResponseWriter, r *http.Request) {
	if err := h.issueToken(w, *s.User); err != nil {
		s.Log.Error("Failed to issue session token", zap.String("email", s.User.Email), zap.Error(err))
		sendServerError(w, err.Error())
		return
	}
	s.Log.Info(fmt.Sprintf("User session %s started successfully with GitHub", s.User.Email))
	http.Redirect(w, r, h.settings.LoginRedirect, http.StatusFound)
}

func (h *SessionsHandler) restorePassword(ctx context.Context, s *Session, w http.ResponseWriter, r *http.Request) {
	var req models.RestorePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.Log.Warning(auth.ErrInvalidBody.Error())
		sendUserError(w, auth.ErrInvalidBody.Error())
		return
	}
	if req.Email == "" {
		s.Log.Warning(msgEmailRequired)
		sendUserError(w, msgEmailRequired)
		return
	}
	if !auth.IsValidEmail(req.Email) {
		s.Log.Warning(msgInvalidEmail)
		sendUserError(w, msgInvalidEmail)
		return
	}

	fail := func(err error) {
		s.Log.Error(fmt.Sprintf("Error restoring password for user %s", req.Email), zap.Error(err))
		sendServerError(w, err.Error())
	}

	user, err := h.users.GetUserByEmail(ctx, req.Email)
	if err != nil {
		fail(err)
		return
	}
	if user == nil {
		msg := fmt.Sprintf("There is no user registered with the email %s", req.Email)
		s.Log.Warning(msg)
		sendUserError(w, msg)
		return
	}

	token, err := h.tokens.GenerateResetToken(user.Email)
	if err != nil {
		fail(err)
		return
	}
	link := h.settings.ResetPasswordURL + "?token=" + url.QueryEscape(token)
	if err := h.mailer.SendResetPasswordEmail(ctx, user, link); err != nil {
		fail(err)
		return
	}

	s.Log.Info(fmt.Sprintf("Email sent successfully to %s with the instructions to restore password", user.Email))
	sendSuccessMessage(w, fmt.Sprintf("An email has been sent to %s with the instructions to restore your password", user.Email))
}

func (h *SessionsHandler) resetPassword(ctx context.Context, s *Session, w http.ResponseWriter, r *http.Request) {
	var req models.ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.Log.Warning(auth.ErrInvalidBody.Error())
		sendUserError(w, auth.ErrInvalidBody.Error())
		return
	}
	if req.Password == "" {
		s.Log.Warning(msgPasswordRequired)
		sendUserError(w, msgPasswordRequired)
		return
	}
	if !auth.IsStrongPassword(req.Password) {
		s.Log.Warning(msgWeakPassword)
		sendUserError(w, msgWeakPassword)
		return
	}
	if auth.IsPasswordTooLong(req.Password) {
		s.Log.Warning(auth.ErrPasswordTooLong.Error())
		sendUserError(w, auth.ErrPasswordTooLong.Error())
		return
	}

	claims, err := h.tokens.ValidateResetToken(req.Token)
	if err != nil {
		s.Log.Warning(msgInvalidResetToken, zap.Error(err))
		sendUserError(w, msgInvalidResetToken)
		return
	}

	fail := func(err error) {
		s.Log.Error(fmt.Sprintf("Error resetting password for user %s", claims.Email), zap.Error(err))
		sendServerError(w, err.Error())
	}

	user, err := h.users.GetUserByEmail(ctx, claims.Email)
	if err != nil {
		fail(err)
		return
	}
	if user == nil {
		s.Log.Warning(msgNoUserForToken, zap.String("email", claims.Email))
		sendUserError(w, msgNoUserForToken)
		return
	}
	if h.isValidPassword(req.Password, user) {
		s.Log.Warning(msgPasswordReused, zap.String("email", user.Email))
		sendUserError(w, msgPasswordReused)
		return
	}

	if err := h.users.UpdateUserPassword(ctx, user.ID, user.WithPassword(req.Password)); err != nil {
		fail(err)
		return
	}

	s.Log.Info(fmt.Sprintf("Password of user %s reset successfully", user.Email))
	sendSuccessMessage(w, "Password reset successfully")
}

func (h *SessionsHandler) changeUserRole(ctx context.Context, s *Session, w http.ResponseWriter, r *http.Request) {
	uid := mux.Vars(r)["uid"]
	id, err := strconv.ParseInt(uid, 10, 64)
	if err != nil {
		s.Log.Warning(msgInvalidUserID, zap.String("uid", uid))
		sendUserError(w, msgInvalidUserID)
		return
	}

	fail := func(err error) {
		s.Log.Error(fmt.Sprintf("Error changing role of user %d", id), zap.Error(err))
		sendServerError(w, err.Error())
	}

	user, err := h.users.GetUserByID(ctx, id)
	if err != nil {
		fail(err)
		return
	}
	if user == nil {
		msg := fmt.Sprintf("There is no user with id %d", id)
		s.Log.Warning(msg)
		sendUserError(w, msg)
		return
	}

	updated := user.WithRole(user.Role.Toggle())
	if err := h.users.UpdateUser(ctx, id, updated); err != nil {
		fail(err)
		return
	}

	sessionUser := updated.WithoutPassword()
	s.User = &sessionUser
	if err := h.issueToken(w, sessionUser); err != nil {
		fail(err)
		return
	}

	msg := fmt.Sprintf("Role of user %s changed successfully to %s", updated.Email, updated.Role)
	s.Log.Info(msg)
	sendSuccessMessage(w, msg)
}

func (h *SessionsHandler) current(ctx context.Context, s *Session, w http.ResponseWriter, r *http.Request) {
	sendSuccessPayload(w, s.User)
}

func (h *SessionsHandler) logout(ctx context.Context, s *Session, w http.ResponseWriter, r *http.Request) {
	h.cookies.ClearToken(w)
	if s.User != nil {
		s.Log.Info(fmt.Sprintf("User session %s closed successfully", s.User.Email))
	} else {
		s.Log.Info("Session closed without an active user")
	}
	sendSuccessMessage(w, "Session closed successfully")
}

func (h *SessionsHandler) issueToken(w http.ResponseWriter, user models.SessionUser) error {
	token, err := h.tokens.GenerateToken(user)
	if err != nil {
		return err
	}
	return h.cookies.SetToken(w, token)
}
