package handlers

import (
	"context"
	"net/http"

	"go.uber.org/zap"
)

// GitHubLogin redirects the browser to GitHub's authorize page
func (h *SessionsHandler) GitHubLogin(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	h.withSession(h.githubLogin)(ctx, w, r)
}

func (h *SessionsHandler) githubLogin(ctx context.Context, s *Session, w http.ResponseWriter, r *http.Request) {
	authorizeURL, err := h.strategies.GitHub.Begin(w)
	if err != nil {
		s.Log.Error("Failed to start GitHub login", zap.Error(err))
		sendServerError(w, err.Error())
		return
	}
	s.Log.Info("Redirecting to GitHub")
	http.Redirect(w, r, authorizeURL, http.StatusFound)
}
