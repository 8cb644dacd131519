package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"ecommerce-sessions/config"
	"ecommerce-sessions/models"

	"github.com/google/uuid"
	"github.com/samber/oops"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
)

const githubAPI = "https://api.github.com"

type githubProfile struct {
	Login string `json:"login"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type githubEmail struct {
	Email    string `json:"email"`
	Primary  bool   `json:"primary"`
	Verified bool   `json:"verified"`
}

// GitHubStrategy signs users in through GitHub OAuth, creating an account on first login
type GitHubStrategy struct {
	oauth   *oauth2.Config
	users   UserStore
	cookies *CookieJar
	apiBase string
}

// NewGitHubStrategy creates the GitHub strategy from the OAuth app settings
func NewGitHubStrategy(cfg config.GitHubConfig, users UserStore, cookies *CookieJar) *GitHubStrategy {
	return &GitHubStrategy{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.CallbackURL,
			Endpoint:     github.Endpoint,
			Scopes:       []string{"user:email"},
		},
		users:   users,
		cookies: cookies,
		apiBase: githubAPI,
	}
}

// Begin stores a fresh state in a signed cookie and returns the GitHub authorize URL
func (s *GitHubStrategy) Begin(w http.ResponseWriter) (string, error) {
	state := uuid.New().String()
	if err := s.cookies.set(w, stateCookieName, state, stateCookieAge); err != nil {
		return "", err
	}
	return s.oauth.AuthCodeURL(state), nil
}

// Authenticate completes the OAuth callback and returns the matching local user
func (s *GitHubStrategy) Authenticate(ctx context.Context, w http.ResponseWriter, r *http.Request) (*models.User, error) {
	query := r.URL.Query()
	state, err := s.cookies.get(r, stateCookieName)
	if err != nil || state == "" || state != query.Get("state") {
		return nil, ErrInvalidState
	}
	s.cookies.clear(w, stateCookieName)

	code := query.Get("code")
	if code == "" {
		return nil, ErrMissingCode
	}

	token, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, oops.Code("GITHUB_EXCHANGE_FAILED").Wrap(err)
	}
	client := s.oauth.Client(ctx, token)

	profile, err := s.fetchProfile(ctx, client)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetUserByEmail(ctx, profile.Email)
	if err != nil {
		return nil, oops.Code("GITHUB_LOGIN_FAILED").With("email", profile.Email).Wrap(err)
	}
	if user != nil {
		return user, nil
	}

	name := profile.Name
	if name == "" {
		name = profile.Login
	}
	// GitHub accounts get an unguessable password; they sign in through GitHub or reset it by mail.
	user, err = s.users.CreateUser(ctx, models.User{
		FirstName: name,
		Email:     profile.Email,
		Password:  uuid.New().String(),
		Role:      models.RoleUser,
	})
	if err != nil {
		return nil, oops.Code("GITHUB_LOGIN_FAILED").With("email", profile.Email).Wrap(err)
	}
	return user, nil
}

func (s *GitHubStrategy) fetchProfile(ctx context.Context, client *http.Client) (*githubProfile, error) {
	var profile githubProfile
	if err := s.getJSON(ctx, client, "/user", &profile); err != nil {
		return nil, oops.Code("GITHUB_PROFILE_FAILED").Wrap(err)
	}
	if profile.Email != "" {
		return &profile, nil
	}

	// private emails are only listed by /user/emails
	var emails []githubEmail
	if err := s.getJSON(ctx, client, "/user/emails", &emails); err != nil {
		return nil, oops.Code("GITHUB_PROFILE_FAILED").Wrap(err)
	}
	for _, e := range emails {
		if e.Primary && e.Verified {
			profile.Email = e.Email
			return &profile, nil
		}
	}
	return nil, ErrNoVerifiedEmail
}

func (s *GitHubStrategy) getJSON(ctx context.Context, client *http.Client, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.apiBase+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("github %s returned %d", path, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
