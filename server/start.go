package server

import (
	"context"
	"net/http"
	"os"

	"ecommerce-sessions/auth"
	cachepackage "ecommerce-sessions/cache"
	"ecommerce-sessions/config"
	"ecommerce-sessions/database"
	"ecommerce-sessions/docs"
	"ecommerce-sessions/handlers"
	"ecommerce-sessions/mailing"
	"ecommerce-sessions/services"

	"github.com/umakantv/go-utils/httpserver"
	"github.com/umakantv/go-utils/logger"
	"go.uber.org/zap"
)

type route struct {
	httpserver.Route
	handler handlers.RouteHandler
}

// newRequestLogger builds the zap logger used for per-request entries
func newRequestLogger() (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.CallerKey = "file"
	cfg.EncoderConfig.TimeKey = "timestamp"
	return cfg.Build(zap.AddCallerSkip(2))
}

// sessionRoutes lists the /api/sessions routes; GitHub routes only when GitHub login is configured
func sessionRoutes(h *handlers.SessionsHandler, githubEnabled bool) []route {
	routes := []route{
		{httpserver.Route{Name: "Register", Method: "POST", Path: "/api/sessions/register", AuthType: "none"}, h.Register},
		{httpserver.Route{Name: "Login", Method: "POST", Path: "/api/sessions/login", AuthType: "none"}, h.Login},
		{httpserver.Route{Name: "RestorePassword", Method: "POST", Path: "/api/sessions/restore-password", AuthType: "none"}, h.RestorePassword},
		{httpserver.Route{Name: "ResetPassword", Method: "POST", Path: "/api/sessions/reset-password", AuthType: "none"}, h.ResetPassword},
		{httpserver.Route{Name: "ChangeUserRole", Method: "PUT", Path: "/api/sessions/premium/{uid}", AuthType: auth.AuthTypeCookie}, h.ChangeUserRole},
		{httpserver.Route{Name: "CurrentSession", Method: "GET", Path: "/api/sessions/current", AuthType: auth.AuthTypeCookie}, h.Current},
		{httpserver.Route{Name: "Logout", Method: "POST", Path: "/api/sessions/logout", AuthType: "none"}, h.Logout},
	}
	if githubEnabled {
		routes = append(routes,
			route{httpserver.Route{Name: "GitHubLogin", Method: "GET", Path: "/api/sessions/github", AuthType: "none"}, h.GitHubLogin},
			route{httpserver.Route{Name: "GitHubCallback", Method: "GET", Path: "/api/sessions/github-callback", AuthType: "none"}, h.GitHubCallback},
		)
	}
	return routes
}

func StartServer(cfg *config.Config) {
	// Initialize logger
	logger.Init(logger.LoggerConfig{
		CallerKey:  "file",
		TimeKey:    "timestamp",
		CallerSkip: 1,
	})

	logger.Info("Starting ecommerce session service...")

	requestLog, err := newRequestLogger()
	if err != nil {
		logger.Error("Failed to build request logger", zap.Error(err))
		os.Exit(1)
	}
	defer requestLog.Sync()

	// Initialize database
	dbConn := database.InitializeDatabase(cfg.DatabasePath, cfg.MigrationsDir)
	defer dbConn.Close()

	// Initialize cache
	cache := cachepackage.InitializeCache(cfg.Redis)
	defer cache.Close()

	mailer, err := mailing.New(cfg.SMTP)
	if err != nil {
		logger.Error("Failed to configure mailer", zap.Error(err))
		os.Exit(1)
	}

	apiDocs, err := docs.NewHandler(context.Background())
	if err != nil {
		logger.Error("Failed to load API docs", zap.Error(err))
		os.Exit(1)
	}

	users := services.NewUserService(dbConn, cache)
	tokens := auth.NewTokens(cfg.Session.JWTSecret, cfg.Session.TokenTTL, cfg.Session.ResetTokenTTL)
	cookies := auth.NewCookieJar(cfg.Session.CookieHashKey, cfg.Session.CookieMaxAge, cfg.Session.CookieSecure)
	authenticator := auth.NewSessionAuthenticator(tokens, cookies)

	strategies := handlers.Strategies{
		Register: auth.NewRegisterStrategy(users),
		Login:    auth.NewLoginStrategy(users),
	}
	if cfg.GitHub.Enabled() {
		strategies.GitHub = auth.NewGitHubStrategy(cfg.GitHub, users, cookies)
	} else {
		logger.Info("GitHub login disabled: client id/secret not configured")
	}

	sessions := handlers.NewSessionsHandler(requestLog, users, mailer, tokens, cookies, authenticator, strategies, cfg.Session)

	// Create HTTP server with cookie session authentication
	server := httpserver.New(cfg.Port, authenticator.CheckAuth)

	server.Register(httpserver.Route{
		Name:     "HealthCheck",
		Method:   "GET",
		Path:     "/health",
		AuthType: "none",
	}, httpserver.HandlerFunc(func(ctx context.Context, w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy", "service": "ecommerce-sessions"}`))
	}))

	server.Register(httpserver.Route{
		Name:     "APIDocs",
		Method:   "GET",
		Path:     "/apidocs",
		AuthType: "none",
	}, httpserver.HandlerFunc(apiDocs.ServeJSON))

	server.Register(httpserver.Route{
		Name:     "APIDocsYAML",
		Method:   "GET",
		Path:     "/apidocs/openapi.yaml",
		AuthType: "none",
	}, httpserver.HandlerFunc(apiDocs.ServeYAML))

	for _, rt := range sessionRoutes(sessions, cfg.GitHub.Enabled()) {
		server.Register(rt.Route, httpserver.HandlerFunc(rt.handler))
	}

	logger.Info("Session service started on port " + cfg.Port)
	logger.Info("Health check: GET /health")
	logger.Info("API docs: GET /apidocs")
	logger.Info("API endpoints: /api/sessions/*")

	// Start server
	if err := server.Start(); err != nil {
		logger.Error("Server failed to start", zap.Error(err))
		os.Exit(1)
	}
}
