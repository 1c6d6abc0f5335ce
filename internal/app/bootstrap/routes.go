package bootstrap

import (
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/csrf"
	"go.uber.org/zap"

	authgooglefeature "github.com/raiamitrai/coursehub/internal/app/features/authgoogle"
	coursesfeature "github.com/raiamitrai/coursehub/internal/app/features/courses"
	dashboardfeature "github.com/raiamitrai/coursehub/internal/app/features/dashboard"
	errorsfeature "github.com/raiamitrai/coursehub/internal/app/features/errors"
	healthfeature "github.com/raiamitrai/coursehub/internal/app/features/health"
	homefeature "github.com/raiamitrai/coursehub/internal/app/features/home"
	loginfeature "github.com/raiamitrai/coursehub/internal/app/features/login"
	logoutfeature "github.com/raiamitrai/coursehub/internal/app/features/logout"
	registerfeature "github.com/raiamitrai/coursehub/internal/app/features/register"
	coursestore "github.com/raiamitrai/coursehub/internal/app/store/courses"
	userstore "github.com/raiamitrai/coursehub/internal/app/store/users"
	"github.com/raiamitrai/coursehub/internal/app/system/auth"
	"github.com/raiamitrai/coursehub/internal/app/system/uploads"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// the Startup hook have completed. CourseHub initializes the template
// engine, applies session and CSRF middleware, and mounts feature routers
// for the catalog, authentication, and the dashboard.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// Fetch fresh user data on each request so deleted accounts take
	// effect immediately instead of at cookie expiry.
	sessionMgr.SetUserFetcher(userstore.NewFetcher(deps.MongoDatabase))

	// Initialize and boot the template engine once at startup.
	// Dev mode enables template reloading for faster iteration.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	errLog := errorsfeature.NewErrorLogger(logger)
	uploadStore := uploads.New(appCfg.UploadDir, appCfg.UploadURL, appCfg.UploadMaxBytes)

	r := chi.NewRouter()

	// Global auth middleware: loads SessionUser into context if logged in.
	r.Use(sessionMgr.LoadSessionUser)

	// CSRF protection for every form post.
	r.Use(csrf.Protect([]byte(appCfg.CSRFKey),
		csrf.Secure(secure),
		csrf.Path("/"),
	))

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Static assets and uploaded course images
	r.Handle("/static/*", fileserver.Handler("/static", "public"))
	r.Handle(appCfg.UploadURL+"/*", fileserver.Handler(appCfg.UploadURL, appCfg.UploadDir))

	// Public pages
	homeHandler := homefeature.NewHandler(logger)
	r.Mount("/", homefeature.Routes(homeHandler))

	// Course catalog
	coursesHandler := coursesfeature.NewHandler(deps.MongoDatabase, uploadStore, errLog, logger)
	r.Mount("/courses", coursesfeature.Routes(coursesHandler, sessionMgr))

	// Authentication
	googleEnabled := appCfg.GoogleClientID != "" && appCfg.GoogleClientSecret != ""

	loginHandler := loginfeature.NewHandler(deps.MongoDatabase, sessionMgr, errLog, logger, googleEnabled)
	r.Mount("/users/login", loginfeature.Routes(loginHandler))

	registerHandler := registerfeature.NewHandler(deps.MongoDatabase, errLog, logger)
	r.Mount("/users/register", registerfeature.Routes(registerHandler))

	logoutHandler := logoutfeature.NewHandler(sessionMgr, errLog, logger)
	r.Mount("/users/logout", logoutfeature.Routes(logoutHandler))

	if googleHandler := authgooglefeature.NewHandler(deps.MongoDatabase, sessionMgr, errLog, logger,
		appCfg.GoogleClientID, appCfg.GoogleClientSecret, appCfg.BaseURL); googleHandler != nil {
		r.Mount("/auth/google", authgooglefeature.Routes(googleHandler))
	}

	// Signed-in user's dashboard
	dashboardHandler := dashboardfeature.NewHandler(
		userstore.New(deps.MongoDatabase),
		coursestore.New(deps.MongoDatabase),
		errLog, logger)
	r.Mount("/dashboard", dashboardfeature.Routes(dashboardHandler, sessionMgr))

	return r, nil
}
