// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	adminfeature "github.com/dalemusser/vocabhub/internal/app/features/admin"
	errorsfeature "github.com/dalemusser/vocabhub/internal/app/features/errors"
	healthfeature "github.com/dalemusser/vocabhub/internal/app/features/health"
	homefeature "github.com/dalemusser/vocabhub/internal/app/features/home"
	loginfeature "github.com/dalemusser/vocabhub/internal/app/features/login"
	logoutfeature "github.com/dalemusser/vocabhub/internal/app/features/logout"
	privacyfeature "github.com/dalemusser/vocabhub/internal/app/features/privacy"
	profilefeature "github.com/dalemusser/vocabhub/internal/app/features/profile"
	resultsfeature "github.com/dalemusser/vocabhub/internal/app/features/results"
	settingsfeature "github.com/dalemusser/vocabhub/internal/app/features/settings"
	shellfeature "github.com/dalemusser/vocabhub/internal/app/features/shell"
	statsfeature "github.com/dalemusser/vocabhub/internal/app/features/stats"
	termsfeature "github.com/dalemusser/vocabhub/internal/app/features/terms"
	testmodefeature "github.com/dalemusser/vocabhub/internal/app/features/testmode"
	auditstore "github.com/dalemusser/vocabhub/internal/app/store/audit"
	userstore "github.com/dalemusser/vocabhub/internal/app/store/users"
	vocabstore "github.com/dalemusser/vocabhub/internal/app/store/vocab"
	"github.com/dalemusser/vocabhub/internal/app/system/auditlog"
	"github.com/dalemusser/vocabhub/internal/app/system/auth"
	"github.com/dalemusser/vocabhub/internal/app/system/gate"
	"github.com/dalemusser/vocabhub/internal/app/system/mailer"
	"github.com/dalemusser/vocabhub/internal/app/system/ratelimit"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/securecookie"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// the Startup hook have completed. VocabHub wires the session layer, the
// bootstrap gate, the stores, the admin controller, and every feature's
// routes here, then hands the shell the render functions it dispatches to.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName,
		appCfg.SessionDomain, appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// Fresh user data on every request: role changes and disabled accounts
	// take effect immediately instead of at next sign-in.
	sessionMgr.SetUserFetcher(userstore.NewFetcher(deps.MongoDatabase))

	// Initialize and boot the template engine once at startup.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	// Signed cookies for the OAuth state and the post-login return target.
	codec := securecookie.New([]byte(appCfg.CookieHashKey), nil)

	errLog := errorsfeature.NewErrorLogger(logger)

	// Audit logging to Mongo and zap per the configured modes.
	auditLog := auditlog.New(auditstore.New(deps.MongoDatabase), logger, auditlog.Config{
		Auth:  appCfg.AuditLogAuth,
		Admin: appCfg.AuditLogAdmin,
	})

	// The gate watches the identity snapshots published during startup.
	// The stream replays the latest snapshot on subscribe, so attaching
	// after Startup still observes the current phase.
	bootGate := gate.New(gate.Options{
		WarnAfter: appCfg.BootstrapWarnAfter,
		Logger:    logger,
	})
	bootGate.Attach(deps.Identity.States())

	// Stores.
	users := userstore.New(deps.MongoDatabase)
	vocab := vocabstore.New(deps.MongoDatabase, logger)

	mail := mailer.New(mailer.Config{
		Host:     appCfg.MailSMTPHost,
		Port:     appCfg.MailSMTPPort,
		User:     appCfg.MailSMTPUser,
		Pass:     appCfg.MailSMTPPass,
		From:     appCfg.MailFrom,
		FromName: appCfg.MailFromName,
	}, logger)
	resets := userstore.NewResetStore(deps.MongoDatabase, &mailer.ResetSender{
		Mailer:   mail,
		BaseURL:  appCfg.BaseURL,
		SiteName: "VocabHub",
	})

	// Admin controller: guarded mutations over the managed user collection.
	ctrl := adminfeature.NewController(users, resets, vocab, auditLog, logger)

	r := chi.NewRouter()

	// Global auth middleware: loads SessionUser into context if logged in.
	r.Use(sessionMgr.LoadSessionUser)

	// Static assets with pre-compressed file support (gzip/brotli).
	r.Handle("/static/*", fileserver.Handler("/static", "public"))

	// Feature handlers.
	homeHandler := &homefeature.Handler{Vocab: vocab, ErrLog: errLog, Log: logger}
	statsHandler := &statsfeature.Handler{Vocab: vocab, Log: logger}
	profileHandler := &profilefeature.Handler{Users: users, ErrLog: errLog, Log: logger}
	settingsHandler := &settingsfeature.Handler{}
	termsHandler := &termsfeature.Handler{}
	privacyHandler := &privacyfeature.Handler{}
	testHandler := &testmodefeature.Handler{Vocab: vocab, Log: logger}
	resultsHandler := &resultsfeature.Handler{Vocab: vocab, Log: logger}
	adminHandler := adminfeature.NewHandler(ctrl, errLog, logger)

	// The shell owns view dispatch: every named view flows through the
	// gate and the access router before a feature renders.
	sh := shellfeature.NewHandler(bootGate, shellfeature.Surfaces{
		Main:     homeHandler.Serve,
		Stats:    statsHandler.Serve,
		Admin:    adminHandler.ServeList,
		Profile:  profileHandler.Serve,
		Settings: settingsHandler.Serve,
		Terms:    termsHandler.Serve,
		Privacy:  privacyHandler.Serve,
		Test:     testHandler.Serve,
		Results:  resultsHandler.Serve,
	}, codec, logger)
	shellfeature.Routes(r, sh)

	// Health check endpoint for load balancers and orchestrators.
	healthHandler := healthfeature.NewHandler(deps.MongoClient, bootGate, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Authentication. The OAuth endpoints sit behind a per-IP limiter.
	signInLimiter := ratelimit.NewSignInLimiter()
	loginHandler := loginfeature.NewHandler(users, sessionMgr, errLog, auditLog, sh, codec, signInLimiter,
		appCfg.GoogleClientID, appCfg.GoogleClientSecret, appCfg.BaseURL, logger)
	loginfeature.Routes(r, loginHandler, &loginfeature.ResetLanding{Resets: resets, Log: logger}, signInLimiter)

	logoutHandler := &logoutfeature.Handler{SessionMgr: sessionMgr, AuditLog: auditLog, Log: logger}
	logoutfeature.Routes(r, logoutHandler)

	// Word-list mutations (the list itself renders through the shell).
	homefeature.Routes(r, homeHandler, sessionMgr)

	// Test submission (the test page itself renders through the shell).
	testmodefeature.Routes(r, testHandler, sessionMgr)

	// Admin surface: list, guarded mutations, export/import, delete flow.
	r.Mount("/admin", adminfeature.Routes(adminHandler, sessionMgr))

	// Error pages.
	errorsHandler := errorsfeature.NewHandler()
	r.Get("/forbidden", errorsHandler.Forbidden)
	r.Get("/unauthorized", errorsHandler.Unauthorized)

	return r, nil
}
