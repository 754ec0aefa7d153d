// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig handles framework-level settings (ports, TLS,
// logging level, request limits). AppConfig is everything specific to
// VocabHub: the Mongo connection, sessions, OAuth credentials, audit
// modes, and bootstrap behavior.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Session management configuration
	SessionKey    string        // Secret key for signing session cookies (must be strong in production)
	SessionName   string        // Cookie name for sessions (default: vocabhub-session)
	SessionDomain string        // Cookie domain (blank means current host)
	SessionMaxAge time.Duration // Session lifetime

	// Cookie signing key for non-session cookies (OAuth state, return target)
	CookieHashKey string

	// Google OAuth configuration
	GoogleClientID     string
	GoogleClientSecret string

	// Base URL for OAuth callbacks and links in email
	BaseURL string // e.g., "https://vocabhub.app" or "http://localhost:3000"

	// Bootstrap behavior
	BootstrapWarnAfter time.Duration // Advisory budget for reaching Ready

	// Audit logging settings: "all", "db", "log", or "off"
	AuditLogAuth  string
	AuditLogAdmin string

	// AuditRetention is how long audit events are kept before pruning.
	AuditRetention time.Duration

	// Email/SMTP configuration for password-reset mail
	MailSMTPHost string
	MailSMTPPort int
	MailSMTPUser string
	MailSMTPPass string
	MailFrom     string
	MailFromName string

	// AdminEmail, when set, is promoted to the admin role on startup.
	AdminEmail string
}
