package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig handles framework-level settings (HTTP ports, TLS,
// logging level, request limits). AppConfig is everything specific to
// CourseHub: the Mongo connection, session cookies, upload storage, and
// the optional Google sign-in client.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string
	MongoDatabase    string
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Session management configuration
	SessionKey    string        // Secret key for signing session cookies (must be strong in production)
	SessionName   string        // Cookie name for sessions
	SessionDomain string        // Cookie domain (blank means current host)
	SessionMaxAge time.Duration // Session lifetime

	// CSRF protection
	CSRFKey string // 32-byte key for gorilla/csrf token signing

	// Course image uploads
	UploadDir      string // Directory where uploaded images are written
	UploadURL      string // URL prefix the images are served under
	UploadMaxBytes int64  // Per-request multipart memory/size cap

	// Base URL for absolute links (OAuth callbacks)
	BaseURL string // e.g., "https://coursehub.example.com" or "http://localhost:3000"

	// Google OAuth (sign-in is hidden when either value is blank)
	GoogleClientID     string
	GoogleClientSecret string
}
