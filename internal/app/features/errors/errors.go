// Package errors renders friendly error pages and pairs every user-facing
// failure with a server-side log line.
package errors

import (
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/raiamitrai/coursehub/internal/app/system/authz"
	"go.uber.org/zap"
)

// pageData is the view model for error pages.
type pageData struct {
	Title      string
	IsLoggedIn bool
	UserName   string
	Message    string
	BackURL    string
}

// ErrorLogger logs handler failures and renders the error page. Handlers
// hold one of these instead of a bare zap logger so the log line and the
// user-visible outcome can never drift apart.
type ErrorLogger struct {
	Log *zap.Logger
}

// NewErrorLogger constructs an ErrorLogger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{Log: logger}
}

// LogServerError logs an unexpected failure (DB, filesystem) and renders a
// 500 error page with userMsg and a back link.
func (e *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, logMsg string, err error, userMsg, backURL string) {
	e.Log.Error(logMsg,
		zap.Error(err),
		zap.String("path", r.URL.Path),
		zap.String("method", r.Method))
	renderPage(w, r, http.StatusInternalServerError, "Something went wrong", userMsg, backURL)
}

// LogBadRequest logs a malformed request and renders a 400 error page.
func (e *ErrorLogger) LogBadRequest(w http.ResponseWriter, r *http.Request, logMsg string, err error, userMsg, backURL string) {
	e.Log.Warn(logMsg,
		zap.Error(err),
		zap.String("path", r.URL.Path),
		zap.String("method", r.Method))
	renderPage(w, r, http.StatusBadRequest, "Invalid request", userMsg, backURL)
}

func renderPage(w http.ResponseWriter, r *http.Request, status int, title, msg, backURL string) {
	uname, _, signedIn := authz.UserCtx(r)
	if backURL == "" {
		backURL = "/"
	}
	w.WriteHeader(status)
	templates.Render(w, r, "error_page", pageData{
		Title:      title,
		IsLoggedIn: signedIn,
		UserName:   uname,
		Message:    msg,
		BackURL:    backURL,
	})
}
