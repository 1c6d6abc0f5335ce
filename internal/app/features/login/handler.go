package login

import (
	"context"
	"net/http"
	"strings"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/dalemusser/waffle/pantry/urlutil"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	uierrors "github.com/raiamitrai/coursehub/internal/app/features/errors"
	loginstore "github.com/raiamitrai/coursehub/internal/app/store/logins"
	userstore "github.com/raiamitrai/coursehub/internal/app/store/users"
	"github.com/raiamitrai/coursehub/internal/app/system/auth"
	"github.com/raiamitrai/coursehub/internal/app/system/formutil"
	"github.com/raiamitrai/coursehub/internal/app/system/htmlsanitize"
	"github.com/raiamitrai/coursehub/internal/app/system/inputval"
	"github.com/raiamitrai/coursehub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
)

// failedLoginMsg is deliberately identical for unknown users and wrong
// passwords so the form does not leak which usernames exist.
const failedLoginMsg = "Invalid username or password."

// Handler serves the username/password sign-in flow.
type Handler struct {
	Users    *userstore.Store
	Logins   *loginstore.Store
	Sessions *auth.SessionManager
	ErrLog   *uierrors.ErrorLogger
	Log      *zap.Logger

	// GoogleEnabled shows the "Sign in with Google" button when the
	// OAuth client is configured.
	GoogleEnabled bool
}

func NewHandler(db *mongo.Database, sm *auth.SessionManager, errLog *uierrors.ErrorLogger, logger *zap.Logger, googleEnabled bool) *Handler {
	return &Handler{
		Users:         userstore.New(db),
		Logins:        loginstore.New(db),
		Sessions:      sm,
		ErrLog:        errLog,
		Log:           logger,
		GoogleEnabled: googleEnabled,
	}
}

type formData struct {
	formutil.Base
	Username      string
	ReturnURL     string
	GoogleEnabled bool
}

type loginInput struct {
	Username string `validate:"required,max=64" label:"Username"`
	Password string `validate:"required,max=128" label:"Password"`
}

// ServeForm renders the login form.
// GET /users/login
func (h *Handler) ServeForm(w http.ResponseWriter, r *http.Request) {
	data := formData{
		ReturnURL:     urlutil.SafeReturn(r.URL.Query().Get("return"), "", ""),
		GoogleEnabled: h.GoogleEnabled,
	}
	formutil.SetBase(&data.Base, r, "Log In", "/")
	templates.Render(w, r, "login", data)
}

// HandleSubmit verifies the credentials and starts a session. Every
// attempt, pass or fail, lands in the login history (best effort).
// POST /users/login
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form submission.", "/users/login")
		return
	}

	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")
	returnURL := urlutil.SafeReturn(r.FormValue("return"), "", "")

	renderWithError := func(msg string) {
		data := formData{
			Username:      htmlsanitize.Sanitize(username),
			ReturnURL:     returnURL,
			GoogleEnabled: h.GoogleEnabled,
		}
		formutil.SetBase(&data.Base, r, "Log In", "/")
		data.SetError(msg)
		templates.Render(w, r, "login", data)
	}

	input := loginInput{Username: username, Password: password}
	if result := inputval.Validate(input); result.HasErrors() {
		renderWithError(result.First())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	user, err := h.Users.GetByUsername(ctx, username)
	switch err {
	case nil:
	case mongo.ErrNoDocuments:
		h.recordFailure(ctx, r, username, loginstore.ReasonUserNotFound)
		renderWithError(failedLoginMsg)
		return
	default:
		h.ErrLog.LogServerError(w, r, "DB find user", err, "A server error occurred.", "/users/login")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		h.recordFailure(ctx, r, username, loginstore.ReasonBadPassword)
		renderWithError(failedLoginMsg)
		return
	}

	sess, err := h.Sessions.GetSession(r)
	if err != nil {
		h.Log.Warn("session decode failed; issuing fresh session", zap.Error(err))
	}
	if err := h.Sessions.SignIn(w, r, sess, user.ID.Hex(), user.Username); err != nil {
		h.ErrLog.LogServerError(w, r, "session save", err, "A server error occurred.", "/users/login")
		return
	}

	if err := h.Logins.RecordSuccess(ctx, user.ID, user.Username, clientIP(r), r.UserAgent()); err != nil {
		h.Log.Warn("record login failed", zap.String("username", user.Username), zap.Error(err))
	}

	dest := urlutil.SafeReturn(returnURL, "", "/dashboard")
	http.Redirect(w, r, dest, http.StatusSeeOther)
}

func (h *Handler) recordFailure(ctx context.Context, r *http.Request, username, reason string) {
	if err := h.Logins.RecordFailure(ctx, username, reason, clientIP(r), r.UserAgent()); err != nil {
		h.Log.Warn("record login failure failed", zap.String("username", username), zap.Error(err))
	}
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i > 0 {
			return strings.TrimSpace(fwd[:i])
		}
		return strings.TrimSpace(fwd)
	}
	host := r.RemoteAddr
	if i := strings.LastIndexByte(host, ':'); i > 0 {
		host = host[:i]
	}
	return host
}
