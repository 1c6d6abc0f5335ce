package authgoogle

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dalemusser/waffle/pantry/urlutil"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	uierrors "github.com/raiamitrai/coursehub/internal/app/features/errors"
	"github.com/raiamitrai/coursehub/internal/app/store/oauthstate"
	userstore "github.com/raiamitrai/coursehub/internal/app/store/users"
	"github.com/raiamitrai/coursehub/internal/app/system/auth"
	"github.com/raiamitrai/coursehub/internal/app/system/timeouts"
	"github.com/raiamitrai/coursehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	userinfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"
	stateTTL    = 10 * time.Minute
)

// Handler runs the Google sign-in round-trip. Accounts are keyed by the
// Google email as the username; first sign-in creates the account.
type Handler struct {
	OAuth    *oauth2.Config
	Users    *userstore.Store
	States   *oauthstate.Store
	Sessions *auth.SessionManager
	ErrLog   *uierrors.ErrorLogger
	Log      *zap.Logger
}

// NewHandler returns nil when the OAuth client is not configured; callers
// skip mounting the routes in that case.
func NewHandler(db *mongo.Database, sm *auth.SessionManager, errLog *uierrors.ErrorLogger, logger *zap.Logger, clientID, clientSecret, baseURL string) *Handler {
	if clientID == "" || clientSecret == "" {
		return nil
	}
	return &Handler{
		OAuth: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  baseURL + "/auth/google/callback",
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
		Users:    userstore.New(db),
		States:   oauthstate.New(db),
		Sessions: sm,
		ErrLog:   errLog,
		Log:      logger,
	}
}

type googleUser struct {
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
}

// HandleStart stores a one-time state token and redirects to Google.
// GET /auth/google
func (h *Handler) HandleStart(w http.ResponseWriter, r *http.Request) {
	state, err := generateState()
	if err != nil {
		h.ErrLog.LogServerError(w, r, "generate oauth state", err, "A server error occurred.", "/users/login")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	returnURL := urlutil.SafeReturn(r.URL.Query().Get("return"), "", "")
	if err := h.States.Save(ctx, state, returnURL, time.Now().UTC().Add(stateTTL)); err != nil {
		h.ErrLog.LogServerError(w, r, "save oauth state", err, "A server error occurred.", "/users/login")
		return
	}

	http.Redirect(w, r, h.OAuth.AuthCodeURL(state), http.StatusSeeOther)
}

// HandleCallback validates the state, exchanges the code, and signs the
// user in, creating the account on first visit.
// GET /auth/google/callback
func (h *Handler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	state := r.URL.Query().Get("state")
	returnURL, valid, err := h.States.Validate(ctx, state)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "validate oauth state", err, "A server error occurred.", "/users/login")
		return
	}
	if !valid {
		h.ErrLog.LogBadRequest(w, r, "oauth state invalid", fmt.Errorf("state %q unknown or expired", state),
			"Sign-in session expired. Please try again.", "/users/login")
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		h.ErrLog.LogBadRequest(w, r, "oauth code missing", fmt.Errorf("no code in callback"),
			"Google sign-in was cancelled.", "/users/login")
		return
	}

	token, err := h.OAuth.Exchange(ctx, code)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "oauth exchange", err, "Google sign-in failed. Please try again.", "/users/login")
		return
	}

	gu, err := h.fetchUser(ctx, token)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "fetch google userinfo", err, "Google sign-in failed. Please try again.", "/users/login")
		return
	}
	if gu.Email == "" || !gu.VerifiedEmail {
		h.ErrLog.LogBadRequest(w, r, "google email unverified", fmt.Errorf("email=%q verified=%v", gu.Email, gu.VerifiedEmail),
			"Your Google account has no verified email.", "/users/login")
		return
	}

	user, err := h.findOrCreate(ctx, gu.Email)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "DB find-or-create google user", err, "A server error occurred.", "/users/login")
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

	dest := urlutil.SafeReturn(returnURL, "", "/dashboard")
	http.Redirect(w, r, dest, http.StatusSeeOther)
}

func (h *Handler) fetchUser(ctx context.Context, token *oauth2.Token) (googleUser, error) {
	var gu googleUser

	client := h.OAuth.Client(ctx, token)
	resp, err := client.Get(userinfoURL)
	if err != nil {
		return gu, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return gu, fmt.Errorf("userinfo status %d: %s", resp.StatusCode, body)
	}
	if err := json.NewDecoder(resp.Body).Decode(&gu); err != nil {
		return gu, err
	}
	return gu, nil
}

func (h *Handler) findOrCreate(ctx context.Context, email string) (*models.User, error) {
	user, err := h.Users.GetByUsername(ctx, email)
	switch err {
	case nil:
		return user, nil
	case mongo.ErrNoDocuments:
	default:
		return nil, err
	}

	created, err := h.Users.Create(ctx, models.User{
		Username:   email,
		AuthMethod: models.AuthMethodGoogle,
	})
	if err == userstore.ErrDuplicateUsername {
		// Raced with a concurrent first sign-in.
		return h.Users.GetByUsername(ctx, email)
	}
	if err != nil {
		return nil, err
	}
	h.Log.Info("google account created", zap.String("username", email))
	return &created, nil
}

func generateState() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
