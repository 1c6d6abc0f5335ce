package register

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	uierrors "github.com/raiamitrai/coursehub/internal/app/features/errors"
	userstore "github.com/raiamitrai/coursehub/internal/app/store/users"
	"github.com/raiamitrai/coursehub/internal/app/system/formutil"
	"github.com/raiamitrai/coursehub/internal/app/system/htmlsanitize"
	"github.com/raiamitrai/coursehub/internal/app/system/inputval"
	"github.com/raiamitrai/coursehub/internal/app/system/timeouts"
	"github.com/raiamitrai/coursehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
)

// Handler serves the account registration flow.
type Handler struct {
	Users  *userstore.Store
	ErrLog *uierrors.ErrorLogger
	Log    *zap.Logger
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Users:  userstore.New(db),
		ErrLog: errLog,
		Log:    logger,
	}
}

type formData struct {
	formutil.Base
	Username string
	Gender   string
	Number   string
}

type registerInput struct {
	Username string `validate:"required,min=3,max=64" label:"Username"`
	Password string `validate:"required,min=8,max=128" label:"Password"`
	Gender   string `validate:"omitempty,oneof=male female other" label:"Gender"`
	Number   string `validate:"omitempty,max=20,numeric" label:"Phone number"`
}

// ServeForm renders the registration form.
// GET /users/register
func (h *Handler) ServeForm(w http.ResponseWriter, r *http.Request) {
	data := formData{}
	formutil.SetBase(&data.Base, r, "Register", "/")
	templates.Render(w, r, "register", data)
}

// HandleSubmit creates the account. Passwords are hashed with bcrypt
// before anything touches the database; a duplicate username re-renders
// the form with an inline message.
// POST /users/register
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form submission.", "/users/register")
		return
	}

	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")
	gender := strings.TrimSpace(r.FormValue("gender"))
	number := strings.TrimSpace(r.FormValue("number"))

	renderWithError := func(msg string) {
		data := formData{
			Username: htmlsanitize.Sanitize(username),
			Gender:   gender,
			Number:   number,
		}
		formutil.SetBase(&data.Base, r, "Register", "/")
		data.SetError(msg)
		templates.Render(w, r, "register", data)
	}

	input := registerInput{Username: username, Password: password, Gender: gender, Number: number}
	if result := inputval.Validate(input); result.HasErrors() {
		renderWithError(result.First())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	// Friendly pre-check; the unique index still backstops races.
	exists, err := h.Users.UsernameExists(ctx, username)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "DB check username", err, "A server error occurred.", "/users/register")
		return
	}
	if exists {
		renderWithError("Username already exists.")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "bcrypt hash", err, "A server error occurred.", "/users/register")
		return
	}

	user := models.User{
		Username:     username,
		PasswordHash: string(hash),
		AuthMethod:   models.AuthMethodPassword,
		Gender:       gender,
		Number:       number,
	}

	if _, err := h.Users.Create(ctx, user); err != nil {
		if errors.Is(err, userstore.ErrDuplicateUsername) {
			renderWithError("Username already exists.")
			return
		}
		h.ErrLog.LogServerError(w, r, "DB create user", err, "A server error occurred.", "/users/register")
		return
	}

	h.Log.Info("user registered", zap.String("username", username))
	http.Redirect(w, r, "/users/login?notice=registered", http.StatusSeeOther)
}
