package logout

import (
	"net/http"

	"go.uber.org/zap"

	uierrors "github.com/raiamitrai/coursehub/internal/app/features/errors"
	"github.com/raiamitrai/coursehub/internal/app/system/auth"
)

// Handler ends sessions.
type Handler struct {
	Sessions *auth.SessionManager
	ErrLog   *uierrors.ErrorLogger
	Log      *zap.Logger
}

func NewHandler(sm *auth.SessionManager, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{Sessions: sm, ErrLog: errLog, Log: logger}
}

// HandleLogout expires the session cookie and sends the user back to the
// login page. A failed cookie save is surfaced, not swallowed: the browser
// may still hold a live session in that case.
// GET|POST /users/logout
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.Sessions.SignOut(w, r); err != nil {
		h.ErrLog.LogServerError(w, r, "session sign-out", err, "Could not log you out. Please try again.", "/")
		return
	}
	http.Redirect(w, r, "/users/login?notice=logged_out", http.StatusSeeOther)
}
