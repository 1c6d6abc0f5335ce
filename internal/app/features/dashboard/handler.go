package dashboard

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"

	uierrors "github.com/raiamitrai/coursehub/internal/app/features/errors"
	coursestore "github.com/raiamitrai/coursehub/internal/app/store/courses"
	userstore "github.com/raiamitrai/coursehub/internal/app/store/users"
	"github.com/raiamitrai/coursehub/internal/app/system/authz"
	"github.com/raiamitrai/coursehub/internal/app/system/timeouts"
	"github.com/raiamitrai/coursehub/internal/app/system/viewdata"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Handler serves the signed-in user's dashboard: their enrolled courses.
type Handler struct {
	Users   *userstore.Store
	Courses *coursestore.Store
	ErrLog  *uierrors.ErrorLogger
	Log     *zap.Logger
}

func NewHandler(users *userstore.Store, courses *coursestore.Store, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{Users: users, Courses: courses, ErrLog: errLog, Log: logger}
}

type courseVM struct {
	ID        string
	Name      string
	Price     string
	ImageURL  string
	Duration  string
	StartDate string
}

type pageData struct {
	viewdata.BaseVM
	Enrolled []courseVM
}

// ServeDashboard renders the enrolled-course list for the current user.
// GET /dashboard (signed-in only, enforced in routes.go)
func (h *Handler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	_, uid, ok := authz.UserCtx(r)
	if !ok {
		http.Redirect(w, r, "/users/login", http.StatusSeeOther)
		return
	}
	userID, err := primitive.ObjectIDFromHex(uid)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "bad session user id", err, "A server error occurred.", "/")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	user, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "DB find user", err, "A server error occurred.", "/")
		return
	}

	courses, err := h.Courses.GetByIDs(ctx, user.CoursesEnrolled)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "DB find enrolled courses", err, "A server error occurred.", "/")
		return
	}

	items := make([]courseVM, 0, len(courses))
	for _, c := range courses {
		items = append(items, courseVM{
			ID:        c.ID.Hex(),
			Name:      c.Name,
			Price:     strconv.FormatFloat(c.Price, 'f', -1, 64),
			ImageURL:  c.ImageURL,
			Duration:  c.Duration,
			StartDate: c.StartDate.Format(time.DateOnly),
		})
	}

	templates.Render(w, r, "dashboard", pageData{
		BaseVM:   viewdata.NewBaseVM(r, "Dashboard", "/courses"),
		Enrolled: items,
	})
}
