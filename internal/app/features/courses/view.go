package courses

import (
	"context"
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"github.com/raiamitrai/coursehub/internal/app/system/authz"
	"github.com/raiamitrai/coursehub/internal/app/system/timeouts"
	"github.com/raiamitrai/coursehub/internal/app/system/viewdata"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ServeView renders a single course. A missing or malformed id redirects
// back to the list with a not-found notice rather than a 404.
// GET /courses/{id}
func (h *Handler) ServeView(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		http.Redirect(w, r, "/courses?err=not_found", http.StatusSeeOther)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	course, err := h.Courses.GetByID(ctx, id)
	switch err {
	case nil:
	case mongo.ErrNoDocuments:
		http.Redirect(w, r, "/courses?err=not_found", http.StatusSeeOther)
		return
	default:
		h.ErrLog.LogServerError(w, r, "DB find course", err, "A server error occurred.", "/courses")
		return
	}

	data := viewPageData{
		BaseVM: viewdata.NewBaseVM(r, course.Name, "/courses"),
		Course: toVM(course),
	}

	// Enrollment state only matters for signed-in visitors.
	if _, uid, ok := authz.UserCtx(r); ok {
		if userID, err := primitive.ObjectIDFromHex(uid); err == nil {
			if u, err := h.Users.GetByID(ctx, userID); err == nil {
				data.IsEnrolled = u.IsEnrolled(course.ID)
			}
		}
	}

	templates.Render(w, r, "course_view", data)
}
