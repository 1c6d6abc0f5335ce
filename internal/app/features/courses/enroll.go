package courses

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/raiamitrai/coursehub/internal/app/system/authz"
	"github.com/raiamitrai/coursehub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// HandleEnroll adds the signed-in user to a course's roster.
// POST /courses/{id}/enroll
func (h *Handler) HandleEnroll(w http.ResponseWriter, r *http.Request) {
	h.changeEnrollment(w, r, true)
}

// HandleUnenroll removes the signed-in user from a course's roster.
// POST /courses/{id}/unenroll
func (h *Handler) HandleUnenroll(w http.ResponseWriter, r *http.Request) {
	h.changeEnrollment(w, r, false)
}

func (h *Handler) changeEnrollment(w http.ResponseWriter, r *http.Request, enroll bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		http.Redirect(w, r, "/courses?err=not_found", http.StatusSeeOther)
		return
	}

	_, uid, ok := authz.UserCtx(r)
	if !ok {
		http.Redirect(w, r, "/users/login", http.StatusSeeOther)
		return
	}
	userID, err := primitive.ObjectIDFromHex(uid)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "bad session user id", err, "A server error occurred.", "/courses")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	// The course must exist before touching the user document.
	if _, err := h.Courses.GetByID(ctx, id); err != nil {
		if err == mongo.ErrNoDocuments {
			http.Redirect(w, r, "/courses?err=not_found", http.StatusSeeOther)
			return
		}
		h.ErrLog.LogServerError(w, r, "DB find course", err, "A server error occurred.", "/courses")
		return
	}

	if enroll {
		err = h.Users.Enroll(ctx, userID, id)
	} else {
		err = h.Users.Unenroll(ctx, userID, id)
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "DB update enrollment", err, "A server error occurred.", "/courses/"+id.Hex())
		return
	}

	notice := "enrolled"
	if !enroll {
		notice = "unenrolled"
	}
	http.Redirect(w, r, "/courses/"+id.Hex()+"?notice="+notice, http.StatusSeeOther)
}
