package courses

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/raiamitrai/coursehub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// HandleDelete removes a course. The document goes first; the image file
// and enrollment references are cleaned up afterward on a best-effort
// basis, so a failed file removal can never strand a half-deleted course.
// DELETE /courses/{id} and POST /courses/{id}/delete (signed-in only)
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		http.Redirect(w, r, "/courses?err=not_found", http.StatusSeeOther)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	course, err := h.Courses.GetByID(ctx, id)
	switch err {
	case nil:
	case mongo.ErrNoDocuments:
		http.Redirect(w, r, "/courses?err=not_found", http.StatusSeeOther)
		return
	default:
		h.ErrLog.LogServerError(w, r, "DB find course", err, "Error deleting course.", "/courses")
		return
	}

	deleted, err := h.Courses.Delete(ctx, id)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "DB delete course", err, "Error deleting course.", "/courses")
		return
	}
	if deleted == 0 {
		// Raced with another delete.
		http.Redirect(w, r, "/courses?err=not_found", http.StatusSeeOther)
		return
	}

	if course.ImageFile != "" {
		if err := h.Uploads.Remove(course.ImageFile); err != nil {
			h.Log.Warn("remove course image failed",
				zap.String("course_id", id.Hex()),
				zap.String("file", course.ImageFile),
				zap.Error(err))
		}
	}

	if n, err := h.Users.PullCourseFromAll(ctx, id); err != nil {
		h.Log.Warn("pull course from enrollments failed",
			zap.String("course_id", id.Hex()), zap.Error(err))
	} else if n > 0 {
		h.Log.Info("removed course from enrollments",
			zap.String("course_id", id.Hex()), zap.Int64("users", n))
	}

	http.Redirect(w, r, "/courses?notice=deleted", http.StatusSeeOther)
}
