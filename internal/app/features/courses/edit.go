package courses

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"github.com/raiamitrai/coursehub/internal/app/system/formutil"
	"github.com/raiamitrai/coursehub/internal/app/system/inputval"
	"github.com/raiamitrai/coursehub/internal/app/system/timeouts"
	coursestore "github.com/raiamitrai/coursehub/internal/app/store/courses"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ServeEdit renders the "Edit Course" form with the current values.
// GET /courses/{id}/edit (signed-in only)
func (h *Handler) ServeEdit(w http.ResponseWriter, r *http.Request) {
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

	vm := toVM(course)
	data := editData{
		ID:        vm.ID,
		Name:      vm.Name,
		ImageURL:  vm.ImageURL,
		Price:     vm.Price,
		Duration:  vm.Duration,
		StartDate: vm.StartDate,
	}
	formutil.SetBase(&data.Base, r, "Edit "+course.Name, "/courses/"+vm.ID)
	templates.Render(w, r, "course_edit", data)
}

// HandleUpdate applies the detail update. Price, duration, and start date
// are the only mutable fields; anything else in the body is ignored by
// construction.
// PUT /courses/{id} and POST /courses/{id}/edit (signed-in only)
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		http.Redirect(w, r, "/courses?err=not_found", http.StatusSeeOther)
		return
	}

	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form submission.", "/courses")
		return
	}

	price := strings.TrimSpace(r.FormValue("price"))
	duration := strings.TrimSpace(r.FormValue("duration"))
	startDate := strings.TrimSpace(r.FormValue("courseStartDate"))

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	// Re-rendering the form needs the immutable fields back from the DB.
	renderWithError := func(msg string) {
		course, err := h.Courses.GetByID(ctx, id)
		if err != nil {
			http.Redirect(w, r, "/courses?err=not_found", http.StatusSeeOther)
			return
		}
		data := editData{
			ID:        course.ID.Hex(),
			Name:      course.Name,
			ImageURL:  course.ImageURL,
			Price:     price,
			Duration:  duration,
			StartDate: startDate,
		}
		formutil.SetBase(&data.Base, r, "Edit "+course.Name, "/courses/"+course.ID.Hex())
		data.SetError(msg)
		templates.Render(w, r, "course_edit", data)
	}

	input := updateCourseInput{Price: price, Duration: duration, StartDate: startDate}
	if result := inputval.Validate(input); result.HasErrors() {
		renderWithError(result.First())
		return
	}

	priceVal, err := strconv.ParseFloat(price, 64)
	if err != nil || priceVal < 0 {
		renderWithError("Price must be a non-negative number.")
		return
	}

	startVal, err := time.Parse(dateLayout, startDate)
	if err != nil {
		renderWithError("Start date must be a date in YYYY-MM-DD format.")
		return
	}

	upd := coursestore.DetailUpdate{Price: priceVal, Duration: duration, StartDate: startVal}
	switch err := h.Courses.UpdateDetails(ctx, id, upd); err {
	case nil:
	case mongo.ErrNoDocuments:
		http.Redirect(w, r, "/courses?err=not_found", http.StatusSeeOther)
		return
	default:
		renderWithError("Error updating course.")
		return
	}

	http.Redirect(w, r, "/courses/"+id.Hex()+"?notice=updated", http.StatusSeeOther)
}
