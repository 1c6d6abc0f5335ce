package courses

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/raiamitrai/coursehub/internal/app/system/formutil"
	"github.com/raiamitrai/coursehub/internal/app/system/htmlsanitize"
	"github.com/raiamitrai/coursehub/internal/app/system/inputval"
	"github.com/raiamitrai/coursehub/internal/app/system/timeouts"
	"github.com/raiamitrai/coursehub/internal/app/system/uploads"
	"github.com/raiamitrai/coursehub/internal/domain/models"
	"go.uber.org/zap"
)

// ServeNew renders the "New Course" form.
// GET /courses/new (signed-in only, enforced in routes.go)
func (h *Handler) ServeNew(w http.ResponseWriter, r *http.Request) {
	data := newData{}
	formutil.SetBase(&data.Base, r, "New Course", "/courses")
	templates.Render(w, r, "course_new", data)
}

// HandleCreate processes the New Course form: one multipart image plus the
// course fields. No document is written and no file retained unless the
// whole request is valid.
// POST /courses
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	saved, upErr := h.Uploads.SaveImage(r)

	// The multipart body is parsed by SaveImage, so form values are
	// readable on every path from here on.
	name := strings.TrimSpace(r.FormValue("courseName"))
	price := strings.TrimSpace(r.FormValue("price"))
	duration := strings.TrimSpace(r.FormValue("duration"))
	startDate := strings.TrimSpace(r.FormValue("courseStartDate"))

	renderWithError := func(msg string) {
		data := newData{
			Name:      htmlsanitize.Sanitize(name),
			Price:     price,
			Duration:  duration,
			StartDate: startDate,
		}
		formutil.SetBase(&data.Base, r, "New Course", "/courses")
		data.SetError(msg)
		templates.Render(w, r, "course_new", data)
	}

	// discard drops the stored file when a later check fails, keeping the
	// "no document, no file" failure invariant.
	discard := func() {
		if err := h.Uploads.Remove(saved.FileName); err != nil {
			h.Log.Warn("discard uploaded image failed",
				zap.String("file", saved.FileName), zap.Error(err))
		}
	}

	switch {
	case errors.Is(upErr, uploads.ErrNoFile):
		renderWithError("Please upload an image.")
		return
	case errors.Is(upErr, uploads.ErrBadType):
		renderWithError("Images only (jpeg, jpg, png, gif).")
		return
	case errors.Is(upErr, uploads.ErrTooLarge):
		renderWithError("Image is too large.")
		return
	case upErr != nil:
		h.ErrLog.LogBadRequest(w, r, "image upload failed", upErr, "Invalid form submission.", "/courses/new")
		return
	}

	input := createCourseInput{Name: name, Price: price, Duration: duration, StartDate: startDate}
	if result := inputval.Validate(input); result.HasErrors() {
		discard()
		renderWithError(result.First())
		return
	}

	priceVal, err := strconv.ParseFloat(price, 64)
	if err != nil || priceVal < 0 {
		discard()
		renderWithError("Price must be a non-negative number.")
		return
	}

	startVal, err := time.Parse(dateLayout, startDate)
	if err != nil {
		discard()
		renderWithError("Start date must be a date in YYYY-MM-DD format.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	course := models.Course{
		Name:      name,
		Price:     priceVal,
		ImageURL:  saved.URL,
		ImageFile: saved.FileName,
		Duration:  duration,
		StartDate: startVal,
	}

	if _, err := h.Courses.Create(ctx, course); err != nil {
		discard()
		h.ErrLog.LogServerError(w, r, "DB create course", err, "Error creating course.", "/courses/new")
		return
	}

	http.Redirect(w, r, "/courses?notice=created", http.StatusSeeOther)
}
