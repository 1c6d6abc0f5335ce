package courses

import (
	"strconv"
	"time"

	"github.com/raiamitrai/coursehub/internal/app/system/formutil"
	"github.com/raiamitrai/coursehub/internal/app/system/viewdata"
	"github.com/raiamitrai/coursehub/internal/domain/models"
)

// dateLayout is the form value shape for course start dates.
const dateLayout = "2006-01-02"

// courseVM is a single course as templates see it.
type courseVM struct {
	ID        string
	Name      string
	Price     string
	ImageURL  string
	Duration  string
	StartDate string
	CreatedAt string
}

func toVM(c models.Course) courseVM {
	return courseVM{
		ID:        c.ID.Hex(),
		Name:      c.Name,
		Price:     strconv.FormatFloat(c.Price, 'f', -1, 64),
		ImageURL:  c.ImageURL,
		Duration:  c.Duration,
		StartDate: c.StartDate.Format(dateLayout),
		CreatedAt: c.CreatedAt.Format(time.DateOnly),
	}
}

// listData is the view model for the catalog list page.
type listData struct {
	viewdata.BaseVM
	Items []courseVM
	Total int
}

// viewPageData is the view model for the single-course page.
type viewPageData struct {
	viewdata.BaseVM
	Course     courseVM
	IsEnrolled bool
}

// newData is the view model for the "New Course" form.
type newData struct {
	formutil.Base
	Name      string
	Price     string
	Duration  string
	StartDate string
}

// editData is the view model for the "Edit Course" form. Name and image
// are displayed read-only; they are immutable after creation.
type editData struct {
	formutil.Base
	ID        string
	Name      string
	ImageURL  string
	Price     string
	Duration  string
	StartDate string
}

// createCourseInput defines validation rules for creating a course.
type createCourseInput struct {
	Name      string `validate:"required,max=200" label:"Course name"`
	Price     string `validate:"required" label:"Price"`
	Duration  string `validate:"required,max=100" label:"Duration"`
	StartDate string `validate:"required,datetime=2006-01-02" label:"Start date"`
}

// updateCourseInput defines validation rules for the mutable detail fields.
type updateCourseInput struct {
	Price     string `validate:"required" label:"Price"`
	Duration  string `validate:"required,max=100" label:"Duration"`
	StartDate string `validate:"required,datetime=2006-01-02" label:"Start date"`
}
