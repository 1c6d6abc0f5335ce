// Package viewdata provides the shared view model embedded by page
// templates. Notices are carried as short codes on redirect URLs and mapped
// back to message text here, so no message state lives in the session.
package viewdata

import (
	"net/http"

	"github.com/dalemusser/waffle/pantry/httpnav"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/gorilla/csrf"
	"github.com/raiamitrai/coursehub/internal/app/system/authz"
)

// DefaultSiteName is shown in the layout header and page titles.
const DefaultSiteName = "CourseHub"

// Notice codes accepted on redirect URLs. Anything not in these tables is
// ignored, so the URL can never inject free text into a page.
var successNotices = map[string]string{
	"created":    "Course created successfully.",
	"updated":    "Course updated successfully.",
	"deleted":    "Course deleted successfully.",
	"registered": "You are now registered and can log in.",
	"logged_out": "You are logged out.",
	"enrolled":   "You are enrolled in the course.",
	"unenrolled": "You are no longer enrolled in the course.",
}

var errorNotices = map[string]string{
	"not_found":   "Course not found.",
	"list_failed": "Error fetching courses.",
	"server":      "A server error occurred. Please try again.",
}

// NoticeText maps a ?notice= code to its message, or "" when unknown.
func NoticeText(code string) string { return successNotices[code] }

// ErrorText maps an ?err= code to its message, or "" when unknown.
func ErrorText(code string) string { return errorNotices[code] }

// BaseVM contains common fields for all page view models.
type BaseVM struct {
	SiteName string

	IsLoggedIn bool
	UserName   string

	Title       string
	BackURL     string
	CurrentPath string
	CSRFToken   string

	// One-shot messages resolved from ?notice= / ?err= codes.
	Notice string
	Error  string
}

// NewBaseVM creates a fully populated BaseVM for a page.
func NewBaseVM(r *http.Request, title, backDefault string) BaseVM {
	uname, _, signedIn := authz.UserCtx(r)

	vm := BaseVM{
		SiteName:    DefaultSiteName,
		IsLoggedIn:  signedIn,
		UserName:    uname,
		Title:       title,
		BackURL:     httpnav.ResolveBackURL(r, backDefault),
		CurrentPath: httpnav.CurrentPath(r),
		CSRFToken:   csrf.Token(r),
	}

	if code := query.Get(r, "notice"); code != "" {
		vm.Notice = successNotices[code]
	}
	if code := query.Get(r, "err"); code != "" {
		vm.Error = errorNotices[code]
	}
	return vm
}
