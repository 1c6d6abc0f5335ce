// Package formutil provides helpers for re-rendering forms with validation
// errors: the user's values echoed back, an error message, and the common
// page context every form template expects.
package formutil

import (
	"html/template"
	"net/http"

	"github.com/dalemusser/waffle/pantry/httpnav"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/gorilla/csrf"
	"github.com/raiamitrai/coursehub/internal/app/system/authz"
	"github.com/raiamitrai/coursehub/internal/app/system/viewdata"
)

// Base contains common fields for form pages. Embed it in form data structs.
type Base struct {
	Title       string
	IsLoggedIn  bool
	UserName    string
	BackURL     string
	CurrentPath string
	CSRFToken   string
	Notice      string
	Error       template.HTML
}

// SetBase populates the common Base fields from the request context.
func SetBase(b *Base, r *http.Request, title, backDefault string) {
	uname, _, signedIn := authz.UserCtx(r)
	b.Title = title
	b.IsLoggedIn = signedIn
	b.UserName = uname
	b.BackURL = httpnav.ResolveBackURL(r, backDefault)
	b.CurrentPath = httpnav.CurrentPath(r)
	b.CSRFToken = csrf.Token(r)
	if code := query.Get(r, "notice"); code != "" {
		b.Notice = viewdata.NoticeText(code)
	}
}

// SetError sets the error message shown above the form. Callers must
// sanitize any user-supplied text before it ends up here.
func (b *Base) SetError(msg string) {
	b.Error = template.HTML(msg)
}
