// Package authz is a thin accessor over the auth context. There are no
// roles in this app; a request is either signed in or it is not.
package authz

import (
	"net/http"

	"github.com/raiamitrai/coursehub/internal/app/system/auth"
)

// UserCtx returns (username, userID, signedIn) for the request.
func UserCtx(r *http.Request) (string, string, bool) {
	u, ok := auth.CurrentUser(r)
	if !ok || u == nil {
		return "", "", false
	}
	return u.Username, u.ID, true
}
