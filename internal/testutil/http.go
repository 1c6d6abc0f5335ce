package testutil

import (
	"net/http"

	"github.com/raiamitrai/coursehub/internal/app/system/auth"
	"github.com/raiamitrai/coursehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TestUser represents user data for testing HTTP handlers.
type TestUser struct {
	ID       string
	Username string
}

// SignedInUser returns a TestUser with a fresh ID.
func SignedInUser() TestUser {
	return TestUser{
		ID:       primitive.NewObjectID().Hex(),
		Username: "tester",
	}
}

// FromUser builds a TestUser for an existing user document.
func FromUser(u models.User) TestUser {
	return TestUser{ID: u.ID.Hex(), Username: u.Username}
}

// WithUser injects a signed-in user into the request context, the same way
// the session middleware would on a real request.
func WithUser(r *http.Request, u TestUser) *http.Request {
	return auth.WithTestUser(r, &auth.SessionUser{
		ID:       u.ID,
		Username: u.Username,
	})
}
