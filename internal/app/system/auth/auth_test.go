package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/raiamitrai/coursehub/internal/app/system/auth"
	"go.uber.org/zap"
)

func newManager(t *testing.T) *auth.SessionManager {
	t.Helper()
	sm, err := auth.NewSessionManager("test-session-key-for-testing-only", "test-session", "", time.Hour, false, zap.NewNop())
	if err != nil {
		t.Fatalf("NewSessionManager failed: %v", err)
	}
	return sm
}

func TestNewSessionManager_RejectsEmptyKey(t *testing.T) {
	if _, err := auth.NewSessionManager("", "cookie", "", time.Hour, false, zap.NewNop()); err == nil {
		t.Error("expected an error for empty session key")
	}
}

func TestNewSessionManager_RejectsEmptyCookieName(t *testing.T) {
	if _, err := auth.NewSessionManager("some-key-some-key-some-key-some-key", "", "", time.Hour, false, zap.NewNop()); err == nil {
		t.Error("expected an error for empty cookie name")
	}
}

func TestRequireSignedIn_RedirectsHTML(t *testing.T) {
	sm := newManager(t)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("next handler should not run for anonymous request")
	})

	req := httptest.NewRequest("GET", "/courses/new", nil)
	req.Header.Set("Accept", "text/html")
	rec := httptest.NewRecorder()

	sm.RequireSignedIn(next).ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusSeeOther)
	}
	location := rec.Header().Get("Location")
	if location != "/users/login?return=%2Fcourses%2Fnew" {
		t.Errorf("Location: got %q", location)
	}
}

func TestRequireSignedIn_401ForNonHTML(t *testing.T) {
	sm := newManager(t)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("next handler should not run")
	})

	req := httptest.NewRequest("POST", "/courses", nil)
	rec := httptest.NewRecorder()

	sm.RequireSignedIn(next).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestRequireSignedIn_PassesWithUser(t *testing.T) {
	sm := newManager(t)

	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		u, ok := auth.CurrentUser(r)
		if !ok {
			t.Fatal("CurrentUser should find the injected user")
		}
		if u.Username != "alice" {
			t.Errorf("username: got %q", u.Username)
		}
	})

	req := httptest.NewRequest("GET", "/courses/new", nil)
	req = auth.WithTestUser(req, &auth.SessionUser{ID: "abc", Username: "alice"})
	rec := httptest.NewRecorder()

	sm.RequireSignedIn(next).ServeHTTP(rec, req)

	if !called {
		t.Error("next handler should have run")
	}
}

func TestSignInThenLoadSessionUser(t *testing.T) {
	sm := newManager(t)

	// Sign in and capture the cookie.
	signInReq := httptest.NewRequest("POST", "/users/login", nil)
	signInRec := httptest.NewRecorder()
	sess, _ := sm.GetSession(signInReq)
	if err := sm.SignIn(signInRec, signInReq, sess, "user-1", "alice"); err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}
	cookies := signInRec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("SignIn should set a cookie")
	}

	// Replay the cookie through the middleware; no fetcher is configured
	// so the cookie values are trusted directly.
	req := httptest.NewRequest("GET", "/dashboard", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()

	var got *auth.SessionUser
	sm.LoadSessionUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = auth.CurrentUser(r)
	})).ServeHTTP(rec, req)

	if got == nil {
		t.Fatal("expected a user in context after replaying the session cookie")
	}
	if got.ID != "user-1" || got.Username != "alice" {
		t.Errorf("user: got %+v", got)
	}
}

func TestSignOut_ExpiresCookie(t *testing.T) {
	sm := newManager(t)

	req := httptest.NewRequest("GET", "/users/logout", nil)
	rec := httptest.NewRecorder()

	if err := sm.SignOut(rec, req); err != nil {
		t.Fatalf("SignOut failed: %v", err)
	}

	var expired bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == "test-session" && c.MaxAge < 0 {
			expired = true
		}
	}
	if !expired {
		t.Error("SignOut should set an expiring session cookie")
	}
}

type staleFetcher struct{}

func (staleFetcher) FetchUser(ctx context.Context, userID string) *auth.SessionUser {
	return nil
}

func TestLoadSessionUser_FetcherCanRevoke(t *testing.T) {
	sm := newManager(t)
	sm.SetUserFetcher(staleFetcher{})

	signInReq := httptest.NewRequest("POST", "/users/login", nil)
	signInRec := httptest.NewRecorder()
	sess, _ := sm.GetSession(signInReq)
	if err := sm.SignIn(signInRec, signInReq, sess, "gone-user", "ghost"); err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}

	req := httptest.NewRequest("GET", "/dashboard", nil)
	for _, c := range signInRec.Result().Cookies() {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()

	sm.LoadSessionUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := auth.CurrentUser(r); ok {
			t.Error("deleted user should not be signed in")
		}
	})).ServeHTTP(rec, req)
}
