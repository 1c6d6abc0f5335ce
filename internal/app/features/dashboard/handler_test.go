package dashboard_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/raiamitrai/coursehub/internal/app/features/dashboard"
	uierrors "github.com/raiamitrai/coursehub/internal/app/features/errors"
	coursestore "github.com/raiamitrai/coursehub/internal/app/store/courses"
	userstore "github.com/raiamitrai/coursehub/internal/app/store/users"
	"github.com/raiamitrai/coursehub/internal/app/system/auth"
	"github.com/raiamitrai/coursehub/internal/testutil"
)

func newTestHandler(t *testing.T) (*dashboard.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	errLog := uierrors.NewErrorLogger(logger)

	handler := dashboard.NewHandler(userstore.New(db), coursestore.New(db), errLog, logger)
	fixtures := testutil.NewFixtures(t, db)
	return handler, fixtures
}

func TestServeDashboard_AnonymousRedirects(t *testing.T) {
	handler, _ := newTestHandler(t)

	req := httptest.NewRequest("GET", "/dashboard", nil)
	rec := httptest.NewRecorder()
	handler.ServeDashboard(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get("Location"); loc != "/users/login" {
		t.Errorf("Location: got %q", loc)
	}
}

func TestRoutes_RequireSignedIn(t *testing.T) {
	handler, _ := newTestHandler(t)

	sessionMgr, err := auth.NewSessionManager("test-session-key-for-testing-only", "test-session", "", time.Hour, false, zap.NewNop())
	if err != nil {
		t.Fatalf("NewSessionManager failed: %v", err)
	}

	router := dashboard.Routes(handler, sessionMgr)
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Accept", "text/html")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Errorf("anonymous dashboard request should redirect, got %d", rec.Code)
	}
}
