package viewdata_test

import (
	"net/http/httptest"
	"testing"

	"github.com/raiamitrai/coursehub/internal/app/system/auth"
	"github.com/raiamitrai/coursehub/internal/app/system/viewdata"
)

func TestNewBaseVM_ResolvesNoticeCodes(t *testing.T) {
	req := httptest.NewRequest("GET", "/courses?notice=created", nil)
	vm := viewdata.NewBaseVM(req, "Courses", "/")

	if vm.Notice != "Course created successfully." {
		t.Errorf("Notice: got %q", vm.Notice)
	}
	if vm.Error != "" {
		t.Errorf("Error should be empty, got %q", vm.Error)
	}
}

func TestNewBaseVM_ResolvesErrorCodes(t *testing.T) {
	req := httptest.NewRequest("GET", "/courses?err=not_found", nil)
	vm := viewdata.NewBaseVM(req, "Courses", "/")

	if vm.Error != "Course not found." {
		t.Errorf("Error: got %q", vm.Error)
	}
}

func TestNewBaseVM_IgnoresUnknownCodes(t *testing.T) {
	req := httptest.NewRequest("GET", "/courses?notice=<script>&err=bogus", nil)
	vm := viewdata.NewBaseVM(req, "Courses", "/")

	if vm.Notice != "" {
		t.Errorf("unknown notice code should map to empty, got %q", vm.Notice)
	}
	if vm.Error != "" {
		t.Errorf("unknown err code should map to empty, got %q", vm.Error)
	}
}

func TestNewBaseVM_SignedInUser(t *testing.T) {
	req := httptest.NewRequest("GET", "/courses", nil)
	req = auth.WithTestUser(req, &auth.SessionUser{ID: "u1", Username: "alice"})

	vm := viewdata.NewBaseVM(req, "Courses", "/")
	if !vm.IsLoggedIn {
		t.Error("IsLoggedIn should be true")
	}
	if vm.UserName != "alice" {
		t.Errorf("UserName: got %q", vm.UserName)
	}
}

func TestNewBaseVM_Anonymous(t *testing.T) {
	req := httptest.NewRequest("GET", "/courses", nil)
	vm := viewdata.NewBaseVM(req, "Courses", "/")

	if vm.IsLoggedIn {
		t.Error("IsLoggedIn should be false for anonymous requests")
	}
	if vm.SiteName != viewdata.DefaultSiteName {
		t.Errorf("SiteName: got %q", vm.SiteName)
	}
}

func TestNoticeText_Tables(t *testing.T) {
	if got := viewdata.NoticeText("logged_out"); got != "You are logged out." {
		t.Errorf("NoticeText: got %q", got)
	}
	if got := viewdata.ErrorText("list_failed"); got != "Error fetching courses." {
		t.Errorf("ErrorText: got %q", got)
	}
	if got := viewdata.NoticeText("nope"); got != "" {
		t.Errorf("unknown code: got %q, want empty", got)
	}
}
