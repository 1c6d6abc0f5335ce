package inputval_test

import (
	"strings"
	"testing"

	"github.com/raiamitrai/coursehub/internal/app/system/inputval"
)

type courseInput struct {
	Name      string `validate:"required,max=10" label:"Course name"`
	Price     string `validate:"required" label:"Price"`
	StartDate string `validate:"required,datetime=2006-01-02" label:"Start date"`
}

func TestValidate_AllGood(t *testing.T) {
	result := inputval.Validate(courseInput{
		Name:      "Go 101",
		Price:     "49.99",
		StartDate: "2026-09-15",
	})
	if result.HasErrors() {
		t.Errorf("expected no errors, got %v", result.All())
	}
	if result.First() != "" {
		t.Errorf("First on clean result: got %q, want empty", result.First())
	}
}

func TestValidate_RequiredUsesLabel(t *testing.T) {
	result := inputval.Validate(courseInput{Price: "1", StartDate: "2026-09-15"})
	if !result.HasErrors() {
		t.Fatal("expected a validation error for missing name")
	}
	if got := result.First(); got != "Course name is required." {
		t.Errorf("message: got %q", got)
	}
}

func TestValidate_MaxLength(t *testing.T) {
	result := inputval.Validate(courseInput{
		Name:      strings.Repeat("x", 11),
		Price:     "1",
		StartDate: "2026-09-15",
	})
	if !result.HasErrors() {
		t.Fatal("expected a validation error for long name")
	}
	if got := result.First(); !strings.Contains(got, "at most 10") {
		t.Errorf("message: got %q, want mention of the limit", got)
	}
}

func TestValidate_BadDate(t *testing.T) {
	result := inputval.Validate(courseInput{
		Name:      "Go 101",
		Price:     "1",
		StartDate: "15-09-2026",
	})
	if !result.HasErrors() {
		t.Fatal("expected a validation error for bad date format")
	}
	if got := result.First(); got != "Start date must be a date in YYYY-MM-DD format." {
		t.Errorf("message: got %q", got)
	}
}

func TestValidate_CollectsAllFailures(t *testing.T) {
	result := inputval.Validate(courseInput{})
	if len(result.All()) != 3 {
		t.Errorf("expected 3 failures, got %d: %v", len(result.All()), result.All())
	}
}
