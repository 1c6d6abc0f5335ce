package userstore_test

import (
	"testing"

	userstore "github.com/raiamitrai/coursehub/internal/app/store/users"
	"github.com/raiamitrai/coursehub/internal/app/system/indexes"
	"github.com/raiamitrai/coursehub/internal/domain/models"
	"github.com/raiamitrai/coursehub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func TestCreateDefaults(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.User{
		Username:     "Alice",
		PasswordHash: "$2a$04$fakehashfortest",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.ID.IsZero() {
		t.Fatal("Create should assign an ID")
	}
	if created.AuthMethod != models.AuthMethodPassword {
		t.Errorf("AuthMethod default: got %q", created.AuthMethod)
	}
	if created.CoursesEnrolled == nil || len(created.CoursesEnrolled) != 0 {
		t.Error("CoursesEnrolled should start as an empty, non-nil list")
	}
	if created.UsernameCI == "" {
		t.Error("Create should set the folded username")
	}
}

func TestCreate_DuplicateUsername(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// The dup check depends on the unique index on username_ci.
	if err := indexes.EnsureAll(ctx, db, zap.NewNop()); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	if _, err := store.Create(ctx, models.User{Username: "alice"}); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}

	// Same username, different case: still a duplicate.
	_, err := store.Create(ctx, models.User{Username: "ALICE"})
	if err != userstore.ErrDuplicateUsername {
		t.Errorf("expected ErrDuplicateUsername, got %v", err)
	}
}

func TestGetByUsername_CaseInsensitive(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateUser(ctx, "Alice", "secret-password")

	got, err := store.GetByUsername(ctx, "aLiCe")
	if err != nil {
		t.Fatalf("GetByUsername failed: %v", err)
	}
	if got.Username != "Alice" {
		t.Errorf("username: got %q", got.Username)
	}

	if _, err := store.GetByUsername(ctx, "nobody"); err != mongo.ErrNoDocuments {
		t.Errorf("expected ErrNoDocuments for unknown user, got %v", err)
	}
}

func TestUsernameExists(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateUser(ctx, "bob", "secret-password")

	exists, err := store.UsernameExists(ctx, "BOB")
	if err != nil {
		t.Fatalf("UsernameExists failed: %v", err)
	}
	if !exists {
		t.Error("BOB should exist case-insensitively")
	}

	exists, err = store.UsernameExists(ctx, "carol")
	if err != nil {
		t.Fatalf("UsernameExists failed: %v", err)
	}
	if exists {
		t.Error("carol should not exist")
	}
}

func TestEnrollUnenroll(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	user := fixtures.CreateUser(ctx, "alice", "secret-password")
	course := fixtures.CreateCourse(ctx, "Go Basics")

	if err := store.Enroll(ctx, user.ID, course.ID); err != nil {
		t.Fatalf("Enroll failed: %v", err)
	}
	// Enrolling twice must not duplicate the entry.
	if err := store.Enroll(ctx, user.ID, course.ID); err != nil {
		t.Fatalf("second Enroll failed: %v", err)
	}

	got, err := store.GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if len(got.CoursesEnrolled) != 1 {
		t.Fatalf("enrollments: got %d, want 1", len(got.CoursesEnrolled))
	}
	if !got.IsEnrolled(course.ID) {
		t.Error("IsEnrolled should report true")
	}

	if err := store.Unenroll(ctx, user.ID, course.ID); err != nil {
		t.Fatalf("Unenroll failed: %v", err)
	}
	got, err = store.GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.IsEnrolled(course.ID) {
		t.Error("user should no longer be enrolled")
	}
}

func TestEnroll_UnknownUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	err := store.Enroll(ctx, primitive.NewObjectID(), primitive.NewObjectID())
	if err != mongo.ErrNoDocuments {
		t.Errorf("expected ErrNoDocuments, got %v", err)
	}
}

func TestPullCourseFromAll(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	course := fixtures.CreateCourse(ctx, "Shared Course")
	a := fixtures.CreateUser(ctx, "alice", "secret-password")
	b := fixtures.CreateUser(ctx, "bob", "secret-password")
	fixtures.EnrollUser(ctx, a.ID, course.ID)
	fixtures.EnrollUser(ctx, b.ID, course.ID)

	n, err := store.PullCourseFromAll(ctx, course.ID)
	if err != nil {
		t.Fatalf("PullCourseFromAll failed: %v", err)
	}
	if n != 2 {
		t.Errorf("modified count: got %d, want 2", n)
	}

	for _, id := range []primitive.ObjectID{a.ID, b.ID} {
		u, err := store.GetByID(ctx, id)
		if err != nil {
			t.Fatalf("GetByID failed: %v", err)
		}
		if u.IsEnrolled(course.ID) {
			t.Errorf("user %s still enrolled in deleted course", u.Username)
		}
	}
}
