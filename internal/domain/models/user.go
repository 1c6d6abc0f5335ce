package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Auth methods a user account can carry.
const (
	AuthMethodPassword = "password"
	AuthMethodGoogle   = "google"
)

// User is a registered account. Credentials are stored as a bcrypt hash;
// the plaintext password never reaches the database.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Username     string             `bson:"username"`
	UsernameCI   string             `bson:"username_ci"` // unique index
	PasswordHash string             `bson:"password_hash,omitempty"`
	AuthMethod   string             `bson:"auth_method"`
	Gender       string             `bson:"gender,omitempty"`
	Number       string             `bson:"number,omitempty"`

	CoursesEnrolled []primitive.ObjectID `bson:"courses_enrolled"`

	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// IsEnrolled reports whether the user is enrolled in the given course.
func (u *User) IsEnrolled(courseID primitive.ObjectID) bool {
	for _, id := range u.CoursesEnrolled {
		if id == courseID {
			return true
		}
	}
	return false
}
