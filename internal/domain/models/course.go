package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Course is a single catalog entry. The image is chosen at creation time and
// never changes afterwards; only price, duration, and start date are mutable.
type Course struct {
	ID     primitive.ObjectID `bson:"_id,omitempty"`
	Name   string             `bson:"course_name"`
	NameCI string             `bson:"course_name_ci"` // lowercase, diacritics-stripped
	Price  float64            `bson:"price"`

	// ImageURL is the public path ("/uploads/image-<uuid>.png").
	// ImageFile is the bare stored filename, kept for cleanup on delete.
	ImageURL  string `bson:"image"`
	ImageFile string `bson:"image_file"`

	Duration  string    `bson:"duration"`
	StartDate time.Time `bson:"course_start_date"`

	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}
