package loginstore

import (
	"context"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Failure reasons recorded with unsuccessful attempts.
const (
	ReasonUserNotFound = "user_not_found"
	ReasonBadPassword  = "bad_password"
)

// Record is one login attempt, successful or not.
type Record struct {
	ID         primitive.ObjectID  `bson:"_id,omitempty"`
	UserID     *primitive.ObjectID `bson:"user_id,omitempty"`
	Username   string              `bson:"username"`
	UsernameCI string              `bson:"username_ci"`
	Success    bool                `bson:"success"`
	Reason     string              `bson:"reason,omitempty"`
	IP         string              `bson:"ip,omitempty"`
	UserAgent  string              `bson:"user_agent,omitempty"`
	CreatedAt  time.Time           `bson:"created_at"`
}

// Store records login history.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("login_records")}
}

// RecordSuccess stores a successful login. Best effort; callers log and
// continue on error.
func (s *Store) RecordSuccess(ctx context.Context, userID primitive.ObjectID, username, ip, userAgent string) error {
	return s.insert(ctx, Record{
		UserID:    &userID,
		Username:  username,
		Success:   true,
		IP:        ip,
		UserAgent: userAgent,
	})
}

// RecordFailure stores a failed login attempt with a reason.
func (s *Store) RecordFailure(ctx context.Context, username, reason, ip, userAgent string) error {
	return s.insert(ctx, Record{
		Username:  username,
		Success:   false,
		Reason:    reason,
		IP:        ip,
		UserAgent: userAgent,
	})
}

// RecentForUser returns the newest attempts for a username, newest first.
func (s *Store) RecentForUser(ctx context.Context, username string, limit int64) ([]Record, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)
	cur, err := s.c.Find(ctx, bson.M{"username_ci": text.Fold(username)}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var recs []Record
	if err := cur.All(ctx, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}

func (s *Store) insert(ctx context.Context, rec Record) error {
	rec.ID = primitive.NewObjectID()
	rec.UsernameCI = text.Fold(rec.Username)
	rec.CreatedAt = time.Now().UTC()
	_, err := s.c.InsertOne(ctx, rec)
	return err
}
