// internal/domain/models/vocab.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Word is a single vocabulary entry owned by a user.
type Word struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      primitive.ObjectID `bson:"user_id" json:"user_id"`
	Term        string             `bson:"term" json:"term"`
	Translation string             `bson:"translation" json:"translation"`
	Notes       string             `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
}

// TestResult records one completed vocabulary test.
type TestResult struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      primitive.ObjectID `bson:"user_id" json:"user_id"`
	Total       int                `bson:"total" json:"total"`
	Correct     int                `bson:"correct" json:"correct"`
	DurationSec int                `bson:"duration_sec" json:"duration_sec"`
	TakenAt     time.Time          `bson:"taken_at" json:"taken_at"`
}

// Statistics summarizes a user's learning activity.
type Statistics struct {
	UserID       primitive.ObjectID `bson:"user_id" json:"user_id"`
	WordsTotal   int                `bson:"words_total" json:"words_total"`
	TestsTotal   int                `bson:"tests_total" json:"tests_total"`
	BestScore    int                `bson:"best_score" json:"best_score"`
	LastActivity time.Time          `bson:"last_activity" json:"last_activity"`
}
