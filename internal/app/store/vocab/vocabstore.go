// Package vocabstore is the data path into the vocabulary domain: word
// lists, test results, and statistics. The read accessors also feed the
// export pipeline, which must never fail because this collaborator is
// unavailable, so every read degrades to an empty result on error.
package vocabstore

import (
	"context"

	"github.com/dalemusser/vocabhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

type Store struct {
	words *mongo.Collection
	tests *mongo.Collection
	stats *mongo.Collection
	log   *zap.Logger
}

func New(db *mongo.Database, logger *zap.Logger) *Store {
	return &Store{
		words: db.Collection("words"),
		tests: db.Collection("test_results"),
		stats: db.Collection("statistics"),
		log:   logger,
	}
}

// WordsByUser returns the user's vocabulary, oldest first. Errors degrade
// to an empty slice.
func (s *Store) WordsByUser(ctx context.Context, userID primitive.ObjectID) []models.Word {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cur, err := s.words.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		s.log.Warn("words lookup failed; exporting empty list",
			zap.String("user_id", userID.Hex()), zap.Error(err))
		return []models.Word{}
	}
	defer cur.Close(ctx)

	words := []models.Word{}
	if err := cur.All(ctx, &words); err != nil {
		s.log.Warn("words decode failed; exporting empty list",
			zap.String("user_id", userID.Hex()), zap.Error(err))
		return []models.Word{}
	}
	return words
}

// TestHistoryByUser returns the user's completed tests, oldest first.
// Errors degrade to an empty slice.
func (s *Store) TestHistoryByUser(ctx context.Context, userID primitive.ObjectID) []models.TestResult {
	opts := options.Find().SetSort(bson.D{{Key: "taken_at", Value: 1}})
	cur, err := s.tests.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		s.log.Warn("test history lookup failed; exporting empty list",
			zap.String("user_id", userID.Hex()), zap.Error(err))
		return []models.TestResult{}
	}
	defer cur.Close(ctx)

	results := []models.TestResult{}
	if err := cur.All(ctx, &results); err != nil {
		s.log.Warn("test history decode failed; exporting empty list",
			zap.String("user_id", userID.Hex()), zap.Error(err))
		return []models.TestResult{}
	}
	return results
}

// StatisticsByUser returns the user's learning statistics, or nil if none
// exist or the lookup fails.
func (s *Store) StatisticsByUser(ctx context.Context, userID primitive.ObjectID) *models.Statistics {
	var st models.Statistics
	if err := s.stats.FindOne(ctx, bson.M{"user_id": userID}).Decode(&st); err != nil {
		if err != mongo.ErrNoDocuments {
			s.log.Warn("statistics lookup failed; exporting empty statistics",
				zap.String("user_id", userID.Hex()), zap.Error(err))
		}
		return nil
	}
	return &st
}
