// internal/app/store/vocab/record.go
package vocabstore

import (
	"context"
	"time"

	"github.com/dalemusser/vocabhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// RecordTestResult saves one completed test and folds it into the user's
// statistics document. The statistics update is best effort: a recorded
// result without refreshed statistics is preferable to losing the result.
func (s *Store) RecordTestResult(ctx context.Context, res models.TestResult) error {
	if res.TakenAt.IsZero() {
		res.TakenAt = time.Now().UTC()
	}
	if _, err := s.tests.InsertOne(ctx, res); err != nil {
		return err
	}

	score := 0
	if res.Total > 0 {
		score = res.Correct * 100 / res.Total
	}
	update := bson.M{
		"$inc":         bson.M{"tests_total": 1},
		"$max":         bson.M{"best_score": score},
		"$set":         bson.M{"last_activity": res.TakenAt},
		"$setOnInsert": bson.M{"user_id": res.UserID},
	}
	_, err := s.stats.UpdateOne(ctx,
		bson.M{"user_id": res.UserID},
		update,
		options.Update().SetUpsert(true))
	if err != nil {
		s.log.Warn("statistics update failed after recording test result",
			zap.String("user_id", res.UserID.Hex()), zap.Error(err))
	}
	return nil
}
