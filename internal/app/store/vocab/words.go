// internal/app/store/vocab/words.go
package vocabstore

import (
	"context"
	"fmt"
	"time"

	"github.com/dalemusser/vocabhub/internal/app/system/paging"
	"github.com/dalemusser/vocabhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// WordsPage returns one page of the user's vocabulary ordered by term,
// driven by keyset cursors. Unlike the export reads, a failed page read
// is reported: the word list page should show an error, not silently
// render empty.
func (s *Store) WordsPage(ctx context.Context, userID primitive.ObjectID, before, after string) ([]models.Word, paging.Result, string, string, error) {
	cfg := paging.ConfigureKeyset(before, after)

	filter := bson.M{"user_id": userID}
	if window := cfg.KeysetWindow("term"); window != nil {
		for k, v := range window {
			filter[k] = v
		}
	}

	find := options.Find()
	cfg.ApplyToFind(find, "term")

	cur, err := s.words.Find(ctx, filter, find)
	if err != nil {
		return nil, paging.Result{}, "", "", fmt.Errorf("find words page: %w", err)
	}
	defer cur.Close(ctx)

	words := []models.Word{}
	if err := cur.All(ctx, &words); err != nil {
		return nil, paging.Result{}, "", "", fmt.Errorf("decode words page: %w", err)
	}

	res := paging.TrimPage(&words, before, after)
	if cfg.Direction == paging.Backward {
		paging.Reverse(words)
	}
	prev, next := paging.BuildCursors(words,
		func(w models.Word) string { return w.Term },
		func(w models.Word) primitive.ObjectID { return w.ID })
	return words, res, prev, next, nil
}

// AddWords inserts a batch of vocabulary entries for one user. The word
// count in the user's statistics is bumped best effort; a stats failure
// never fails the insert.
func (s *Store) AddWords(ctx context.Context, userID primitive.ObjectID, words []models.Word) error {
	if len(words) == 0 {
		return nil
	}

	now := time.Now()
	docs := make([]interface{}, 0, len(words))
	for _, w := range words {
		w.ID = primitive.NewObjectID()
		w.UserID = userID
		if w.CreatedAt.IsZero() {
			w.CreatedAt = now
		}
		docs = append(docs, w)
	}

	if _, err := s.words.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("insert words: %w", err)
	}

	update := bson.M{
		"$inc":         bson.M{"words_total": len(words)},
		"$set":         bson.M{"last_activity": now},
		"$setOnInsert": bson.M{"user_id": userID},
	}
	if _, err := s.stats.UpdateOne(ctx, bson.M{"user_id": userID}, update,
		options.Update().SetUpsert(true)); err != nil {
		s.log.Warn("statistics update after word insert failed",
			zap.String("user_id", userID.Hex()), zap.Error(err))
	}
	return nil
}
