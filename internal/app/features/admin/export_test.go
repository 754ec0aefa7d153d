package admin

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/dalemusser/vocabhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// stubVocab serves fixed vocabulary data for one user.
type stubVocab struct {
	userID primitive.ObjectID
	words  []models.Word
	tests  []models.TestResult
	stats  *models.Statistics
}

func (s stubVocab) WordsByUser(ctx context.Context, id primitive.ObjectID) []models.Word {
	if id == s.userID {
		return s.words
	}
	return nil
}

func (s stubVocab) TestHistoryByUser(ctx context.Context, id primitive.ObjectID) []models.TestResult {
	if id == s.userID {
		return s.tests
	}
	return nil
}

func (s stubVocab) StatisticsByUser(ctx context.Context, id primitive.ObjectID) *models.Statistics {
	if id == s.userID {
		return s.stats
	}
	return nil
}

func TestExportFilename(t *testing.T) {
	at := time.Date(2025, time.March, 7, 23, 59, 0, 0, time.UTC)
	got := ExportFilename("maria@test.com", at)
	want := "user-data-maria@test.com-2025-03-07.json"
	if got != want {
		t.Errorf("ExportFilename = %q, want %q", got, want)
	}
}

func TestExportDocumentShape(t *testing.T) {
	target := models.User{
		ID:          primitive.NewObjectID(),
		Email:       "maria@test.com",
		DisplayName: "Maria",
		Role:        models.RoleUser,
	}
	vocab := stubVocab{
		userID: target.ID,
		words:  []models.Word{{Term: "haus", Translation: "house"}},
		tests:  []models.TestResult{{Total: 10, Correct: 9}},
		stats:  &models.Statistics{WordsTotal: 1, TestsTotal: 1},
	}
	c := NewController(&fakeDirectory{}, &fakeResets{}, vocab, nil, zap.NewNop())
	actor := adminActor()

	art, err := c.ExportData(context.Background(), actor, target)
	if err != nil {
		t.Fatalf("ExportData: %v", err)
	}

	// The top-level keys are a wire contract: exactly these six.
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(art.Body, &raw); err != nil {
		t.Fatalf("artifact is not valid JSON: %v", err)
	}
	for _, key := range []string{"profile", "words", "testHistory", "statistics", "exportedAt", "exportedBy"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("artifact missing key %q", key)
		}
	}
	if len(raw) != 6 {
		t.Errorf("artifact has %d top-level keys, want 6", len(raw))
	}

	if art.Document.ExportedBy != actor.ID.Hex() {
		t.Errorf("ExportedBy = %q, want invoking admin %q", art.Document.ExportedBy, actor.ID.Hex())
	}
	if art.Document.Profile == nil || art.Document.Profile.Email != target.Email {
		t.Error("profile does not reflect the target user")
	}
	if len(art.Document.Words) != 1 || len(art.Document.TestHistory) != 1 {
		t.Error("vocabulary data missing from document")
	}

	// exportedAt must round-trip as ISO-8601.
	var meta struct {
		ExportedAt time.Time `json:"exportedAt"`
	}
	if err := json.Unmarshal(art.Body, &meta); err != nil || meta.ExportedAt.IsZero() {
		t.Errorf("exportedAt not a parseable timestamp: %v", err)
	}

	if want := ExportFilename(target.Email, art.Document.ExportedAt); art.Filename != want {
		t.Errorf("Filename = %q, want %q", art.Filename, want)
	}
}

// A user with no vocabulary data still exports: the collections degrade
// to empty lists, not an error.
func TestExportWithNoVocabularyData(t *testing.T) {
	target := someUser()
	c := newTestController(&fakeDirectory{})

	art, err := c.ExportData(context.Background(), adminActor(), target)
	if err != nil {
		t.Fatalf("ExportData: %v", err)
	}
	if art.Document.Words == nil || art.Document.TestHistory == nil {
		t.Error("empty collections must be [] not null")
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(art.Body, &raw); err != nil {
		t.Fatal(err)
	}
	if string(raw["words"]) != "[]" {
		t.Errorf(`words = %s, want []`, raw["words"])
	}
	if string(raw["statistics"]) != "null" {
		t.Errorf("statistics = %s, want null for absent stats", raw["statistics"])
	}
}

// Exports for two different users run concurrently (Busy never reports
// one target because of the other).
func TestExportsIndependentPerTarget(t *testing.T) {
	c := newTestController(&fakeDirectory{})
	a, b := someUser(), someUser()

	if _, err := c.ExportData(context.Background(), adminActor(), a); err != nil {
		t.Fatal(err)
	}
	if c.Busy(KindExport, b.ID.Hex()) {
		t.Error("unrelated target reported busy")
	}
}
