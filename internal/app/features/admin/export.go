// internal/app/features/admin/export.go
package admin

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dalemusser/vocabhub/internal/app/store/audit"
	"github.com/dalemusser/vocabhub/internal/domain/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ExportFilename derives the deterministic artifact name from the target's
// email and a date.
func ExportFilename(email string, at time.Time) string {
	return fmt.Sprintf("user-data-%s-%s.json", email, at.Format("2006-01-02"))
}

// ExportData assembles the target's snapshot document and renders it as a
// downloadable JSON artifact. Vocabulary data missing or unavailable
// degrades to empty lists; the export itself still succeeds. Exports for
// different targets run in parallel.
func (c *Controller) ExportData(ctx context.Context, actor Actor, target models.User) (*ExportArtifact, error) {
	release, err := c.acquire(actor, KindExport, target.ID.Hex())
	if err != nil {
		return nil, c.rejected(ctx, KindExport, actor, target.ID, err)
	}
	defer release()

	opID := uuid.NewString()
	now := time.Now().UTC()

	doc := ExportDocument{
		Profile:     &target,
		Words:       c.vocab.WordsByUser(ctx, target.ID),
		TestHistory: c.vocab.TestHistoryByUser(ctx, target.ID),
		Statistics:  c.vocab.StatisticsByUser(ctx, target.ID),
		ExportedAt:  now,
		ExportedBy:  actor.ID.Hex(),
	}
	if doc.Words == nil {
		doc.Words = []models.Word{}
	}
	if doc.TestHistory == nil {
		doc.TestHistory = []models.TestResult{}
	}

	body, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		c.log.Error("export encode failed",
			zap.String("target_id", target.ID.Hex()),
			zap.String("operation_id", opID),
			zap.Error(err))
		c.audit.AdminOperation(ctx, audit.EventUserDataExported, actor.ID, target.ID, opID, false, err.Error(), nil)
		return nil, fmt.Errorf("encode export for %s: %w", target.Email, err)
	}

	art := &ExportArtifact{
		Filename: ExportFilename(target.Email, now),
		Body:     body,
		Document: doc,
	}

	c.audit.AdminOperation(ctx, audit.EventUserDataExported, actor.ID, target.ID, opID, true, "", map[string]string{
		"email":    target.Email,
		"filename": art.Filename,
		"words":    fmt.Sprintf("%d", len(doc.Words)),
		"tests":    fmt.Sprintf("%d", len(doc.TestHistory)),
	})
	return art, nil
}
