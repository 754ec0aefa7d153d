// internal/app/features/admin/import.go
package admin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dalemusser/vocabhub/internal/app/store/audit"
	userstore "github.com/dalemusser/vocabhub/internal/app/store/users"
	"github.com/dalemusser/vocabhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/vocabhub/internal/app/system/normalize"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ParseImport validates an export document without applying anything.
// Every rejection is a *ValidationError; nothing is mutated on this path.
func ParseImport(payload []byte) (*ExportDocument, error) {
	// Key presence is checked on the raw object: a struct decode cannot
	// distinguish a missing "profile" key from an explicit null.
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, &ValidationError{Reason: fmt.Sprintf("not a JSON object: %v", err)}
	}
	profileRaw, ok := raw["profile"]
	if !ok {
		return nil, &ValidationError{Reason: `missing "profile" key`}
	}
	if string(profileRaw) == "null" {
		return nil, &ValidationError{Reason: `"profile" is null`}
	}

	var doc ExportDocument
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil, &ValidationError{Reason: fmt.Sprintf("malformed document: %v", err)}
	}
	if doc.Profile == nil {
		return nil, &ValidationError{Reason: `"profile" is not an object`}
	}
	if normalize.Email(doc.Profile.Email) == "" {
		return nil, &ValidationError{Reason: "profile has no email"}
	}

	doc.Profile.Email = normalize.Email(doc.Profile.Email)
	doc.Profile.DisplayName = htmlsanitize.PlainText(doc.Profile.DisplayName)
	return &doc, nil
}

// ImportData parses a previously exported document and applies it.
// A malformed payload is rejected before any mutation; application is
// all-or-nothing. The in-flight token is keyed by the payload's email,
// since the record may not exist yet.
func (c *Controller) ImportData(ctx context.Context, actor Actor, payload []byte) error {
	doc, err := ParseImport(payload)
	if err != nil {
		c.audit.AdminOperation(ctx, audit.EventImportRejected, actor.ID, actor.ID, "", false, err.Error(), nil)
		return err
	}

	release, err := c.acquire(actor, KindImport, doc.Profile.Email)
	if err != nil {
		c.audit.AdminOperation(ctx, audit.EventOperationRejected, actor.ID, actor.ID, "", false, err.Error(), map[string]string{
			"kind":  string(KindImport),
			"email": doc.Profile.Email,
		})
		return err
	}
	defer release()

	opID := uuid.NewString()
	profile := *doc.Profile

	existing, err := c.users.GetByEmail(ctx, profile.Email)
	switch {
	case err == nil:
		// Email and ID are immutable; only the mutable profile fields apply.
		if err := c.users.UpdateProfile(ctx, profile); err != nil {
			return c.importFailed(ctx, actor, opID, profile.Email, err)
		}
		profile.ID = existing.ID
	case errors.Is(err, userstore.ErrNotFound):
		created, err := c.users.Create(ctx, profile)
		if err != nil {
			return c.importFailed(ctx, actor, opID, profile.Email, err)
		}
		profile.ID = created.ID
	default:
		return c.importFailed(ctx, actor, opID, profile.Email, err)
	}

	c.audit.AdminOperation(ctx, audit.EventUserDataImported, actor.ID, profile.ID, opID, true, "", map[string]string{
		"email": profile.Email,
		"words": fmt.Sprintf("%d", len(doc.Words)),
		"tests": fmt.Sprintf("%d", len(doc.TestHistory)),
	})

	if err := c.Reload(ctx); err != nil {
		c.log.Warn("collection reload after import failed", zap.Error(err))
	}
	return nil
}

func (c *Controller) importFailed(ctx context.Context, actor Actor, opID, email string, err error) error {
	c.log.Error("import failed",
		zap.String("email", email),
		zap.String("operation_id", opID),
		zap.Error(err))
	c.audit.AdminOperation(ctx, audit.EventUserDataImported, actor.ID, actor.ID, opID, false, err.Error(), map[string]string{
		"email": email,
	})
	return fmt.Errorf("import data for %s: %w", email, err)
}
