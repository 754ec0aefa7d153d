// internal/app/features/admin/controller.go
package admin

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dalemusser/vocabhub/internal/app/store/audit"
	"github.com/dalemusser/vocabhub/internal/app/system/auditlog"
	"github.com/dalemusser/vocabhub/internal/domain/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// UserDirectory is the user-record collaborator consumed by the controller.
type UserDirectory interface {
	ListAll(ctx context.Context) ([]models.User, error)
	SetActive(ctx context.Context, id primitive.ObjectID, active bool, actorID primitive.ObjectID) error
	DeleteByID(ctx context.Context, id primitive.ObjectID, actorID primitive.ObjectID) (int64, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, u models.User) (models.User, error)
	UpdateProfile(ctx context.Context, u models.User) error
}

// ResetSender triggers the out-of-band credential reset flow.
type ResetSender interface {
	SendPasswordReset(ctx context.Context, email string, actorID primitive.ObjectID) error
}

// VocabReader is the excluded vocabulary collaborator's read path. Its
// accessors never fail; they degrade to empty results.
type VocabReader interface {
	WordsByUser(ctx context.Context, userID primitive.ObjectID) []models.Word
	TestHistoryByUser(ctx context.Context, userID primitive.ObjectID) []models.TestResult
	StatisticsByUser(ctx context.Context, userID primitive.ObjectID) *models.Statistics
}

// Controller exposes the guarded, idempotent-per-target administrative
// mutations over the managed user collection.
//
// Concurrency model: the token set and the managed collection are owned
// exclusively by the controller. One token per (kind, target) pair may be
// live at a time; operations on different targets run fully in parallel.
// Tokens are released on every exit path. A collection reload racing a
// newer mutation is allowed; the later-completing read wins.
type Controller struct {
	users  UserDirectory
	resets ResetSender
	vocab  VocabReader
	audit  *auditlog.Logger
	log    *zap.Logger

	mu       sync.Mutex
	inflight map[OperationToken]struct{}
	pending  map[string]PendingConfirmation

	colMu      sync.Mutex
	collection []models.User
}

// NewController wires the controller to its collaborators.
func NewController(users UserDirectory, resets ResetSender, vocab VocabReader, auditLog *auditlog.Logger, logger *zap.Logger) *Controller {
	return &Controller{
		users:    users,
		resets:   resets,
		vocab:    vocab,
		audit:    auditLog,
		log:      logger,
		inflight: make(map[OperationToken]struct{}),
		pending:  make(map[string]PendingConfirmation),
	}
}

// --- token discipline ---

// acquire checks the actor's role at call time and claims the token for
// (kind, target). The returned release func is safe to defer and runs on
// every exit path.
func (c *Controller) acquire(actor Actor, kind OperationKind, target string) (release func(), err error) {
	if !actor.Role.IsAdmin {
		return nil, ErrNotAuthorized
	}

	tok := OperationToken{Kind: kind, Target: target}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, held := c.inflight[tok]; held {
		return nil, ErrOperationInFlight
	}
	c.inflight[tok] = struct{}{}

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.inflight, tok)
	}, nil
}

// Busy reports whether a token is live for the exact (kind, target) pair.
// The admin view uses it to disable just that affordance.
func (c *Controller) Busy(kind OperationKind, target string) bool {
	tok := OperationToken{Kind: kind, Target: target}
	c.mu.Lock()
	defer c.mu.Unlock()
	_, held := c.inflight[tok]
	return held
}

// --- managed collection ---

// Reload replaces the managed collection with a fresh read. Concurrent
// reloads race deliberately; the last writer is the one observers see.
func (c *Controller) Reload(ctx context.Context) error {
	users, err := c.users.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("reload user collection: %w", err)
	}
	c.colMu.Lock()
	c.collection = users
	c.colMu.Unlock()
	return nil
}

// Users returns a snapshot copy of the managed collection.
func (c *Controller) Users() []models.User {
	c.colMu.Lock()
	defer c.colMu.Unlock()
	out := make([]models.User, len(c.collection))
	copy(out, c.collection)
	return out
}

// --- operations ---

// ToggleStatus flips the target's active flag. The collection is reloaded
// after confirmation; nothing is mutated optimistically.
func (c *Controller) ToggleStatus(ctx context.Context, actor Actor, target models.User, desiredActive bool) error {
	release, err := c.acquire(actor, KindToggleStatus, target.ID.Hex())
	if err != nil {
		return c.rejected(ctx, KindToggleStatus, actor, target.ID, err)
	}
	defer release()

	opID := uuid.NewString()
	event := audit.EventUserDisabled
	if desiredActive {
		event = audit.EventUserEnabled
	}

	if err := c.users.SetActive(ctx, target.ID, desiredActive, actor.ID); err != nil {
		c.log.Error("toggle status failed",
			zap.String("target_id", target.ID.Hex()),
			zap.String("operation_id", opID),
			zap.Error(err))
		c.audit.AdminOperation(ctx, event, actor.ID, target.ID, opID, false, err.Error(), nil)
		return fmt.Errorf("toggle status for %s: %w", target.ID.Hex(), err)
	}

	c.audit.AdminOperation(ctx, event, actor.ID, target.ID, opID, true, "", map[string]string{
		"email": target.Email,
	})

	if err := c.Reload(ctx); err != nil {
		// The mutation itself succeeded; a failed refresh only delays
		// visibility until the next reload.
		c.log.Warn("collection reload after toggle failed", zap.Error(err))
	}
	return nil
}

// ResetPassword triggers the out-of-band credential reset flow for the
// target's email. The user record itself is not changed.
func (c *Controller) ResetPassword(ctx context.Context, actor Actor, target models.User) error {
	release, err := c.acquire(actor, KindResetPassword, target.ID.Hex())
	if err != nil {
		return c.rejected(ctx, KindResetPassword, actor, target.ID, err)
	}
	defer release()

	opID := uuid.NewString()
	if err := c.resets.SendPasswordReset(ctx, target.Email, actor.ID); err != nil {
		c.log.Error("password reset failed",
			zap.String("target_id", target.ID.Hex()),
			zap.String("operation_id", opID),
			zap.Error(err))
		c.audit.AdminOperation(ctx, audit.EventPasswordResetSent, actor.ID, target.ID, opID, false, err.Error(), nil)
		return fmt.Errorf("reset password for %s: %w", target.Email, err)
	}

	c.audit.AdminOperation(ctx, audit.EventPasswordResetSent, actor.ID, target.ID, opID, true, "", map[string]string{
		"email": target.Email,
	})
	return nil
}

// --- deletion confirmation protocol ---

// RequestDelete records the irreversible-action acknowledgment step for a
// deletion. No mutation happens until ConfirmDelete.
func (c *Controller) RequestDelete(target models.User) PendingConfirmation {
	p := PendingConfirmation{
		ID:        uuid.NewString(),
		Kind:      KindDelete,
		Target:    target,
		CreatedAt: time.Now(),
	}
	c.mu.Lock()
	c.pending[p.ID] = p
	c.mu.Unlock()
	return p
}

// CancelDelete aborts a pending deletion.
func (c *Controller) CancelDelete(confirmationID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.pending[confirmationID]; !ok {
		return ErrUnknownConfirmation
	}
	delete(c.pending, confirmationID)
	return nil
}

// ConfirmDelete resumes a pending deletion and performs it. On success the
// target disappears from the managed collection on the next reload; on
// failure the record is untouched.
func (c *Controller) ConfirmDelete(ctx context.Context, actor Actor, confirmationID string) error {
	c.mu.Lock()
	p, ok := c.pending[confirmationID]
	if ok {
		delete(c.pending, confirmationID)
	}
	c.mu.Unlock()
	if !ok {
		return ErrUnknownConfirmation
	}

	target := p.Target
	release, err := c.acquire(actor, KindDelete, target.ID.Hex())
	if err != nil {
		return c.rejected(ctx, KindDelete, actor, target.ID, err)
	}
	defer release()

	opID := uuid.NewString()
	deleted, err := c.users.DeleteByID(ctx, target.ID, actor.ID)
	if err != nil {
		c.log.Error("delete user failed",
			zap.String("target_id", target.ID.Hex()),
			zap.String("operation_id", opID),
			zap.Error(err))
		c.audit.AdminOperation(ctx, audit.EventUserDeleteFailed, actor.ID, target.ID, opID, false, err.Error(), nil)
		return fmt.Errorf("delete user %s: %w", target.ID.Hex(), err)
	}

	c.audit.AdminOperation(ctx, audit.EventUserDeleted, actor.ID, target.ID, opID, true, "", map[string]string{
		"email":   target.Email,
		"deleted": fmt.Sprintf("%d", deleted),
	})

	if err := c.Reload(ctx); err != nil {
		c.log.Warn("collection reload after delete failed", zap.Error(err))
	}
	return nil
}

// rejected audits precondition failures without holding a token.
func (c *Controller) rejected(ctx context.Context, kind OperationKind, actor Actor, targetID primitive.ObjectID, err error) error {
	c.audit.AdminOperation(ctx, audit.EventOperationRejected, actor.ID, targetID, "", false, err.Error(), map[string]string{
		"kind": string(kind),
	})
	return err
}
