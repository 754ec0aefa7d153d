// internal/app/system/tasks/jobs.go
package tasks

import (
	"context"
	"time"

	"github.com/dalemusser/vocabhub/internal/app/store/audit"
	userstore "github.com/dalemusser/vocabhub/internal/app/store/users"
	"go.uber.org/zap"
)

// ResetTokenCleanupJob removes expired password-reset records. This is a
// backup for when MongoDB's TTL cleanup is delayed; expired tokens are
// already rejected at verification time.
func ResetTokenCleanupJob(resets *userstore.ResetStore, logger *zap.Logger) Job {
	return Job{
		Name:     "reset-token-cleanup",
		Interval: 1 * time.Hour,
		Run: func(ctx context.Context) error {
			count, err := resets.CleanupExpired(ctx)
			if err != nil {
				return err
			}
			if count > 0 {
				logger.Debug("cleaned up expired reset tokens", zap.Int64("count", count))
			}
			return nil
		},
	}
}

// AuditRetentionJob prunes audit events older than the retention window.
func AuditRetentionJob(store *audit.Store, retention time.Duration, logger *zap.Logger) Job {
	return Job{
		Name:     "audit-retention",
		Interval: 24 * time.Hour,
		Run: func(ctx context.Context) error {
			count, err := store.PruneOlderThan(ctx, time.Now().Add(-retention))
			if err != nil {
				return err
			}
			if count > 0 {
				logger.Info("pruned old audit events",
					zap.Int64("count", count),
					zap.Duration("retention", retention))
			}
			return nil
		},
	}
}
