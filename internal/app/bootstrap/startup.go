// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"errors"

	auditstore "github.com/dalemusser/vocabhub/internal/app/store/audit"
	userstore "github.com/dalemusser/vocabhub/internal/app/store/users"
	"github.com/dalemusser/vocabhub/internal/app/system/tasks"
	"github.com/dalemusser/vocabhub/internal/domain/models"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections
// and schema setup are complete, but before the HTTP handler is built.
//
// It is also the point where the bootstrap sequence is declared finished:
// the identity provider publishes its ready snapshot here, which moves
// the gate out of Initializing.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if appCfg.AdminEmail != "" {
		promoteAdmin(ctx, deps, appCfg.AdminEmail, logger)
	}

	// Periodic maintenance. The runner is stopped in Shutdown.
	resets := userstore.NewResetStore(deps.MongoDatabase, nil)
	deps.Tasks.Add(tasks.ResetTokenCleanupJob(resets, logger))
	deps.Tasks.Add(tasks.AuditRetentionJob(auditstore.New(deps.MongoDatabase), appCfg.AuditRetention, logger))
	deps.Tasks.Start()

	deps.Identity.Finish()
	return nil
}

// promoteAdmin makes sure the configured admin account carries the admin
// role. A missing account is fine: the promotion happens at first login
// instead, so this is best effort.
func promoteAdmin(ctx context.Context, deps DBDeps, email string, logger *zap.Logger) {
	users := userstore.New(deps.MongoDatabase)
	u, err := users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			logger.Info("admin account not present yet; skipping promotion",
				zap.String("email", email))
			return
		}
		logger.Warn("admin promotion lookup failed", zap.Error(err))
		return
	}
	if u.Role == models.RoleAdmin {
		return
	}
	if err := users.SetRole(ctx, email, models.RoleAdmin); err != nil {
		logger.Warn("admin promotion failed", zap.Error(err))
		return
	}
	logger.Info("promoted account to admin", zap.String("email", email))
}
