// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"

	auditstore "github.com/dalemusser/vocabhub/internal/app/store/audit"
	userstore "github.com/dalemusser/vocabhub/internal/app/store/users"
	"github.com/dalemusser/vocabhub/internal/app/system/tasks"
	"github.com/dalemusser/vocabhub/internal/app/system/validators"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// ConnectDB establishes the MongoDB connection and seeds the identity
// provider. A connection failure is published as a bootstrap failure
// before the error is returned, so anything already watching the stream
// sees the terminal condition.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	provider := NewIdentityProvider()
	deps := DBDeps{Identity: provider, Tasks: tasks.NewRunner(logger)}

	opts := options.Client().
		ApplyURI(appCfg.MongoURI).
		SetMaxPoolSize(appCfg.MongoMaxPoolSize).
		SetMinPoolSize(appCfg.MongoMinPoolSize)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		provider.Fail("db_connect", "could not connect to the database")
		return deps, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		provider.Fail("db_unreachable", "the database is unreachable")
		return deps, fmt.Errorf("mongo ping: %w", err)
	}

	deps.MongoClient = client
	deps.MongoDatabase = client.Database(appCfg.MongoDatabase)
	provider.SetUserStore(userstore.New(deps.MongoDatabase))

	logger.Info("mongo connected",
		zap.String("database", appCfg.MongoDatabase))
	return deps, nil
}

// EnsureSchema creates the collections, JSON-Schema validators, and
// indexes the stores rely on.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if err := validators.EnsureAll(ctx, deps.MongoDatabase); err != nil {
		deps.Identity.Fail("schema", "could not prepare the database collections")
		return fmt.Errorf("collection validators: %w", err)
	}
	if err := userstore.New(deps.MongoDatabase).EnsureIndexes(ctx); err != nil {
		deps.Identity.Fail("schema", "could not prepare the user collection")
		return fmt.Errorf("user indexes: %w", err)
	}
	if err := auditstore.New(deps.MongoDatabase).EnsureIndexes(ctx); err != nil {
		deps.Identity.Fail("schema", "could not prepare the audit collection")
		return fmt.Errorf("audit indexes: %w", err)
	}
	return nil
}
