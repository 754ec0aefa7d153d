// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/dalemusser/vocabhub/internal/app/system/tasks"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database/back-end dependencies for the app.
// Extend this struct as the app evolves.
type DBDeps struct {
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database

	// Identity is the bootstrap-phase snapshot source the gate watches.
	// It is created in ConnectDB so every later hook can publish to it.
	Identity *IdentityProvider

	// Tasks holds the periodic maintenance jobs. Jobs are added and
	// started in Startup and stopped in Shutdown.
	Tasks *tasks.Runner
}
