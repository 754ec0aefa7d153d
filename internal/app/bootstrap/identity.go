// internal/app/bootstrap/identity.go
package bootstrap

import (
	"context"

	userstore "github.com/dalemusser/vocabhub/internal/app/store/users"
	"github.com/dalemusser/vocabhub/internal/app/system/identity"
	"github.com/dalemusser/vocabhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IdentityProvider is the application's concrete identity.Provider. The
// startup sequence drives it through the bootstrap phases; each phase is
// published as an immutable snapshot on the stream the gate watches.
type IdentityProvider struct {
	stream *identity.Stream
	users  *userstore.Store
}

// NewIdentityProvider creates a provider whose first published snapshot
// is the initializing phase.
func NewIdentityProvider() *IdentityProvider {
	p := &IdentityProvider{stream: identity.NewStream()}
	p.stream.Publish(identity.State{Initializing: true})
	return p
}

// States returns the snapshot stream.
func (p *IdentityProvider) States() *identity.Stream {
	return p.stream
}

// SetUserStore attaches the profile store once the database is connected.
func (p *IdentityProvider) SetUserStore(s *userstore.Store) {
	p.users = s
}

// Finish publishes the ready snapshot. Startup calls it after every
// backend is connected and the schema is in place.
func (p *IdentityProvider) Finish() {
	p.stream.Publish(identity.State{Ready: true})
}

// Fail publishes a failure snapshot. The gate treats it as terminal.
func (p *IdentityProvider) Fail(code, message string) {
	p.stream.Publish(identity.State{
		HasError: true,
		Err:      &identity.ErrorInfo{Code: code, Message: message},
	})
}

// ProfileByID loads the application profile for a principal.
func (p *IdentityProvider) ProfileByID(ctx context.Context, id string) (*models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}
	return p.users.GetByID(ctx, oid)
}

var _ identity.Provider = (*IdentityProvider)(nil)
