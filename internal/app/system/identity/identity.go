// Package identity defines the snapshot contract between the identity
// provider and the rest of the application.
//
// The provider (session layer plus profile store) is the only producer of
// State values. Downstream consumers (the bootstrap gate, the role
// resolver, the access router) observe snapshots and never mutate them.
package identity

import (
	"context"

	"github.com/dalemusser/vocabhub/internal/domain/models"
)

// ErrorInfo describes a provider-level failure.
type ErrorInfo struct {
	Code    string
	Message string
}

// RawUser is the provider's view of an authenticated principal before the
// application profile has been attached.
type RawUser struct {
	UID           string
	Email         string
	DisplayName   string
	EmailVerified bool
}

// State is one immutable snapshot of the identity provider.
//
// Invariants:
//   - HasError implies Err != nil.
//   - Authenticated implies RawUser and Profile are eventually present;
//     they may arrive on a later snapshot (Loading covers the gap).
type State struct {
	Ready         bool
	Initializing  bool
	Loading       bool
	Authenticated bool
	HasError      bool
	Err           *ErrorInfo
	RawUser       *RawUser
	Profile       *models.User

	// Seq is assigned by the Stream on publish; consumers use it to
	// discard stale re-deliveries.
	Seq uint64
}

// Provider is the identity collaborator as seen by the application core.
type Provider interface {
	// States returns the stream of identity snapshots.
	States() *Stream
	// ProfileByID loads the application profile for a principal.
	ProfileByID(ctx context.Context, id string) (*models.User, error)
}
