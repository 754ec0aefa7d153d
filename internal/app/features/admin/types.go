// internal/app/features/admin/types.go
package admin

import (
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/vocabhub/internal/app/system/authz"
	"github.com/dalemusser/vocabhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OperationKind identifies one class of guarded admin mutation.
type OperationKind string

const (
	KindToggleStatus  OperationKind = "toggle_status"
	KindResetPassword OperationKind = "reset_password"
	KindExport        OperationKind = "export"
	KindImport        OperationKind = "import"
	KindDelete        OperationKind = "delete"
)

// OperationToken uniquely identifies one in-flight mutation. At most one
// live token exists per (Kind, Target) pair at any time. Target is the
// user's ObjectID hex, except for imports, where it is the normalized
// email carried by the payload (the record may not exist yet).
type OperationToken struct {
	Kind   OperationKind
	Target string
}

// Actor is the administrator invoking an operation. The ID is always an
// explicit audit parameter; it is never inferred from ambient state.
type Actor struct {
	ID   primitive.ObjectID
	Role authz.RoleInfo
}

// Operation-layer errors.
var (
	// ErrNotAuthorized rejects a call whose actor is not an admin at call
	// time. Role is re-checked per call, not cached from route entry.
	ErrNotAuthorized = errors.New("actor is not an administrator")
	// ErrOperationInFlight rejects a second call for a (kind, target)
	// pair whose token is already held.
	ErrOperationInFlight = errors.New("operation already in flight for this target")
	// ErrUnknownConfirmation rejects a confirm/cancel for a confirmation
	// that does not exist or was already resolved.
	ErrUnknownConfirmation = errors.New("unknown or expired confirmation")
)

// ValidationError marks a malformed import payload, rejected before any
// mutation is attempted.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid import payload: %s", e.Reason)
}

// ExportDocument is the snapshot artifact emitted by data export and
// accepted back by import. Top-level JSON keys are a wire contract.
type ExportDocument struct {
	Profile     *models.User        `json:"profile"`
	Words       []models.Word       `json:"words"`
	TestHistory []models.TestResult `json:"testHistory"`
	Statistics  *models.Statistics  `json:"statistics"`
	ExportedAt  time.Time           `json:"exportedAt"`
	ExportedBy  string              `json:"exportedBy"`
}

// ExportArtifact is a rendered export: the JSON body plus its
// deterministic filename.
type ExportArtifact struct {
	Filename string
	Body     []byte
	Document ExportDocument
}

// PendingConfirmation is an irreversible action awaiting its explicit
// acknowledgment. Created by RequestDelete, resolved by ConfirmDelete or
// CancelDelete.
type PendingConfirmation struct {
	ID        string
	Kind      OperationKind
	Target    models.User
	CreatedAt time.Time
}
