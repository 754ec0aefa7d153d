// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Roles a user account can hold. Only "admin" unlocks the admin surface;
// there is no privilege ordering between the others.
const (
	RoleGuest = "guest"
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Account statuses.
const (
	StatusActive   = "active"
	StatusDisabled = "disabled"
)

// User represents a learner or administrator account.
//
// NOTE:
//   - Email and ID are immutable after creation.
//   - Role and Status change only through the admin surface or the
//     owner's own account actions.
type User struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email         string             `bson:"email" json:"email"`
	DisplayName   string             `bson:"display_name,omitempty" json:"display_name,omitempty"`
	DisplayNameCI string             `bson:"display_name_ci,omitempty" json:"display_name_ci,omitempty"` // lowercase, diacritics-stripped
	Role          string             `bson:"role" json:"role"`                                           // guest | user | admin
	Status        string             `bson:"status,omitempty" json:"status,omitempty"`                   // active | disabled
	EmailVerified bool               `bson:"email_verified" json:"email_verified"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// IsActive reports whether the account may sign in.
func (u *User) IsActive() bool {
	return u.Status == "" || u.Status == StatusActive
}
