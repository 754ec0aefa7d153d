package userstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/vocabhub/internal/app/system/normalize"
	"github.com/dalemusser/vocabhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrDuplicateEmail is returned when attempting to create a user with an email that already exists.
	ErrDuplicateEmail = errors.New("a user with this email already exists")
	// ErrNotFound is returned when the requested user does not exist.
	ErrNotFound  = errors.New("user not found")
	errBadRole   = errors.New(`role must be "guest"|"user"|"admin"`)
	errBadStatus = errors.New(`status must be "active"|"disabled"`)
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

// EnsureIndexes creates the unique email index.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.c.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

// GetByID loads a user by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// GetByEmail looks up a user by case-insensitive email.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"email": normalize.Email(email)}).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// ListAll returns every user record, ordered by folded display name then id.
// This feeds the admin surface's managed collection.
func (s *Store) ListAll(ctx context.Context) ([]models.User, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "display_name_ci", Value: 1},
		{Key: "_id", Value: 1},
	})
	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// Create inserts a new user after normalizing & validating fields.
func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	u.ID = primitive.NewObjectID()
	u.Email = normalize.Email(u.Email)
	u.DisplayName = normalize.Name(u.DisplayName)
	u.DisplayNameCI = text.Fold(u.DisplayName)
	if u.Role == "" {
		u.Role = models.RoleUser
	}
	if u.Status == "" {
		u.Status = models.StatusActive
	}

	switch u.Role {
	case models.RoleGuest, models.RoleUser, models.RoleAdmin:
		// ok
	default:
		return models.User{}, errBadRole
	}
	switch u.Status {
	case models.StatusActive, models.StatusDisabled:
		// ok
	default:
		return models.User{}, errBadStatus
	}

	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}
	return u, nil
}

// SetActive flips the account status. The actor id is recorded on the
// document for traceability; the audit trail proper lives in auditlog.
func (s *Store) SetActive(ctx context.Context, id primitive.ObjectID, active bool, actorID primitive.ObjectID) error {
	status := models.StatusDisabled
	if active {
		status = models.StatusActive
	}
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"status":            status,
		"status_changed_by": actorID,
		"updated_at":        time.Now(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateProfile overwrites the mutable profile fields of an existing user.
// Email and ID are immutable; the email here selects the record.
func (s *Store) UpdateProfile(ctx context.Context, u models.User) error {
	set := bson.M{
		"display_name":    normalize.Name(u.DisplayName),
		"display_name_ci": text.Fold(u.DisplayName),
		"role":            normalize.Role(u.Role),
		"status":          normalize.Status(u.Status),
		"email_verified":  u.EmailVerified,
		"updated_at":      time.Now(),
	}
	res, err := s.c.UpdateOne(ctx, bson.M{"email": normalize.Email(u.Email)}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SetRole changes the role of the user with the given email. Used by the
// startup admin-promotion path.
func (s *Store) SetRole(ctx context.Context, email, role string) error {
	role = normalize.Role(role)
	switch role {
	case models.RoleGuest, models.RoleUser, models.RoleAdmin:
	default:
		return errBadRole
	}
	res, err := s.c.UpdateOne(ctx,
		bson.M{"email": normalize.Email(email)},
		bson.M{"$set": bson.M{"role": role, "updated_at": time.Now()}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteByID removes a user record. Returns the number of documents
// deleted (0 or 1); callers treat 0 as ErrNotFound.
func (s *Store) DeleteByID(ctx context.Context, id primitive.ObjectID, actorID primitive.ObjectID) (int64, error) {
	_ = actorID // recorded by the caller's audit trail
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
