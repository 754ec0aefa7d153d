package userstore

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

// ResetMailer delivers the out-of-band credential reset message. The token
// travels only through the mailer; the store keeps a bcrypt hash.
type ResetMailer interface {
	SendPasswordReset(ctx context.Context, email, token string) error
}

const resetTokenTTL = 1 * time.Hour

// ResetStore issues and verifies password-reset tokens.
type ResetStore struct {
	c      *mongo.Collection
	mailer ResetMailer
}

// NewResetStore creates a ResetStore writing to the password_resets collection.
func NewResetStore(db *mongo.Database, mailer ResetMailer) *ResetStore {
	return &ResetStore{c: db.Collection("password_resets"), mailer: mailer}
}

type resetRecord struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Email     string             `bson:"email"`
	TokenHash []byte             `bson:"token_hash"`
	ActorID   primitive.ObjectID `bson:"actor_id"`
	ExpiresAt time.Time          `bson:"expires_at"`
	CreatedAt time.Time          `bson:"created_at"`
}

// SendPasswordReset generates a single-use token for the address, stores
// its hash, and hands the cleartext token to the mailer. It does not touch
// the user record itself.
func (s *ResetStore) SendPasswordReset(ctx context.Context, email string, actorID primitive.ObjectID) error {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return fmt.Errorf("generate reset token: %w", err)
	}
	token := base64.RawURLEncoding.EncodeToString(raw)

	hash, err := bcrypt.GenerateFromPassword([]byte(token), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash reset token: %w", err)
	}

	now := time.Now()
	rec := resetRecord{
		ID:        primitive.NewObjectID(),
		Email:     email,
		TokenHash: hash,
		ActorID:   actorID,
		ExpiresAt: now.Add(resetTokenTTL),
		CreatedAt: now,
	}
	if _, err := s.c.InsertOne(ctx, rec); err != nil {
		return fmt.Errorf("store reset token: %w", err)
	}

	if s.mailer != nil {
		if err := s.mailer.SendPasswordReset(ctx, email, token); err != nil {
			return fmt.Errorf("send reset mail: %w", err)
		}
	}
	return nil
}

// CleanupExpired removes reset records past their expiry and returns how
// many were deleted.
func (s *ResetStore) CleanupExpired(ctx context.Context) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"expires_at": bson.M{"$lt": time.Now()}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// VerifyToken checks a presented token against the newest unexpired record
// for the address and consumes it on success.
func (s *ResetStore) VerifyToken(ctx context.Context, email, token string) (bool, error) {
	var rec resetRecord
	err := s.c.FindOne(ctx, bson.M{
		"email":      email,
		"expires_at": bson.M{"$gt": time.Now()},
	}).Decode(&rec)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return false, nil
		}
		return false, err
	}

	if bcrypt.CompareHashAndPassword(rec.TokenHash, []byte(token)) != nil {
		return false, nil
	}

	// Single use.
	if _, err := s.c.DeleteOne(ctx, bson.M{"_id": rec.ID}); err != nil {
		return false, err
	}
	return true, nil
}
