package admin

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	userstore "github.com/dalemusser/vocabhub/internal/app/store/users"
	"github.com/dalemusser/vocabhub/internal/app/system/authz"
	"github.com/dalemusser/vocabhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// fakeDirectory implements UserDirectory with programmable behavior.
type fakeDirectory struct {
	mu         sync.Mutex
	users      []models.User
	setActiveN int
	deleteN    int
	listN      int

	setActiveErr error
	deleteErr    error
	listErr      error

	// blockSetActive, when non-nil, stalls SetActive until closed.
	blockSetActive chan struct{}
	// entered signals each SetActive entry.
	entered chan struct{}
}

func (f *fakeDirectory) ListAll(ctx context.Context) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listN++
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]models.User, len(f.users))
	copy(out, f.users)
	return out, nil
}

func (f *fakeDirectory) SetActive(ctx context.Context, id primitive.ObjectID, active bool, actorID primitive.ObjectID) error {
	f.mu.Lock()
	f.setActiveN++
	block := f.blockSetActive
	entered := f.entered
	err := f.setActiveErr
	f.mu.Unlock()

	if entered != nil {
		entered <- struct{}{}
	}
	if block != nil {
		<-block
	}
	return err
}

func (f *fakeDirectory) DeleteByID(ctx context.Context, id primitive.ObjectID, actorID primitive.ObjectID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteN++
	if f.deleteErr != nil {
		return 0, f.deleteErr
	}
	kept := f.users[:0]
	var deleted int64
	for _, u := range f.users {
		if u.ID == id {
			deleted++
			continue
		}
		kept = append(kept, u)
	}
	f.users = kept
	return deleted, nil
}

func (f *fakeDirectory) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.users {
		if f.users[i].Email == email {
			u := f.users[i]
			return &u, nil
		}
	}
	return nil, userstore.ErrNotFound
}

func (f *fakeDirectory) Create(ctx context.Context, u models.User) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u.ID = primitive.NewObjectID()
	f.users = append(f.users, u)
	return u, nil
}

func (f *fakeDirectory) UpdateProfile(ctx context.Context, u models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.users {
		if f.users[i].Email == u.Email {
			f.users[i].DisplayName = u.DisplayName
			f.users[i].Role = u.Role
			f.users[i].Status = u.Status
			return nil
		}
	}
	return userstore.ErrNotFound
}

type fakeResets struct {
	mu    sync.Mutex
	sendN int
	err   error
}

func (f *fakeResets) SendPasswordReset(ctx context.Context, email string, actorID primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sendN++
	return f.err
}

type fakeVocab struct{}

func (fakeVocab) WordsByUser(ctx context.Context, id primitive.ObjectID) []models.Word { return nil }
func (fakeVocab) TestHistoryByUser(ctx context.Context, id primitive.ObjectID) []models.TestResult {
	return nil
}
func (fakeVocab) StatisticsByUser(ctx context.Context, id primitive.ObjectID) *models.Statistics {
	return nil
}

func newTestController(dir *fakeDirectory) *Controller {
	return NewController(dir, &fakeResets{}, fakeVocab{}, nil, zap.NewNop())
}

func adminActor() Actor {
	return Actor{ID: primitive.NewObjectID(), Role: authz.RoleInfo{Role: models.RoleAdmin, IsAdmin: true}}
}

func regularActor() Actor {
	return Actor{ID: primitive.NewObjectID(), Role: authz.RoleInfo{Role: models.RoleUser}}
}

func someUser() models.User {
	return models.User{ID: primitive.NewObjectID(), Email: "target@test.com", DisplayName: "Target"}
}

func TestNonAdminActorRejected(t *testing.T) {
	dir := &fakeDirectory{}
	c := newTestController(dir)
	target := someUser()
	ctx := context.Background()

	if err := c.ToggleStatus(ctx, regularActor(), target, false); !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("ToggleStatus err = %v, want ErrNotAuthorized", err)
	}
	if err := c.ResetPassword(ctx, regularActor(), target); !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("ResetPassword err = %v, want ErrNotAuthorized", err)
	}
	if _, err := c.ExportData(ctx, regularActor(), target); !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("ExportData err = %v, want ErrNotAuthorized", err)
	}
	if dir.setActiveN != 0 {
		t.Fatalf("store reached %d times by unauthorized actor", dir.setActiveN)
	}
}

// A second toggle for the same target while the first is in flight is
// rejected without touching the store, and the rejection does not disturb
// the running operation.
func TestSameTargetOperationExclusive(t *testing.T) {
	dir := &fakeDirectory{
		blockSetActive: make(chan struct{}),
		entered:        make(chan struct{}, 1),
	}
	c := newTestController(dir)
	target := someUser()
	ctx := context.Background()

	done := make(chan error, 1)
	go func() { done <- c.ToggleStatus(ctx, adminActor(), target, false) }()

	// Wait until the first operation holds its token inside the store call.
	<-dir.entered

	if !c.Busy(KindToggleStatus, target.ID.Hex()) {
		t.Fatal("Busy = false while operation in flight")
	}
	if err := c.ToggleStatus(ctx, adminActor(), target, false); !errors.Is(err, ErrOperationInFlight) {
		t.Fatalf("second call err = %v, want ErrOperationInFlight", err)
	}

	close(dir.blockSetActive)
	if err := <-done; err != nil {
		t.Fatalf("first call failed: %v", err)
	}

	if got := dir.setActiveN; got != 1 {
		t.Fatalf("store mutated %d times, want 1", got)
	}
	if c.Busy(KindToggleStatus, target.ID.Hex()) {
		t.Fatal("token still held after completion")
	}
}

// The same kind on different targets runs in parallel: neither call
// observes the other's token.
func TestDifferentTargetsRunInParallel(t *testing.T) {
	dir := &fakeDirectory{
		blockSetActive: make(chan struct{}),
		entered:        make(chan struct{}, 2),
	}
	c := newTestController(dir)
	ctx := context.Background()

	first := make(chan error, 1)
	second := make(chan error, 1)
	go func() { first <- c.ToggleStatus(ctx, adminActor(), someUser(), false) }()
	go func() { second <- c.ToggleStatus(ctx, adminActor(), someUser(), false) }()

	// Both must enter the store concurrently.
	for i := 0; i < 2; i++ {
		select {
		case <-dir.entered:
		case <-time.After(time.Second):
			t.Fatal("second operation blocked behind an unrelated target")
		}
	}

	close(dir.blockSetActive)
	if err := <-first; err != nil {
		t.Fatalf("first: %v", err)
	}
	if err := <-second; err != nil {
		t.Fatalf("second: %v", err)
	}
}

// Different kinds on the same target do not contend: the token is keyed
// by (kind, target), not target alone.
func TestDifferentKindsSameTargetDoNotContend(t *testing.T) {
	dir := &fakeDirectory{
		blockSetActive: make(chan struct{}),
		entered:        make(chan struct{}, 1),
	}
	c := newTestController(dir)
	target := someUser()
	ctx := context.Background()

	done := make(chan error, 1)
	go func() { done <- c.ToggleStatus(ctx, adminActor(), target, false) }()
	<-dir.entered

	if err := c.ResetPassword(ctx, adminActor(), target); err != nil {
		t.Fatalf("ResetPassword during toggle: %v", err)
	}

	close(dir.blockSetActive)
	if err := <-done; err != nil {
		t.Fatalf("toggle: %v", err)
	}
}

func TestTokenReleasedOnFailure(t *testing.T) {
	dir := &fakeDirectory{setActiveErr: errors.New("write concern failed")}
	c := newTestController(dir)
	target := someUser()
	ctx := context.Background()

	if err := c.ToggleStatus(ctx, adminActor(), target, false); err == nil {
		t.Fatal("expected failure")
	}
	if dir.setActiveN != 1 {
		t.Fatalf("store called %d times, want exactly 1 (no retry)", dir.setActiveN)
	}
	if c.Busy(KindToggleStatus, target.ID.Hex()) {
		t.Fatal("token leaked after failure")
	}

	// The target is operable again.
	dir.setActiveErr = nil
	if err := c.ToggleStatus(ctx, adminActor(), target, true); err != nil {
		t.Fatalf("retry after release failed: %v", err)
	}
}

func TestToggleReloadsCollection(t *testing.T) {
	target := someUser()
	dir := &fakeDirectory{users: []models.User{target}}
	c := newTestController(dir)
	ctx := context.Background()

	if err := c.ToggleStatus(ctx, adminActor(), target, false); err != nil {
		t.Fatalf("ToggleStatus: %v", err)
	}
	if got := c.Users(); len(got) != 1 {
		t.Fatalf("collection holds %d users after reload, want 1", len(got))
	}
	if dir.listN == 0 {
		t.Fatal("collection was not reloaded after toggle")
	}
}

func TestReloadFailureDoesNotFailOperation(t *testing.T) {
	target := someUser()
	dir := &fakeDirectory{listErr: errors.New("cursor timeout")}
	c := newTestController(dir)

	if err := c.ToggleStatus(context.Background(), adminActor(), target, false); err != nil {
		t.Fatalf("ToggleStatus = %v, want nil despite reload failure", err)
	}
}

func TestResetPasswordDoesNotTouchRecords(t *testing.T) {
	dir := &fakeDirectory{}
	resets := &fakeResets{}
	c := NewController(dir, resets, fakeVocab{}, nil, zap.NewNop())

	if err := c.ResetPassword(context.Background(), adminActor(), someUser()); err != nil {
		t.Fatalf("ResetPassword: %v", err)
	}
	if resets.sendN != 1 {
		t.Fatalf("sends = %d, want 1", resets.sendN)
	}
	if dir.setActiveN != 0 || dir.deleteN != 0 {
		t.Fatal("reset password mutated user records")
	}
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	target := someUser()
	dir := &fakeDirectory{users: []models.User{target}}
	c := newTestController(dir)
	ctx := context.Background()

	p := c.RequestDelete(target)
	if dir.deleteN != 0 {
		t.Fatal("RequestDelete must not mutate")
	}

	if err := c.ConfirmDelete(ctx, adminActor(), p.ID); err != nil {
		t.Fatalf("ConfirmDelete: %v", err)
	}
	if dir.deleteN != 1 {
		t.Fatalf("deletes = %d, want 1", dir.deleteN)
	}

	// Confirmation is single use.
	if err := c.ConfirmDelete(ctx, adminActor(), p.ID); !errors.Is(err, ErrUnknownConfirmation) {
		t.Fatalf("second confirm err = %v, want ErrUnknownConfirmation", err)
	}
}

func TestDeleteCancel(t *testing.T) {
	target := someUser()
	dir := &fakeDirectory{users: []models.User{target}}
	c := newTestController(dir)
	ctx := context.Background()

	p := c.RequestDelete(target)
	if err := c.CancelDelete(p.ID); err != nil {
		t.Fatalf("CancelDelete: %v", err)
	}
	if err := c.ConfirmDelete(ctx, adminActor(), p.ID); !errors.Is(err, ErrUnknownConfirmation) {
		t.Fatalf("confirm after cancel err = %v, want ErrUnknownConfirmation", err)
	}
	if err := c.CancelDelete("never-issued"); !errors.Is(err, ErrUnknownConfirmation) {
		t.Fatalf("cancel unknown err = %v, want ErrUnknownConfirmation", err)
	}
	if dir.deleteN != 0 {
		t.Fatal("cancelled delete still mutated")
	}
}

func TestConfirmDeleteRechecksActor(t *testing.T) {
	target := someUser()
	dir := &fakeDirectory{users: []models.User{target}}
	c := newTestController(dir)

	p := c.RequestDelete(target)
	err := c.ConfirmDelete(context.Background(), regularActor(), p.ID)
	if !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("err = %v, want ErrNotAuthorized", err)
	}
	if dir.deleteN != 0 {
		t.Fatal("unauthorized confirm mutated")
	}
}
