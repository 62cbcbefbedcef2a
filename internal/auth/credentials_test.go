package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/gamingrealm/backend/internal/apperr"
)

// fakeStore is an in-memory PasswordStore for unit tests
type fakeStore struct {
	hashes map[string]string
	err    error
}

func newFakeStore() *fakeStore {
	return &fakeStore{hashes: make(map[string]string)}
}

func (f *fakeStore) GetPasswordHash(_ context.Context, userID string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	hash, ok := f.hashes[userID]
	if !ok {
		return "", apperr.NotFound("password not found")
	}
	return hash, nil
}

func (f *fakeStore) SetPasswordHash(_ context.Context, userID, hash string) error {
	if f.err != nil {
		return f.err
	}
	f.hashes[userID] = hash
	return nil
}

func TestSetAndVerifyPassword(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	svc := NewService(store, testParams())

	if err := svc.SetPassword(ctx, "u1", "secret1"); err != nil {
		t.Fatalf("SetPassword failed: %v", err)
	}

	ok, err := svc.VerifyPassword(ctx, "u1", "secret1")
	if err != nil {
		t.Fatalf("VerifyPassword failed: %v", err)
	}
	if !ok {
		t.Error("correct password should verify")
	}

	ok, err = svc.VerifyPassword(ctx, "u1", "wrong")
	if err != nil {
		t.Fatalf("VerifyPassword failed: %v", err)
	}
	if ok {
		t.Error("wrong password should not verify")
	}
}

func TestVerifyUnknownUserFailsClosed(t *testing.T) {
	svc := NewService(newFakeStore(), testParams())

	ok, err := svc.VerifyPassword(context.Background(), "ghost", "anything")
	if err != nil {
		t.Fatalf("unknown user must not be an error, got: %v", err)
	}
	if ok {
		t.Error("unknown user must verify as false")
	}
}

func TestSetPasswordOverwrites(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	svc := NewService(store, testParams())

	if err := svc.SetPassword(ctx, "u1", "first-pass"); err != nil {
		t.Fatalf("SetPassword failed: %v", err)
	}
	if err := svc.SetPassword(ctx, "u1", "second-pass"); err != nil {
		t.Fatalf("SetPassword failed: %v", err)
	}

	if ok, _ := svc.VerifyPassword(ctx, "u1", "first-pass"); ok {
		t.Error("old password should no longer verify")
	}
	if ok, _ := svc.VerifyPassword(ctx, "u1", "second-pass"); !ok {
		t.Error("new password should verify")
	}
}

func TestSetPasswordTooShort(t *testing.T) {
	svc := NewService(newFakeStore(), testParams())

	err := svc.SetPassword(context.Background(), "u1", "short")
	if !apperr.IsInvalidArgument(err) {
		t.Errorf("expected invalid-argument error, got: %v", err)
	}
}

func TestVerifySurfacesStoreFailure(t *testing.T) {
	store := newFakeStore()
	store.err = apperr.Unavailable(errors.New("connection refused"))
	svc := NewService(store, testParams())

	_, err := svc.VerifyPassword(context.Background(), "u1", "secret1")
	if !apperr.IsUnavailable(err) {
		t.Errorf("transport failures must surface, got: %v", err)
	}
}

func TestHashWithoutStoring(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, testParams())

	hash, err := svc.Hash("secret1")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	if !VerifyPassword("secret1", hash) {
		t.Error("returned hash should verify the plaintext")
	}
	if len(store.hashes) != 0 {
		t.Error("Hash must not write to the store")
	}

	if _, err := svc.Hash("short"); !apperr.IsInvalidArgument(err) {
		t.Errorf("expected invalid-argument error, got: %v", err)
	}
}
