package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/avoronin/placekeeper/internal/common"
	"github.com/avoronin/placekeeper/internal/server/auth"
	"github.com/avoronin/placekeeper/internal/server/config"
	"github.com/avoronin/placekeeper/internal/server/models"
)

func newUserFixture(t *testing.T) (*UserService, *fakeRepoManager, *fakeAssets) {
	t.Helper()
	db, _ := newSQLMockDB(t)
	t.Cleanup(func() { db.Close() })

	rm := &fakeRepoManager{
		u: &fakeUsersRepo{},
		p: &fakePlacesRepo{},
		o: &fakeOwnershipRepo{},
	}
	store := &fakeAssets{ref: "uploads/images/avatar.png"}
	cfg := &config.Config{SecretKey: "test-secret", TokenValidityDuration: time.Hour}

	return NewUserService(db, rm, store, testLogger(), cfg), rm, store
}

func TestSignup_Success(t *testing.T) {
	svc, rm, store := newUserFixture(t)
	rm.u.createOut = &models.User{ID: "u-1", Name: "Ann", Email: "ann@x.com"}

	result, err := svc.Signup(context.Background(), "Ann", "ann@x.com", "secret1", img, "image/png")
	if err != nil {
		t.Fatalf("Signup error: %v", err)
	}
	if result.UserID != "u-1" || result.Email != "ann@x.com" {
		t.Fatalf("unexpected result: %+v", result)
	}

	// token must verify with the same secret and carry the identity
	gotID, err := auth.GetUserIDFromToken(result.Token, []byte("test-secret"))
	if err != nil {
		t.Fatalf("token does not verify: %v", err)
	}
	if gotID != "u-1" {
		t.Fatalf("token identity mismatch: %q", gotID)
	}

	if len(store.stored) != 1 {
		t.Fatalf("profile image must be stored")
	}
	if len(store.removed) != 0 {
		t.Fatalf("no compensation on success")
	}
}

func TestSignup_DuplicateEmail(t *testing.T) {
	svc, rm, store := newUserFixture(t)
	rm.u.createErr = common.ErrorAlreadyExists

	_, err := svc.Signup(context.Background(), "Ann", "ann@x.com", "secret1", img, "image/png")
	if !errors.Is(err, common.ErrorAlreadyExists) {
		t.Fatalf("want common.ErrorAlreadyExists, got %v", err)
	}
	if len(store.removed) != 1 || store.removed[0] != store.ref {
		t.Fatalf("avatar must be removed after failed insert, removed=%v", store.removed)
	}
}

func TestSignup_AssetRejected(t *testing.T) {
	svc, _, store := newUserFixture(t)
	store.storeErr = common.ErrorAssetRejected

	_, err := svc.Signup(context.Background(), "Ann", "ann@x.com", "secret1", []byte("x"), "text/plain")
	if !errors.Is(err, common.ErrorAssetRejected) {
		t.Fatalf("want common.ErrorAssetRejected, got %v", err)
	}
}

func TestLogin_Success(t *testing.T) {
	svc, rm, _ := newUserFixture(t)

	hash, err := auth.HashPassword("secret1")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	rm.u.getByEmailOut = &models.User{ID: "u-1", Email: "ann@x.com", PasswordHash: hash}

	result, err := svc.Login(context.Background(), "ann@x.com", "secret1")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}
	if result.UserID != "u-1" || result.Token == "" {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, rm, _ := newUserFixture(t)

	hash, _ := auth.HashPassword("secret1")
	rm.u.getByEmailOut = &models.User{ID: "u-1", Email: "ann@x.com", PasswordHash: hash}

	_, err := svc.Login(context.Background(), "ann@x.com", "wrong")
	if !errors.Is(err, common.ErrorUnauthorized) {
		t.Fatalf("want common.ErrorUnauthorized, got %v", err)
	}
}

// Unknown email reports the same failure as a wrong password: account
// existence must not leak.
func TestLogin_UnknownEmail(t *testing.T) {
	svc, rm, _ := newUserFixture(t)
	rm.u.getByEmailErr = common.ErrorNotFound

	_, err := svc.Login(context.Background(), "ghost@x.com", "whatever")
	if !errors.Is(err, common.ErrorUnauthorized) {
		t.Fatalf("want common.ErrorUnauthorized, got %v", err)
	}
	if errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("login must not reveal that the account is missing")
	}
}

func TestUsers_EmptyListIsSuccess(t *testing.T) {
	svc, rm, _ := newUserFixture(t)
	rm.u.allOut = nil

	list, err := svc.Users(context.Background())
	if err != nil {
		t.Fatalf("Users error: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("expected empty list, got %v", list)
	}
}
