package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/louisbranch/crmdesk/internal/services/identity/storage"
	"github.com/louisbranch/crmdesk/internal/services/identity/user"
)

func openTempStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(context.Background(), filepath.Join(t.TempDir(), "identity.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Fatalf("close store: %v", err)
		}
	})
	return store
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open(context.Background(), ""); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestStoreNilSafe(t *testing.T) {
	var store *Store
	if store.DB() != nil {
		t.Fatal("expected nil DB for nil store")
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close nil store: %v", err)
	}
	if err := store.PutUser(context.Background(), user.User{ID: "u"}); err == nil {
		t.Fatal("expected error for nil store")
	}
}

func TestPutGetUserRoundTrip(t *testing.T) {
	store := openTempStore(t)
	ctx := context.Background()

	created := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	input := user.User{
		ID:                "user-1",
		Email:             "a@x.com",
		PasswordHash:      "hash",
		Metadata:          map[string]string{user.MetaCompany: "co1", user.MetaRole: "admin"},
		ConfirmationToken: "confirm-1",
		CreatedAt:         created,
		UpdatedAt:         created,
	}
	if err := store.PutUser(ctx, input); err != nil {
		t.Fatalf("put user: %v", err)
	}

	for name, get := range map[string]func() (user.User, error){
		"id":    func() (user.User, error) { return store.GetUser(ctx, "user-1") },
		"email": func() (user.User, error) { return store.GetUserByEmail(ctx, " A@X.com ") },
		"token": func() (user.User, error) { return store.GetUserByConfirmationToken(ctx, "confirm-1") },
	} {
		got, err := get()
		if err != nil {
			t.Fatalf("get by %s: %v", name, err)
		}
		if got.ID != "user-1" || got.Email != "a@x.com" || got.Metadata[user.MetaRole] != "admin" {
			t.Fatalf("get by %s: unexpected user %+v", name, got)
		}
		if !got.CreatedAt.Equal(created) || got.ConfirmedAt != nil {
			t.Fatalf("get by %s: unexpected timestamps %+v", name, got)
		}
	}
}

func TestPutUserRejectsDuplicateEmail(t *testing.T) {
	store := openTempStore(t)
	ctx := context.Background()
	now := time.Now()

	if err := store.PutUser(ctx, user.User{ID: "u1", Email: "a@x.com", PasswordHash: "h", CreatedAt: now, UpdatedAt: now}); err != nil {
		t.Fatalf("put user: %v", err)
	}
	err := store.PutUser(ctx, user.User{ID: "u2", Email: "a@x.com", PasswordHash: "h", CreatedAt: now, UpdatedAt: now})
	if !errors.Is(err, user.ErrEmailTaken) {
		t.Fatalf("expected %v, got %v", user.ErrEmailTaken, err)
	}
}

func TestGetUserNotFound(t *testing.T) {
	store := openTempStore(t)

	if _, err := store.GetUser(context.Background(), "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := store.GetUser(context.Background(), " "); err == nil {
		t.Fatal("expected error for empty id")
	}
}

func TestConfirmUserBurnsToken(t *testing.T) {
	store := openTempStore(t)
	ctx := context.Background()
	now := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)

	if err := store.PutUser(ctx, user.User{ID: "u1", Email: "a@x.com", PasswordHash: "h", ConfirmationToken: "tok", CreatedAt: now, UpdatedAt: now}); err != nil {
		t.Fatalf("put user: %v", err)
	}
	if err := store.ConfirmUser(ctx, "u1", now.Add(time.Minute)); err != nil {
		t.Fatalf("confirm: %v", err)
	}

	got, err := store.GetUser(ctx, "u1")
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if got.ConfirmedAt == nil || !got.ConfirmedAt.Equal(now.Add(time.Minute)) {
		t.Fatalf("expected confirmed at, got %v", got.ConfirmedAt)
	}
	if _, err := store.GetUserByConfirmationToken(ctx, "tok"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected burned token, got %v", err)
	}
	if err := store.ConfirmUser(ctx, "missing", now); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSessionLifecycle(t *testing.T) {
	store := openTempStore(t)
	ctx := context.Background()
	now := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)

	if err := store.PutUser(ctx, user.User{ID: "u1", Email: "a@x.com", PasswordHash: "h", CreatedAt: now, UpdatedAt: now}); err != nil {
		t.Fatalf("put user: %v", err)
	}
	session := storage.Session{ID: "s1", UserID: "u1", CreatedAt: now, ExpiresAt: now.Add(time.Hour)}
	if err := store.PutSession(ctx, session); err != nil {
		t.Fatalf("put session: %v", err)
	}

	got, err := store.GetSession(ctx, "s1")
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if !got.Active(now) {
		t.Fatalf("expected active session, got %+v", got)
	}

	if err := store.RevokeSession(ctx, "s1", now.Add(time.Minute)); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if err := store.RevokeSession(ctx, "s1", now.Add(2*time.Minute)); err != nil {
		t.Fatalf("revoke again: %v", err)
	}
	got, err = store.GetSession(ctx, "s1")
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if got.RevokedAt == nil || !got.RevokedAt.Equal(now.Add(time.Minute)) {
		t.Fatalf("expected first revocation kept, got %v", got.RevokedAt)
	}
	if got.Active(now) {
		t.Fatal("expected revoked session to be inactive")
	}

	if _, err := store.GetSession(ctx, "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := store.RevokeSession(ctx, "missing", now); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
