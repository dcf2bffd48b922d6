package store

import (
	"testing"

	"github.com/gatherly/gatherly/internal/database"
)

func setupUserTestDB(t *testing.T) *UserStore {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewUserStore(db)
}

func TestUserCRUD(t *testing.T) {
	us := setupUserTestDB(t)

	user, err := us.Create("host@example.com", "Host", "hashed-password")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if user.Email != "host@example.com" || user.Name != "Host" {
		t.Errorf("user = %+v", user)
	}
	if user.PasswordHash != "hashed-password" {
		t.Errorf("password hash = %q", user.PasswordHash)
	}

	got, err := us.GetByID(user.ID)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if got.Email != "host@example.com" {
		t.Errorf("got email = %q", got.Email)
	}

	updated, err := us.Update(user.ID, "new@example.com", "New Name")
	if err != nil {
		t.Fatalf("update user: %v", err)
	}
	if updated.Email != "new@example.com" || updated.Name != "New Name" {
		t.Errorf("updated = %+v", updated)
	}

	if err := us.Delete(user.ID); err != nil {
		t.Fatalf("delete user: %v", err)
	}
	got, err = us.GetByID(user.ID)
	if err != nil {
		t.Fatalf("get after delete: %v", err)
	}
	if got != nil {
		t.Error("deleted user should be gone")
	}
}

func TestUserGetByEmail(t *testing.T) {
	us := setupUserTestDB(t)

	if _, err := us.Create("host@example.com", "Host", "x"); err != nil {
		t.Fatalf("create user: %v", err)
	}

	got, err := us.GetByEmail("host@example.com")
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if got == nil || got.Name != "Host" {
		t.Errorf("got %+v", got)
	}

	missing, err := us.GetByEmail("nobody@example.com")
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if missing != nil {
		t.Errorf("got %+v, want nil", missing)
	}
}

func TestUserDuplicateEmail(t *testing.T) {
	us := setupUserTestDB(t)

	if _, err := us.Create("host@example.com", "Host", "x"); err != nil {
		t.Fatalf("create user: %v", err)
	}
	if _, err := us.Create("host@example.com", "Other", "y"); err == nil {
		t.Error("duplicate email should be rejected")
	}
}
