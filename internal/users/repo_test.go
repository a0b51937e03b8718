package users

import (
	"context"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/rafaelortiz/vendtrack-backend/internal/domain"
	"github.com/rafaelortiz/vendtrack-backend/pkg/db/models"
	pkgerrors "github.com/rafaelortiz/vendtrack-backend/pkg/errors"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&models.User{}, &models.Role{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	repo, err := NewRepository(conn)
	if err != nil {
		t.Fatalf("NewRepository: %v", err)
	}
	return repo
}

func TestFindByNameLoadsRoles(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	user := &domain.User{Name: "amal"}
	user.AddRole(domain.RoleSeller)
	if _, err := repo.Insert(ctx, user); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	found, ok, err := repo.FindByName(ctx, "amal")
	if err != nil || !ok {
		t.Fatalf("FindByName: ok=%v err=%v", ok, err)
	}
	if !found.HasRole(domain.RoleSeller) {
		t.Fatalf("expected seller role, got %+v", found.Roles)
	}

	_, ok, err = repo.FindByName(ctx, "nobody")
	if err != nil {
		t.Fatalf("FindByName absent: %v", err)
	}
	if ok {
		t.Fatal("expected absence")
	}
}

func TestSetPasswordHashUnknownUser(t *testing.T) {
	repo := newTestRepo(t)

	err := repo.SetPasswordHash(context.Background(), "no-such-id", "hash")
	if !pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestPasswordHashNeverEntersTheEntity(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	stored, err := repo.Insert(ctx, &domain.User{Name: "amal"})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := repo.SetPasswordHash(ctx, stored.ID, "argon2id$hash"); err != nil {
		t.Fatalf("SetPasswordHash: %v", err)
	}

	hash, ok, err := repo.PasswordHashByName(ctx, "amal")
	if err != nil || !ok {
		t.Fatalf("PasswordHashByName: ok=%v err=%v", ok, err)
	}
	if hash != "argon2id$hash" {
		t.Fatalf("unexpected hash %q", hash)
	}
}
