package repo_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/rafaelortiz/vendtrack-backend/internal/domain"
	"github.com/rafaelortiz/vendtrack-backend/internal/users"
	"github.com/rafaelortiz/vendtrack-backend/internal/vending"
	"github.com/rafaelortiz/vendtrack-backend/pkg/db/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(
		&models.User{},
		&models.Role{},
		&models.Product{},
		&models.VendingMachine{},
		&models.InventoryLine{},
	); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return conn
}

func TestInsertAssignsIdentifiersToAggregate(t *testing.T) {
	db := newTestDB(t)
	repo, err := users.NewRepository(db)
	if err != nil {
		t.Fatalf("NewRepository: %v", err)
	}

	user := &domain.User{Name: "amal"}
	user.AddRole(domain.RoleBuyer)

	stored, err := repo.Insert(context.Background(), user)
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if stored.ID == "" {
		t.Fatal("expected user id to be assigned")
	}
	if len(stored.Roles) != 1 || stored.Roles[0].ID == "" {
		t.Fatalf("expected role with assigned id, got %+v", stored.Roles)
	}
	if stored.Roles[0].UserID != stored.ID {
		t.Fatalf("expected role to reference user, got %q", stored.Roles[0].UserID)
	}
}

func TestGetByIDAbsenceIsNotAnError(t *testing.T) {
	db := newTestDB(t)
	repo, err := users.NewRepository(db)
	if err != nil {
		t.Fatalf("NewRepository: %v", err)
	}

	_, found, err := repo.GetByID(context.Background(), "no-such-id")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found {
		t.Fatal("expected absence")
	}
}

func TestInsertUpsertsByIdentifier(t *testing.T) {
	db := newTestDB(t)
	repo, err := users.NewRepository(db)
	if err != nil {
		t.Fatalf("NewRepository: %v", err)
	}
	ctx := context.Background()

	user := &domain.User{Name: "amal", Deposit: decimal.NewFromInt(10)}
	stored, err := repo.Insert(ctx, user)
	if err != nil {
		t.Fatalf("first insert: %v", err)
	}

	stored.Deposit = decimal.NewFromInt(40)
	if _, err := repo.Insert(ctx, stored); err != nil {
		t.Fatalf("second insert: %v", err)
	}

	reloaded, found, err := repo.GetByID(ctx, stored.ID)
	if err != nil || !found {
		t.Fatalf("GetByID: found=%v err=%v", found, err)
	}
	if !reloaded.Deposit.Equal(decimal.NewFromInt(40)) {
		t.Fatalf("expected deposit 40, got %s", reloaded.Deposit)
	}

	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("upsert must not duplicate rows, got %d", count)
	}
}

func TestUpsertReplacesChildCollectionWholesale(t *testing.T) {
	db := newTestDB(t)
	repo, err := users.NewRepository(db)
	if err != nil {
		t.Fatalf("NewRepository: %v", err)
	}
	ctx := context.Background()

	user := &domain.User{Name: "amal"}
	user.AddRole(domain.RoleBuyer)
	stored, err := repo.Insert(ctx, user)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	// Re-inserting a user whose roles were rebuilt replaces the stored
	// collection; rows from the earlier write do not linger.
	stored.Roles = []*domain.Role{{Name: domain.RoleSeller, UserID: stored.ID}}
	reloaded, err := repo.Insert(ctx, stored)
	if err != nil {
		t.Fatalf("re-insert: %v", err)
	}

	if len(reloaded.Roles) != 1 || reloaded.Roles[0].Name != domain.RoleSeller {
		t.Fatalf("expected roles replaced, got %+v", reloaded.Roles)
	}

	var count int64
	if err := db.Model(&models.Role{}).Count(&count).Error; err != nil {
		t.Fatalf("count roles: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected old role rows removed, got %d", count)
	}
}

func TestUpsertPreservesUnmappedColumns(t *testing.T) {
	db := newTestDB(t)
	repo, err := users.NewRepository(db)
	if err != nil {
		t.Fatalf("NewRepository: %v", err)
	}
	ctx := context.Background()

	stored, err := repo.Insert(ctx, &domain.User{Name: "amal"})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := repo.SetPasswordHash(ctx, stored.ID, "argon2id$hash"); err != nil {
		t.Fatalf("SetPasswordHash: %v", err)
	}

	stored.Deposit = decimal.NewFromInt(20)
	if _, err := repo.Insert(ctx, stored); err != nil {
		t.Fatalf("re-insert: %v", err)
	}

	hash, found, err := repo.PasswordHashByName(ctx, "amal")
	if err != nil || !found {
		t.Fatalf("PasswordHashByName: found=%v err=%v", found, err)
	}
	if hash != "argon2id$hash" {
		t.Fatalf("password column must survive merges, got %q", hash)
	}
}

func TestChildIdentityStableAcrossRepeatedWrites(t *testing.T) {
	db := newTestDB(t)
	repo, err := vending.NewRepository(db)
	if err != nil {
		t.Fatalf("NewRepository: %v", err)
	}
	ctx := context.Background()

	machine := domain.NewVendingMachine("snacks", "VM-1", "lobby")
	line, err := domain.NewInventoryLine("p1", "s1", 10, decimal.NewFromInt(2))
	if err != nil {
		t.Fatalf("NewInventoryLine: %v", err)
	}
	machine.CreateInventoryLine(line)

	stored, err := repo.Insert(ctx, machine)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	lineID := stored.Inventory[0].ID
	if lineID == "" {
		t.Fatal("expected line id")
	}

	if err := stored.ResetInventoryItemQty("p1", 3); err != nil {
		t.Fatalf("reset: %v", err)
	}
	reloaded, err := repo.Insert(ctx, stored)
	if err != nil {
		t.Fatalf("re-insert: %v", err)
	}

	if reloaded.Inventory[0].ID != lineID {
		t.Fatalf("line identity changed across writes: %s -> %s", lineID, reloaded.Inventory[0].ID)
	}
	if reloaded.Inventory[0].AmountAvailable != 3 {
		t.Fatalf("expected amount 3, got %d", reloaded.Inventory[0].AmountAvailable)
	}
}

func TestGetAllReturnsEveryAggregate(t *testing.T) {
	db := newTestDB(t)
	repo, err := vending.NewRepository(db)
	if err != nil {
		t.Fatalf("NewRepository: %v", err)
	}
	ctx := context.Background()

	for _, name := range []string{"snacks", "drinks"} {
		if _, err := repo.Insert(ctx, domain.NewVendingMachine(name, "VM", "lobby")); err != nil {
			t.Fatalf("insert %s: %v", name, err)
		}
	}

	machines, err := repo.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if len(machines) != 2 {
		t.Fatalf("expected 2 machines, got %d", len(machines))
	}
}
