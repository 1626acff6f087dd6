package db

import (
	"os"
	"path/filepath"
	"testing"

	"classfeedback/internal/domain"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	if err := Migrate(gdb); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}
	return gdb
}

func writeRoster(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "roster.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write roster file: %v", err)
	}
	return path
}

func TestSeedFromCSV(t *testing.T) {
	gdb := newTestDB(t)
	path := writeRoster(t, "Alice Smith,Alice@Example.com\nBob Jones,bob@example.com\n")

	if err := SeedFromCSV(gdb, path); err != nil {
		t.Fatalf("SeedFromCSV failed: %v", err)
	}

	var users []domain.User
	if err := gdb.Order("name").Find(&users).Error; err != nil {
		t.Fatalf("Failed to load users: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 seeded users, got %d", len(users))
	}
	if users[0].Email != "alice@example.com" {
		t.Errorf("email not normalized: %q", users[0].Email)
	}
	if users[0].HasPassword() {
		t.Error("seeded users must start without a credential")
	}
}

func TestSeedFromCSVSkipsNonEmptyTable(t *testing.T) {
	gdb := newTestDB(t)
	if err := gdb.Create(&domain.User{Name: "Existing", Email: "existing@example.com"}).Error; err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	path := writeRoster(t, "Alice,alice@example.com\n")

	if err := SeedFromCSV(gdb, path); err != nil {
		t.Fatalf("SeedFromCSV failed: %v", err)
	}

	var count int64
	gdb.Model(&domain.User{}).Count(&count)
	if count != 1 {
		t.Fatalf("seed ran against a non-empty table: %d users", count)
	}
}

func TestOpenRejectsUnknownScheme(t *testing.T) {
	if _, err := Open("mongodb://localhost/whatever"); err == nil {
		t.Fatal("expected an error for an unsupported scheme")
	}
}
