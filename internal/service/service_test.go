package service

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/homely-dev/homely/internal/models"
)

// testDB creates an in-memory DB with all models migrated.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Space{},
		&models.Widget{},
		&models.Bookmark{},
		&models.Link{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// createTestUser inserts a user and returns its ID.
func createTestUser(t *testing.T, db *gorm.DB, username string) uuid.UUID {
	t.Helper()
	user := models.User{Username: username, Email: username + "@test.com", PasswordHash: "x"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user.UID
}

// createTestSpace inserts a space and returns it.
func createTestSpace(t *testing.T, db *gorm.DB, ownerID uuid.UUID, name string) *models.Space {
	t.Helper()
	space := models.Space{OwnerID: ownerID, Name: name}
	if err := db.Create(&space).Error; err != nil {
		t.Fatalf("create space: %v", err)
	}
	return &space
}
