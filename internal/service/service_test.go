package service

import (
	"GoVault/config"
	"GoVault/internal/repo"
	"GoVault/internal/storage"
	"testing"

	"gorm.io/gorm"
)

var testDB *gorm.DB

// setupDB connects to the test database once and clears all tables.
func setupDB(t *testing.T) *gorm.DB {
	if testDB == nil {
		config.InitConfig()
		testDB = repo.InitMysqlTest()
	}
	cleanTables(t, testDB)
	return testDB
}

// cleanTables clears table data in foreign-key order.
func cleanTables(t *testing.T, db *gorm.DB) {
	db.Exec("SET FOREIGN_KEY_CHECKS = 0")
	tables := []string{"file_record", "orphan_object", "user_db"}
	for _, table := range tables {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			t.Fatalf("clean %s table failed: %v", table, err)
		}
	}
	db.Exec("SET FOREIGN_KEY_CHECKS = 1")
}

// newTestFiles builds a file service over the test DB and a memory store.
func newTestFiles(t *testing.T) (*Files, *storage.MemoryStore, *Users) {
	db := setupDB(t)
	store := storage.NewMemoryStore()
	reconciler := NewReconciler(db, store)
	files := NewFiles(db, store, "govault-test", nil, reconciler)
	return files, store, NewUsers(db)
}
