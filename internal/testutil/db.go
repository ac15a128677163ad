// Package testutil holds helpers shared by package tests.
package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"quad/internal/config"
	"quad/internal/database"
	"quad/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var dbSeq atomic.Int64

// NewSQLiteDB opens a private in-memory database with the full schema. A
// single connection is used so transactions serialize the way row locks do
// on PostgreSQL.
func NewSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := fmt.Sprintf("file:quad_test_%d?mode=memory&cache=shared", dbSeq.Add(1))
	db, err := database.Open(sqlite.Open(name), &config.Config{Env: "test", DBMaxOpenConns: 1})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// CreateProfiles inserts n profiles named after prefix and returns them in id order.
func CreateProfiles(t *testing.T, db *gorm.DB, prefix string, n int) []models.Profile {
	t.Helper()
	profiles := make([]models.Profile, n)
	for i := range profiles {
		profiles[i] = models.Profile{
			FirstName: fmt.Sprintf("%s%d", prefix, i+1),
			LastName:  "Tester",
			Email:     fmt.Sprintf("%s%d@example.com", prefix, i+1),
		}
		if err := db.Create(&profiles[i]).Error; err != nil {
			t.Fatalf("create profile: %v", err)
		}
	}
	return profiles
}

// CreateNote inserts a note authored by authorID.
func CreateNote(t *testing.T, db *gorm.DB, authorID uint, title string) models.Note {
	t.Helper()
	note := models.Note{Title: title, Content: title + " body", AuthorID: authorID}
	if err := db.Create(&note).Error; err != nil {
		t.Fatalf("create note: %v", err)
	}
	return note
}
