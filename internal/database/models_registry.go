package database

import "quad/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
// Order matters: referenced tables come first.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.Profile{},
		&models.Friendship{},
		&models.Follow{},
		&models.Note{},
		&models.NoteLike{},
		&models.NoteBookmark{},
		&models.Comment{},
		&models.VoterRecord{},
	}
}
