package repository

import "gorm.io/gorm"

// paginate applies LIMIT/OFFSET when limit is positive. A zero limit means
// "everything", never LIMIT 0.
func paginate(db *gorm.DB, limit, offset int) *gorm.DB {
	if limit > 0 {
		db = db.Limit(limit)
	}
	if offset > 0 {
		db = db.Offset(offset)
	}
	return db
}
