package models

import "time"

// Comment is a remark left by a profile on a note. CreatedAt is written once.
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	NoteID    uint      `gorm:"not null;index" json:"note_id"`
	ProfileID uint      `gorm:"not null;index" json:"profile_id"`
	Profile   Profile   `gorm:"foreignKey:ProfileID;constraint:OnDelete:CASCADE" json:"profile"`
	Note      Note      `gorm:"foreignKey:NoteID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time `gorm:"<-:create" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Comment) TableName() string {
	return "comments"
}
