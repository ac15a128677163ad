package models

import "time"

// Note is a piece of content authored by a profile. LikeCount and
// BookmarkCount always equal the size of the matching membership set; they
// are only written by the engagement toggles.
type Note struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Title         string    `gorm:"size:200;not null" json:"title"`
	Content       string    `gorm:"type:text;not null" json:"content"`
	AuthorID      uint      `gorm:"not null;index" json:"author_id"`
	Author        Profile   `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author"`
	LikeCount     int64     `gorm:"not null;default:0;index" json:"like_count"`
	BookmarkCount int64     `gorm:"not null;default:0" json:"bookmark_count"`
	CreatedAt     time.Time `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Note) TableName() string {
	return "notes"
}

// NoteLike records that a profile likes a note.
type NoteLike struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	NoteID    uint      `gorm:"not null;uniqueIndex:idx_note_like_pair" json:"note_id"`
	ProfileID uint      `gorm:"not null;uniqueIndex:idx_note_like_pair;index" json:"profile_id"`
	CreatedAt time.Time `json:"created_at"`

	Note    Note    `gorm:"foreignKey:NoteID;constraint:OnDelete:CASCADE" json:"-"`
	Profile Profile `gorm:"foreignKey:ProfileID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for GORM
func (NoteLike) TableName() string {
	return "note_likes"
}

// NoteBookmark records that a profile bookmarked a note.
type NoteBookmark struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	NoteID    uint      `gorm:"not null;uniqueIndex:idx_note_bookmark_pair" json:"note_id"`
	ProfileID uint      `gorm:"not null;uniqueIndex:idx_note_bookmark_pair;index" json:"profile_id"`
	CreatedAt time.Time `json:"created_at"`

	Note    Note    `gorm:"foreignKey:NoteID;constraint:OnDelete:CASCADE" json:"-"`
	Profile Profile `gorm:"foreignKey:ProfileID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for GORM
func (NoteBookmark) TableName() string {
	return "note_bookmarks"
}

// EngagementKind selects which membership set a toggle operates on.
type EngagementKind string

const (
	EngagementLike     EngagementKind = "like"
	EngagementBookmark EngagementKind = "bookmark"
)

// ToggleResult is the state of a membership set after a toggle.
type ToggleResult struct {
	NoteID    uint           `json:"note_id"`
	ProfileID uint           `json:"profile_id"`
	Kind      EngagementKind `json:"kind"`
	Active    bool           `json:"active"`
	Count     int64          `json:"count"`
}

// NoteFilter narrows a note listing.
type NoteFilter struct {
	AuthorName string
	AuthorID   uint
	Sort       string
	Limit      int
	Offset     int
}

// Note listing sort keys.
const (
	NoteSortNewest = "newest"
	NoteSortOldest = "oldest"
	NoteSortLikes  = "likes"
	NoteSortTitle  = "title"
)
