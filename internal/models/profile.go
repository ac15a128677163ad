package models

import (
	"strings"
	"time"
)

// DefaultAvatarURL is served for profiles that never uploaded an avatar.
const DefaultAvatarURL = "/static/avatars/default.png"

// Profile is a member of the social graph.
type Profile struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	FirstName string     `gorm:"size:100;not null" json:"first_name"`
	LastName  string     `gorm:"size:100;not null" json:"last_name"`
	Email     string     `gorm:"size:255;uniqueIndex;not null" json:"email"`
	City      string     `gorm:"size:100" json:"city"`
	Bio       string     `gorm:"type:text" json:"bio"`
	AvatarURL string     `json:"avatar_url"`
	BirthDate *time.Time `json:"birth_date,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Profile) TableName() string {
	return "profiles"
}

// DisplayName joins first and last name.
func (p *Profile) DisplayName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// AvatarOrDefault returns the avatar reference, falling back to DefaultAvatarURL.
func (p *Profile) AvatarOrDefault() string {
	if strings.TrimSpace(p.AvatarURL) == "" {
		return DefaultAvatarURL
	}
	return p.AvatarURL
}

// ProfileStats is computed on demand and never stored.
type ProfileStats struct {
	ProfileID            uint  `json:"profile_id"`
	NotesCount           int64 `json:"notes_count"`
	LikedNotesCount      int64 `json:"liked_notes_count"`
	BookmarkedNotesCount int64 `json:"bookmarked_notes_count"`
	TotalLikesReceived   int64 `json:"total_likes_received"`
	FollowersCount       int64 `json:"followers_count"`
	FollowingCount       int64 `json:"following_count"`
	FriendsCount         int64 `json:"friends_count"`
}

// FriendSuggestion is a profile that is not yet a friend. Mutual is only
// populated by ranked suggestions.
type FriendSuggestion struct {
	Profile
	Mutual int64 `gorm:"->;column:mutual" json:"mutual_friends"`
}
