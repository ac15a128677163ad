package models

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// ErrSelfRelation is returned by model hooks when both ends of an edge are the same profile.
var ErrSelfRelation = errors.New("relation endpoints must differ")

// Friendship is an undirected edge between two profiles. The pair is stored
// in canonical order (ProfileAID < ProfileBID) so that a single unique index
// covers both directions.
type Friendship struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ProfileAID uint      `gorm:"not null;uniqueIndex:idx_friendship_pair;index:idx_friendships_a" json:"profile_a_id"`
	ProfileBID uint      `gorm:"not null;uniqueIndex:idx_friendship_pair;index:idx_friendships_b" json:"profile_b_id"`
	CreatedAt  time.Time `json:"created_at"`

	// Relationships
	ProfileA Profile `gorm:"foreignKey:ProfileAID;constraint:OnDelete:CASCADE" json:"-"`
	ProfileB Profile `gorm:"foreignKey:ProfileBID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for GORM
func (Friendship) TableName() string {
	return "friendships"
}

// NewFriendship builds the canonical edge for a and b.
func NewFriendship(a, b uint) *Friendship {
	f := &Friendship{ProfileAID: a, ProfileBID: b}
	f.canonicalize()
	return f
}

// Other returns the end of the edge that is not profileID.
func (f *Friendship) Other(profileID uint) uint {
	if f.ProfileAID == profileID {
		return f.ProfileBID
	}
	return f.ProfileAID
}

func (f *Friendship) canonicalize() {
	if f.ProfileAID > f.ProfileBID {
		f.ProfileAID, f.ProfileBID = f.ProfileBID, f.ProfileAID
	}
}

// BeforeCreate enforces canonical order and rejects self edges.
func (f *Friendship) BeforeCreate(_ *gorm.DB) error {
	if f.ProfileAID == f.ProfileBID {
		return ErrSelfRelation
	}
	f.canonicalize()
	return nil
}
