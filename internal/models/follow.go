package models

import (
	"time"

	"gorm.io/gorm"
)

// Follow is a directed edge: FollowerID follows FolloweeID.
type Follow struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	FollowerID uint      `gorm:"not null;uniqueIndex:idx_follow_pair" json:"follower_id"`
	FolloweeID uint      `gorm:"not null;uniqueIndex:idx_follow_pair;index:idx_follows_followee" json:"followee_id"`
	CreatedAt  time.Time `json:"created_at"`

	Follower Profile `gorm:"foreignKey:FollowerID;constraint:OnDelete:CASCADE" json:"-"`
	Followee Profile `gorm:"foreignKey:FolloweeID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for GORM
func (Follow) TableName() string {
	return "follows"
}

// BeforeCreate rejects self follows.
func (f *Follow) BeforeCreate(_ *gorm.DB) error {
	if f.FollowerID == f.FolloweeID {
		return ErrSelfRelation
	}
	return nil
}
