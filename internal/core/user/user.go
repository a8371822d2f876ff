package user

import (
	"sns/internal/core/model"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type User struct {
	model.BaseModel
	Nickname      string `gorm:"size:20;unique;not null" json:"nickname"`
	Email         string `gorm:"unique;not null" json:"email"`
	Password      string `gorm:"not null" json:"-"`
	Role          Role   `gorm:"size:16;not null;default:user" json:"role"`
	FollowerCount int    `gorm:"not null;default:0" json:"followerCount"`
	FolloweeCount int    `gorm:"not null;default:0" json:"followeeCount"`
}

// UserFollow links a follower to a followee. Rows start unconfirmed; the
// followee confirms before either counter moves.
type UserFollow struct {
	model.BaseModel
	FollowerID  uint `gorm:"not null;index:idx_follow_pair,unique" json:"followerId"`
	FolloweeID  uint `gorm:"not null;index:idx_follow_pair,unique" json:"followeeId"`
	IsConfirmed bool `gorm:"not null;default:false" json:"isConfirmed"`
}
