package user

import (
	"context"

	"gorm.io/gorm"

	"sns/internal/core/user"
)

// UserRepository persists users and follow relationships. Every method takes
// an optional transaction scope; nil means the ambient pooled connection.
type UserRepository interface {
	Create(ctx context.Context, scope *gorm.DB, u *user.User) (*user.User, error)
	FindByID(ctx context.Context, scope *gorm.DB, id uint) (*user.User, error)
	FindByEmail(ctx context.Context, scope *gorm.DB, email string) (*user.User, error)
	FindAll(ctx context.Context, scope *gorm.DB) ([]*user.User, error)
	FindByIDs(ctx context.Context, scope *gorm.DB, ids []uint) ([]*user.User, error)
	ExistsByNickname(ctx context.Context, scope *gorm.DB, nickname string) (bool, error)
	ExistsByEmail(ctx context.Context, scope *gorm.DB, email string) (bool, error)

	CreateFollow(ctx context.Context, scope *gorm.DB, f *user.UserFollow) (*user.UserFollow, error)
	FindFollow(ctx context.Context, scope *gorm.DB, followerID, followeeID uint) (*user.UserFollow, error)
	SaveFollow(ctx context.Context, scope *gorm.DB, f *user.UserFollow) error
	DeleteFollow(ctx context.Context, scope *gorm.DB, followerID, followeeID uint) error
	FindFollowers(ctx context.Context, scope *gorm.DB, followeeID uint, includeNotConfirmed bool) ([]*user.UserFollow, error)

	AdjustFollowerCount(ctx context.Context, scope *gorm.DB, userID uint, delta int) error
	AdjustFolloweeCount(ctx context.Context, scope *gorm.DB, userID uint, delta int) error
}

// UserCache holds user snapshots keyed by email. A miss is (nil, nil).
type UserCache interface {
	Get(ctx context.Context, email string) (*user.User, error)
	Set(ctx context.Context, u *user.User) error
	Invalidate(ctx context.Context, email string) error
}

// FollowerDTO is one entry of the follower listing.
type FollowerDTO struct {
	ID          uint   `json:"id"`
	Nickname    string `json:"nickname"`
	Email       string `json:"email"`
	IsConfirmed bool   `json:"isConfirmed"`
}
