package database

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"sns/internal/core/user"
)

// UserRepositoryDatabase implements ports/user.UserRepository on gorm.
type UserRepositoryDatabase struct{}

func NewUserRepositoryDatabase() *UserRepositoryDatabase {
	return &UserRepositoryDatabase{}
}

func (repo *UserRepositoryDatabase) Create(ctx context.Context, scope *gorm.DB, u *user.User) (*user.User, error) {
	if err := conn(ctx, scope).Create(u).Error; err != nil {
		return nil, err
	}
	return u, nil
}

func (repo *UserRepositoryDatabase) FindByID(ctx context.Context, scope *gorm.DB, id uint) (*user.User, error) {
	var u user.User
	err := conn(ctx, scope).First(&u, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (repo *UserRepositoryDatabase) FindByEmail(ctx context.Context, scope *gorm.DB, email string) (*user.User, error) {
	var u user.User
	err := conn(ctx, scope).Where("email = ?", email).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (repo *UserRepositoryDatabase) FindAll(ctx context.Context, scope *gorm.DB) ([]*user.User, error) {
	var users []*user.User
	if err := conn(ctx, scope).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (repo *UserRepositoryDatabase) FindByIDs(ctx context.Context, scope *gorm.DB, ids []uint) ([]*user.User, error) {
	users := []*user.User{}
	if len(ids) == 0 {
		return users, nil
	}
	if err := conn(ctx, scope).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (repo *UserRepositoryDatabase) ExistsByNickname(ctx context.Context, scope *gorm.DB, nickname string) (bool, error) {
	var count int64
	if err := conn(ctx, scope).Model(&user.User{}).Where("nickname = ?", nickname).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (repo *UserRepositoryDatabase) ExistsByEmail(ctx context.Context, scope *gorm.DB, email string) (bool, error) {
	var count int64
	if err := conn(ctx, scope).Model(&user.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (repo *UserRepositoryDatabase) CreateFollow(ctx context.Context, scope *gorm.DB, f *user.UserFollow) (*user.UserFollow, error) {
	if err := conn(ctx, scope).Create(f).Error; err != nil {
		return nil, err
	}
	return f, nil
}

func (repo *UserRepositoryDatabase) FindFollow(ctx context.Context, scope *gorm.DB, followerID, followeeID uint) (*user.UserFollow, error) {
	var f user.UserFollow
	err := conn(ctx, scope).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		First(&f).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (repo *UserRepositoryDatabase) SaveFollow(ctx context.Context, scope *gorm.DB, f *user.UserFollow) error {
	return conn(ctx, scope).Save(f).Error
}

func (repo *UserRepositoryDatabase) DeleteFollow(ctx context.Context, scope *gorm.DB, followerID, followeeID uint) error {
	return conn(ctx, scope).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Delete(&user.UserFollow{}).Error
}

func (repo *UserRepositoryDatabase) FindFollowers(ctx context.Context, scope *gorm.DB, followeeID uint, includeNotConfirmed bool) ([]*user.UserFollow, error) {
	q := conn(ctx, scope).Where("followee_id = ?", followeeID)
	if !includeNotConfirmed {
		q = q.Where("is_confirmed = ?", true)
	}

	follows := []*user.UserFollow{}
	if err := q.Find(&follows).Error; err != nil {
		return nil, err
	}
	return follows, nil
}

func (repo *UserRepositoryDatabase) AdjustFollowerCount(ctx context.Context, scope *gorm.DB, userID uint, delta int) error {
	return conn(ctx, scope).Model(&user.User{}).
		Where("id = ?", userID).
		UpdateColumn("follower_count", gorm.Expr("follower_count + ?", delta)).Error
}

func (repo *UserRepositoryDatabase) AdjustFolloweeCount(ctx context.Context, scope *gorm.DB, userID uint, delta int) error {
	return conn(ctx, scope).Model(&user.User{}).
		Where("id = ?", userID).
		UpdateColumn("followee_count", gorm.Expr("followee_count + ?", delta)).Error
}
