package database

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"sns/internal/core/post"
	"sns/internal/pagination"
)

// PostRepositoryDatabase implements ports/post.PostRepository on gorm.
type PostRepositoryDatabase struct{}

func NewPostRepositoryDatabase() *PostRepositoryDatabase {
	return &PostRepositoryDatabase{}
}

func (repo *PostRepositoryDatabase) Create(ctx context.Context, scope *gorm.DB, p *post.Post) (*post.Post, error) {
	if err := conn(ctx, scope).Create(p).Error; err != nil {
		return nil, err
	}
	return p, nil
}

func (repo *PostRepositoryDatabase) FindByID(ctx context.Context, scope *gorm.DB, id uint) (*post.Post, error) {
	var p post.Post
	err := conn(ctx, scope).Preload("Images").First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (repo *PostRepositoryDatabase) Save(ctx context.Context, scope *gorm.DB, p *post.Post) error {
	return conn(ctx, scope).Save(p).Error
}

func (repo *PostRepositoryDatabase) Delete(ctx context.Context, scope *gorm.DB, id uint) error {
	return conn(ctx, scope).Delete(&post.Post{}, id).Error
}

func (repo *PostRepositoryDatabase) ExistsByID(ctx context.Context, scope *gorm.DB, id uint) (bool, error) {
	var count int64
	if err := conn(ctx, scope).Model(&post.Post{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (repo *PostRepositoryDatabase) ExistsByIDAndAuthor(ctx context.Context, scope *gorm.DB, id, authorID uint) (bool, error) {
	var count int64
	err := conn(ctx, scope).Model(&post.Post{}).
		Where("id = ? AND author_id = ?", id, authorID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (repo *PostRepositoryDatabase) AdjustCommentCount(ctx context.Context, scope *gorm.DB, postID uint, delta int) error {
	return conn(ctx, scope).Model(&post.Post{}).
		Where("id = ?", postID).
		UpdateColumn("comment_count", gorm.Expr("comment_count + ?", delta)).Error
}

func (repo *PostRepositoryDatabase) CreateImage(ctx context.Context, scope *gorm.DB, img *post.PostImage) (*post.PostImage, error) {
	if err := conn(ctx, scope).Create(img).Error; err != nil {
		return nil, err
	}
	return img, nil
}

func (repo *PostRepositoryDatabase) Paginate(ctx context.Context, req *pagination.Request, base pagination.Scope, path string) (interface{}, error) {
	return pagination.Paginate[post.Post](req, conn(ctx, nil), base, path)
}
