package database

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"sns/internal/core/comment"
	"sns/internal/pagination"
)

// CommentRepositoryDatabase implements ports/comment.CommentRepository on gorm.
type CommentRepositoryDatabase struct{}

func NewCommentRepositoryDatabase() *CommentRepositoryDatabase {
	return &CommentRepositoryDatabase{}
}

func (repo *CommentRepositoryDatabase) Create(ctx context.Context, scope *gorm.DB, c *comment.Comment) (*comment.Comment, error) {
	if err := conn(ctx, scope).Create(c).Error; err != nil {
		return nil, err
	}
	return c, nil
}

func (repo *CommentRepositoryDatabase) FindByID(ctx context.Context, scope *gorm.DB, id uint) (*comment.Comment, error) {
	var c comment.Comment
	err := conn(ctx, scope).First(&c, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (repo *CommentRepositoryDatabase) Save(ctx context.Context, scope *gorm.DB, c *comment.Comment) error {
	return conn(ctx, scope).Save(c).Error
}

func (repo *CommentRepositoryDatabase) Delete(ctx context.Context, scope *gorm.DB, id uint) error {
	return conn(ctx, scope).Delete(&comment.Comment{}, id).Error
}

func (repo *CommentRepositoryDatabase) ExistsByIDAndAuthor(ctx context.Context, scope *gorm.DB, id, authorID uint) (bool, error) {
	var count int64
	err := conn(ctx, scope).Model(&comment.Comment{}).
		Where("id = ? AND author_id = ?", id, authorID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (repo *CommentRepositoryDatabase) Paginate(ctx context.Context, req *pagination.Request, base pagination.Scope, path string) (interface{}, error) {
	return pagination.Paginate[comment.Comment](req, conn(ctx, nil), base, path)
}
