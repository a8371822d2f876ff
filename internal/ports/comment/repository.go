package comment

import (
	"context"

	"gorm.io/gorm"

	"sns/internal/core/comment"
	"sns/internal/pagination"
)

type CommentRepository interface {
	Create(ctx context.Context, scope *gorm.DB, c *comment.Comment) (*comment.Comment, error)
	FindByID(ctx context.Context, scope *gorm.DB, id uint) (*comment.Comment, error)
	Save(ctx context.Context, scope *gorm.DB, c *comment.Comment) error
	Delete(ctx context.Context, scope *gorm.DB, id uint) error
	ExistsByIDAndAuthor(ctx context.Context, scope *gorm.DB, id, authorID uint) (bool, error)
	Paginate(ctx context.Context, req *pagination.Request, base pagination.Scope, path string) (interface{}, error)
}
