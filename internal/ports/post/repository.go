package post

import (
	"context"

	"gorm.io/gorm"

	"sns/internal/core/post"
	"sns/internal/pagination"
)

// PostRepository persists posts and their attached images.
type PostRepository interface {
	Create(ctx context.Context, scope *gorm.DB, p *post.Post) (*post.Post, error)
	FindByID(ctx context.Context, scope *gorm.DB, id uint) (*post.Post, error)
	Save(ctx context.Context, scope *gorm.DB, p *post.Post) error
	Delete(ctx context.Context, scope *gorm.DB, id uint) error
	ExistsByID(ctx context.Context, scope *gorm.DB, id uint) (bool, error)
	ExistsByIDAndAuthor(ctx context.Context, scope *gorm.DB, id, authorID uint) (bool, error)
	AdjustCommentCount(ctx context.Context, scope *gorm.DB, postID uint, delta int) error
	CreateImage(ctx context.Context, scope *gorm.DB, img *post.PostImage) (*post.PostImage, error)
	Paginate(ctx context.Context, req *pagination.Request, base pagination.Scope, path string) (interface{}, error)
}
