package commentapp

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"sns/internal/apperror"
	commentEntity "sns/internal/core/comment"
	"sns/internal/pagination"
	commentPort "sns/internal/ports/comment"
)

type CommentService struct {
	CommentRepository commentPort.CommentRepository
}

func NewCommentService(repo commentPort.CommentRepository) *CommentService {
	return &CommentService{CommentRepository: repo}
}

// PaginateComments lists the comments of one post; the post filter is pinned
// as a base override so clients cannot widen it.
func (s *CommentService) PaginateComments(ctx context.Context, req *pagination.Request, postID uint) (interface{}, error) {
	return s.CommentRepository.Paginate(ctx, req, func(db *gorm.DB) *gorm.DB {
		return db.Where("post_id = ?", postID)
	}, fmt.Sprintf("posts/%d/comments", postID))
}

func (s *CommentService) GetCommentByID(ctx context.Context, id uint) (*commentEntity.Comment, error) {
	c, err := s.CommentRepository.FindByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, apperror.Newf(apperror.NotFound, "comment %d does not exist", id)
	}
	return c, nil
}

func (s *CommentService) CreateComment(ctx context.Context, scope *gorm.DB, postID, authorID uint, text string) (*commentEntity.Comment, error) {
	return s.CommentRepository.Create(ctx, scope, &commentEntity.Comment{
		AuthorID: authorID,
		PostID:   postID,
		Comment:  text,
	})
}

func (s *CommentService) UpdateComment(ctx context.Context, id uint, text string) (*commentEntity.Comment, error) {
	c, err := s.GetCommentByID(ctx, id)
	if err != nil {
		return nil, err
	}

	c.Comment = text
	if err := s.CommentRepository.Save(ctx, nil, c); err != nil {
		return nil, err
	}
	return c, nil
}

// DeleteComment removes a comment inside the caller's transaction scope, so
// the post counter decrement in the same unit stays atomic with it.
func (s *CommentService) DeleteComment(ctx context.Context, scope *gorm.DB, id uint) error {
	if _, err := s.GetCommentByID(ctx, id); err != nil {
		return err
	}
	return s.CommentRepository.Delete(ctx, scope, id)
}

func (s *CommentService) IsCommentMine(ctx context.Context, userID, commentID uint) (bool, error) {
	return s.CommentRepository.ExistsByIDAndAuthor(ctx, nil, commentID, userID)
}
