package postapp

import (
	"context"

	"gorm.io/gorm"

	"sns/internal/apperror"
	postEntity "sns/internal/core/post"
	"sns/internal/pagination"
	postPort "sns/internal/ports/post"
	"sns/internal/upload"
)

type PostService struct {
	PostRepository postPort.PostRepository
}

func NewPostService(repo postPort.PostRepository) *PostService {
	return &PostService{PostRepository: repo}
}

// PaginatePosts serves GET /posts in either pagination mode.
func (s *PostService) PaginatePosts(ctx context.Context, req *pagination.Request) (interface{}, error) {
	return s.PostRepository.Paginate(ctx, req, func(db *gorm.DB) *gorm.DB {
		return db.Preload("Images")
	}, "posts")
}

func (s *PostService) GetPostByID(ctx context.Context, scope *gorm.DB, id uint) (*postEntity.Post, error) {
	p, err := s.PostRepository.FindByID(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperror.Newf(apperror.NotFound, "post %d does not exist", id)
	}
	return p, nil
}

func (s *PostService) CreatePost(ctx context.Context, scope *gorm.DB, authorID uint, title, content string) (*postEntity.Post, error) {
	p := &postEntity.Post{
		AuthorID: authorID,
		Title:    title,
		Content:  content,
	}
	return s.PostRepository.Create(ctx, scope, p)
}

// AttachImage records one uploaded image against a post and moves the file
// out of the temp folder. Meant to run inside the create-post transaction;
// when the transaction rolls back the row disappears but the file move does
// not, so the move happens last.
func (s *PostService) AttachImage(ctx context.Context, scope *gorm.DB, postID uint, order int, fileName string) (*postEntity.PostImage, error) {
	img, err := s.PostRepository.CreateImage(ctx, scope, &postEntity.PostImage{
		PostID: postID,
		Order:  order,
		Path:   fileName,
	})
	if err != nil {
		return nil, err
	}

	if err := upload.PromotePostImage(fileName); err != nil {
		return nil, err
	}
	return img, nil
}

func (s *PostService) UpdatePost(ctx context.Context, id uint, title, content string) (*postEntity.Post, error) {
	p, err := s.GetPostByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}

	if title != "" {
		p.Title = title
	}
	if content != "" {
		p.Content = content
	}

	if err := s.PostRepository.Save(ctx, nil, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *PostService) DeletePost(ctx context.Context, id uint) error {
	if _, err := s.GetPostByID(ctx, nil, id); err != nil {
		return err
	}
	return s.PostRepository.Delete(ctx, nil, id)
}

func (s *PostService) CheckPostExists(ctx context.Context, id uint) (bool, error) {
	return s.PostRepository.ExistsByID(ctx, nil, id)
}

func (s *PostService) IsPostMine(ctx context.Context, userID, postID uint) (bool, error) {
	return s.PostRepository.ExistsByIDAndAuthor(ctx, nil, postID, userID)
}

func (s *PostService) IncrementCommentCount(ctx context.Context, scope *gorm.DB, postID uint) error {
	return s.PostRepository.AdjustCommentCount(ctx, scope, postID, 1)
}

func (s *PostService) DecrementCommentCount(ctx context.Context, scope *gorm.DB, postID uint) error {
	return s.PostRepository.AdjustCommentCount(ctx, scope, postID, -1)
}
