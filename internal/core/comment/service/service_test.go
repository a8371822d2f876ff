package commentapp

import (
	"context"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"sns/internal/apperror"
	commentEntity "sns/internal/core/comment"
	"sns/internal/pagination"
)

type fakeCommentRepository struct {
	comments map[uint]*commentEntity.Comment
	nextID   uint

	paginatePath string
}

func newFakeCommentRepository() *fakeCommentRepository {
	return &fakeCommentRepository{comments: map[uint]*commentEntity.Comment{}}
}

func (f *fakeCommentRepository) Create(_ context.Context, _ *gorm.DB, c *commentEntity.Comment) (*commentEntity.Comment, error) {
	f.nextID++
	c.ID = f.nextID
	f.comments[c.ID] = c
	return c, nil
}

func (f *fakeCommentRepository) FindByID(_ context.Context, _ *gorm.DB, id uint) (*commentEntity.Comment, error) {
	return f.comments[id], nil
}

func (f *fakeCommentRepository) Save(_ context.Context, _ *gorm.DB, c *commentEntity.Comment) error {
	f.comments[c.ID] = c
	return nil
}

func (f *fakeCommentRepository) Delete(_ context.Context, _ *gorm.DB, id uint) error {
	delete(f.comments, id)
	return nil
}

func (f *fakeCommentRepository) ExistsByIDAndAuthor(_ context.Context, _ *gorm.DB, id, authorID uint) (bool, error) {
	c, ok := f.comments[id]
	return ok && c.AuthorID == authorID, nil
}

func (f *fakeCommentRepository) Paginate(_ context.Context, _ *pagination.Request, _ pagination.Scope, path string) (interface{}, error) {
	f.paginatePath = path
	return nil, nil
}

func TestCommentLifecycle(t *testing.T) {
	repo := newFakeCommentRepository()
	svc := NewCommentService(repo)
	ctx := context.Background()

	c, err := svc.CreateComment(ctx, nil, 5, 1, "nice post")
	require.NoError(t, err)
	assert.Equal(t, uint(5), c.PostID)
	assert.Equal(t, uint(1), c.AuthorID)

	updated, err := svc.UpdateComment(ctx, c.ID, "edited")
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Comment)

	mine, err := svc.IsCommentMine(ctx, 1, c.ID)
	require.NoError(t, err)
	assert.True(t, mine)
	mine, err = svc.IsCommentMine(ctx, 2, c.ID)
	require.NoError(t, err)
	assert.False(t, mine)

	require.NoError(t, svc.DeleteComment(ctx, nil, c.ID))
	_, err = svc.GetCommentByID(ctx, c.ID)
	require.Error(t, err)
	assert.Equal(t, apperror.NotFound, apperror.KindOf(err))
}

func TestCommentNotFound(t *testing.T) {
	svc := NewCommentService(newFakeCommentRepository())
	ctx := context.Background()

	_, err := svc.GetCommentByID(ctx, 42)
	require.Error(t, err)
	assert.Equal(t, apperror.NotFound, apperror.KindOf(err))

	_, err = svc.UpdateComment(ctx, 42, "x")
	require.Error(t, err)

	err = svc.DeleteComment(ctx, nil, 42)
	require.Error(t, err)
}

func TestPaginateCommentsPath(t *testing.T) {
	repo := newFakeCommentRepository()
	svc := NewCommentService(repo)

	req, err := pagination.ParseRequest(url.Values{})
	require.NoError(t, err)

	_, err = svc.PaginateComments(context.Background(), req, 7)
	require.NoError(t, err)
	assert.Equal(t, "posts/7/comments", repo.paginatePath)
}
