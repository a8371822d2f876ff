package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"sns/internal/adapters/httpapi/middleware"
	"sns/internal/apperror"
	"sns/internal/config"
	"sns/internal/pagination"
)

type CommentController struct {
	uc    CommentUseCase
	posts PostUseCase
}

func NewCommentController(uc CommentUseCase, posts PostUseCase) *CommentController {
	return &CommentController{uc: uc, posts: posts}
}

func (ctl *CommentController) GetComments(c *gin.Context) {
	postID, ok := paramUint(c, "id")
	if !ok {
		return
	}

	req, err := pagination.ParseRequest(c.Request.URL.Query())
	if err != nil {
		fail(c, err)
		return
	}

	resp, err := ctl.uc.PaginateComments(c.Request.Context(), req, postID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (ctl *CommentController) GetComment(c *gin.Context) {
	commentID, ok := paramUint(c, "commentId")
	if !ok {
		return
	}

	comment, err := ctl.uc.GetCommentByID(c.Request.Context(), commentID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, comment)
}

// PostComment creates the comment and bumps the post's comment counter in
// one unit of work.
func (ctl *CommentController) PostComment(c *gin.Context) {
	auth, ok := middleware.FromContext(c)
	if !ok {
		fail(c, apperror.New(apperror.Unauthenticated, "user not found in context"))
		return
	}

	postID, ok := paramUint(c, "id")
	if !ok {
		return
	}

	var req struct {
		Comment string `json:"comment" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, apperror.New(apperror.InvalidInput, "invalid input"))
		return
	}

	ctx := c.Request.Context()

	exists, err := ctl.posts.CheckPostExists(ctx, postID)
	if err != nil {
		fail(c, err)
		return
	}
	if !exists {
		fail(c, apperror.Newf(apperror.NotFound, "post %d does not exist", postID))
		return
	}

	var commentID uint
	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if err := ctl.posts.IncrementCommentCount(ctx, tx, postID); err != nil {
			return err
		}
		created, err := ctl.uc.CreateComment(ctx, tx, postID, auth.User.ID, req.Comment)
		if err != nil {
			return err
		}
		commentID = created.ID
		return nil
	})
	if err != nil {
		fail(c, err)
		return
	}

	created, err := ctl.uc.GetCommentByID(ctx, commentID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (ctl *CommentController) PatchComment(c *gin.Context) {
	commentID, ok := paramUint(c, "commentId")
	if !ok {
		return
	}

	var req struct {
		Comment string `json:"comment" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, apperror.New(apperror.InvalidInput, "invalid input"))
		return
	}

	comment, err := ctl.uc.UpdateComment(c.Request.Context(), commentID, req.Comment)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, comment)
}

// DeleteComment removes the comment and decrements the post's counter in one
// unit of work.
func (ctl *CommentController) DeleteComment(c *gin.Context) {
	postID, ok := paramUint(c, "id")
	if !ok {
		return
	}
	commentID, ok := paramUint(c, "commentId")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := ctl.posts.DecrementCommentCount(ctx, tx, postID); err != nil {
			return err
		}
		return ctl.uc.DeleteComment(ctx, tx, commentID)
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": commentID})
}
