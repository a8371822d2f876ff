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

type PostController struct{ uc PostUseCase }

func NewPostController(uc PostUseCase) *PostController { return &PostController{uc: uc} }

func (ctl *PostController) GetPosts(c *gin.Context) {
	req, err := pagination.ParseRequest(c.Request.URL.Query())
	if err != nil {
		fail(c, err)
		return
	}

	resp, err := ctl.uc.PaginatePosts(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (ctl *PostController) GetPost(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}

	p, err := ctl.uc.GetPostByID(c.Request.Context(), nil, id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// PostPosts creates the post and its attached images as one unit of work.
// The image files were uploaded to the temp folder beforehand via
// POST /common/image.
func (ctl *PostController) PostPosts(c *gin.Context) {
	auth, ok := middleware.FromContext(c)
	if !ok {
		fail(c, apperror.New(apperror.Unauthenticated, "user not found in context"))
		return
	}

	var req struct {
		Title   string   `json:"title" binding:"required"`
		Content string   `json:"content" binding:"required"`
		Images  []string `json:"images"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, apperror.New(apperror.InvalidInput, "invalid input"))
		return
	}

	ctx := c.Request.Context()
	var postID uint
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		p, err := ctl.uc.CreatePost(ctx, tx, auth.User.ID, req.Title, req.Content)
		if err != nil {
			return err
		}
		postID = p.ID

		for i, fileName := range req.Images {
			if _, err := ctl.uc.AttachImage(ctx, tx, p.ID, i, fileName); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		fail(c, err)
		return
	}

	created, err := ctl.uc.GetPostByID(ctx, nil, postID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (ctl *PostController) PatchPost(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}

	var req struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, apperror.New(apperror.InvalidInput, "invalid input"))
		return
	}

	p, err := ctl.uc.UpdatePost(c.Request.Context(), id, req.Title, req.Content)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (ctl *PostController) DeletePost(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}

	if err := ctl.uc.DeletePost(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id})
}
