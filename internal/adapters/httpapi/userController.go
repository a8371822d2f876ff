package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"sns/internal/adapters/httpapi/middleware"
	"sns/internal/apperror"
	"sns/internal/config"
)

type UserController struct{ uc UserUseCase }

func NewUserController(uc UserUseCase) *UserController { return &UserController{uc: uc} }

func (ctl *UserController) GetUsers(c *gin.Context) {
	users, err := ctl.uc.GetAllUsers(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (ctl *UserController) GetFollowMe(c *gin.Context) {
	auth, ok := middleware.FromContext(c)
	if !ok {
		fail(c, apperror.New(apperror.Unauthenticated, "user not found in context"))
		return
	}

	includeNotConfirmed, _ := strconv.ParseBool(c.DefaultQuery("includeNotConfirmed", "false"))

	followers, err := ctl.uc.GetFollowers(c.Request.Context(), auth.User.ID, includeNotConfirmed)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, followers)
}

func (ctl *UserController) PostFollow(c *gin.Context) {
	auth, ok := middleware.FromContext(c)
	if !ok {
		fail(c, apperror.New(apperror.Unauthenticated, "user not found in context"))
		return
	}

	followeeID, ok := paramUint(c, "id")
	if !ok {
		return
	}

	if err := ctl.uc.FollowUser(c.Request.Context(), auth.User.ID, followeeID); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "follow requested"})
}

// PatchFollowConfirm confirms a pending request and bumps both counters in
// one unit of work. Any failure rolls the whole unit back.
func (ctl *UserController) PatchFollowConfirm(c *gin.Context) {
	auth, ok := middleware.FromContext(c)
	if !ok {
		fail(c, apperror.New(apperror.Unauthenticated, "user not found in context"))
		return
	}

	followerID, ok := paramUint(c, "id")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := ctl.uc.ConfirmFollow(ctx, tx, followerID, auth.User.ID); err != nil {
			return err
		}
		if err := ctl.uc.IncrementFollowerCount(ctx, tx, auth.User.ID); err != nil {
			return err
		}
		return ctl.uc.IncrementFolloweeCount(ctx, tx, followerID)
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "follow confirmed"})
}

// DeleteFollow removes the relationship and decrements both counters in one
// unit of work.
func (ctl *UserController) DeleteFollow(c *gin.Context) {
	auth, ok := middleware.FromContext(c)
	if !ok {
		fail(c, apperror.New(apperror.Unauthenticated, "user not found in context"))
		return
	}

	followeeID, ok := paramUint(c, "id")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := ctl.uc.DeleteFollow(ctx, tx, auth.User.ID, followeeID); err != nil {
			return err
		}
		if err := ctl.uc.DecrementFollowerCount(ctx, tx, followeeID); err != nil {
			return err
		}
		return ctl.uc.DecrementFolloweeCount(ctx, tx, auth.User.ID)
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "unfollowed"})
}
