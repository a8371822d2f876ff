package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sns/internal/adapters/httpapi/middleware"
	"sns/internal/apperror"
)

type AuthController struct{ uc AuthUseCase }

func NewAuthController(uc AuthUseCase) *AuthController { return &AuthController{uc: uc} }

func (ctl *AuthController) PostRegisterEmail(c *gin.Context) {
	var req struct {
		Nickname string `json:"nickname" binding:"required,max=20"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=3,max=8"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, apperror.New(apperror.InvalidInput, "invalid input"))
		return
	}

	tokens, err := ctl.uc.RegisterWithEmail(c.Request.Context(), req.Nickname, req.Email, req.Password)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, tokens)
}

func (ctl *AuthController) PostLoginEmail(c *gin.Context) {
	creds, ok := middleware.BasicFromContext(c)
	if !ok {
		fail(c, apperror.New(apperror.Internal, "login requires the basic token guard"))
		return
	}

	tokens, err := ctl.uc.LoginWithEmail(c.Request.Context(), creds.Email, creds.Password)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, tokens)
}

func (ctl *AuthController) PostTokenAccess(c *gin.Context) {
	token, err := ctl.uc.ExtractTokenFromHeader(c.GetHeader("Authorization"), true)
	if err != nil {
		fail(c, err)
		return
	}

	newToken, err := ctl.uc.RotateToken(token, false)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"accessToken": newToken})
}

func (ctl *AuthController) PostTokenRefresh(c *gin.Context) {
	token, err := ctl.uc.ExtractTokenFromHeader(c.GetHeader("Authorization"), true)
	if err != nil {
		fail(c, err)
		return
	}

	newToken, err := ctl.uc.RotateToken(token, true)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"refreshToken": newToken})
}
