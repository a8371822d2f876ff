package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sns/internal/pagination"
)

type ChatController struct{ uc ChatUseCase }

func NewChatController(uc ChatUseCase) *ChatController { return &ChatController{uc: uc} }

func (ctl *ChatController) GetChats(c *gin.Context) {
	req, err := pagination.ParseRequest(c.Request.URL.Query())
	if err != nil {
		fail(c, err)
		return
	}

	resp, err := ctl.uc.PaginateChats(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (ctl *ChatController) GetMessages(c *gin.Context) {
	chatID, ok := paramUint(c, "id")
	if !ok {
		return
	}

	req, err := pagination.ParseRequest(c.Request.URL.Query())
	if err != nil {
		fail(c, err)
		return
	}

	resp, err := ctl.uc.PaginateMessages(c.Request.Context(), req, chatID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
