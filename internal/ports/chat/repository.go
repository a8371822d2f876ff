package chat

import (
	"context"

	"gorm.io/gorm"

	"sns/internal/core/chat"
	"sns/internal/pagination"
)

type ChatRepository interface {
	Create(ctx context.Context, scope *gorm.DB, c *chat.Chat) (*chat.Chat, error)
	ExistsByID(ctx context.Context, scope *gorm.DB, id uint) (bool, error)
	Paginate(ctx context.Context, req *pagination.Request, base pagination.Scope, path string) (interface{}, error)
}

type MessageRepository interface {
	Create(ctx context.Context, scope *gorm.DB, m *chat.Message) (*chat.Message, error)
	Paginate(ctx context.Context, req *pagination.Request, base pagination.Scope, path string) (interface{}, error)
}

// MessageDTO is what the gateway pushes to room members.
type MessageDTO struct {
	ChatID  uint   `json:"chatId"`
	Message string `json:"message"`
	Author  string `json:"author"`
}
