package database

import (
	"context"

	"gorm.io/gorm"

	"sns/internal/core/chat"
	"sns/internal/pagination"
)

// ChatRepositoryDatabase implements ports/chat.ChatRepository on gorm.
type ChatRepositoryDatabase struct{}

func NewChatRepositoryDatabase() *ChatRepositoryDatabase {
	return &ChatRepositoryDatabase{}
}

func (repo *ChatRepositoryDatabase) Create(ctx context.Context, scope *gorm.DB, c *chat.Chat) (*chat.Chat, error) {
	if err := conn(ctx, scope).Create(c).Error; err != nil {
		return nil, err
	}
	return c, nil
}

func (repo *ChatRepositoryDatabase) ExistsByID(ctx context.Context, scope *gorm.DB, id uint) (bool, error) {
	var count int64
	if err := conn(ctx, scope).Model(&chat.Chat{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (repo *ChatRepositoryDatabase) Paginate(ctx context.Context, req *pagination.Request, base pagination.Scope, path string) (interface{}, error) {
	return pagination.Paginate[chat.Chat](req, conn(ctx, nil), base, path)
}

// MessageRepositoryDatabase implements ports/chat.MessageRepository on gorm.
type MessageRepositoryDatabase struct{}

func NewMessageRepositoryDatabase() *MessageRepositoryDatabase {
	return &MessageRepositoryDatabase{}
}

func (repo *MessageRepositoryDatabase) Create(ctx context.Context, scope *gorm.DB, m *chat.Message) (*chat.Message, error) {
	if err := conn(ctx, scope).Create(m).Error; err != nil {
		return nil, err
	}
	return m, nil
}

func (repo *MessageRepositoryDatabase) Paginate(ctx context.Context, req *pagination.Request, base pagination.Scope, path string) (interface{}, error) {
	return pagination.Paginate[chat.Message](req, conn(ctx, nil), base, path)
}
