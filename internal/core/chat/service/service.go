package chatapp

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"sns/internal/apperror"
	chatEntity "sns/internal/core/chat"
	userEntity "sns/internal/core/user"
	"sns/internal/pagination"
	chatPort "sns/internal/ports/chat"
)

type ChatService struct {
	ChatRepository    chatPort.ChatRepository
	MessageRepository chatPort.MessageRepository
}

func NewChatService(chatRepo chatPort.ChatRepository, messageRepo chatPort.MessageRepository) *ChatService {
	return &ChatService{
		ChatRepository:    chatRepo,
		MessageRepository: messageRepo,
	}
}

// CreateChat opens a chat room between the given users.
func (s *ChatService) CreateChat(ctx context.Context, userIDs []uint) (*chatEntity.Chat, error) {
	if len(userIDs) == 0 {
		return nil, apperror.New(apperror.InvalidInput, "a chat needs at least one user")
	}

	c := &chatEntity.Chat{}
	for _, id := range userIDs {
		member := userEntity.User{}
		member.ID = id
		c.Users = append(c.Users, member)
	}
	return s.ChatRepository.Create(ctx, nil, c)
}

func (s *ChatService) CheckChatExists(ctx context.Context, chatID uint) (bool, error) {
	return s.ChatRepository.ExistsByID(ctx, nil, chatID)
}

// CreateMessage persists a message after confirming the room exists.
func (s *ChatService) CreateMessage(ctx context.Context, chatID, authorID uint, text string) (*chatEntity.Message, error) {
	exists, err := s.CheckChatExists(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperror.Newf(apperror.NotFound, "chat %d does not exist", chatID)
	}

	return s.MessageRepository.Create(ctx, nil, &chatEntity.Message{
		ChatID:   chatID,
		AuthorID: authorID,
		Text:     text,
	})
}

func (s *ChatService) PaginateChats(ctx context.Context, req *pagination.Request) (interface{}, error) {
	return s.ChatRepository.Paginate(ctx, req, func(db *gorm.DB) *gorm.DB {
		return db.Preload("Users")
	}, "chats")
}

func (s *ChatService) PaginateMessages(ctx context.Context, req *pagination.Request, chatID uint) (interface{}, error) {
	exists, err := s.CheckChatExists(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperror.Newf(apperror.NotFound, "chat %d does not exist", chatID)
	}

	return s.MessageRepository.Paginate(ctx, req, func(db *gorm.DB) *gorm.DB {
		return db.Where("chat_id = ?", chatID)
	}, fmt.Sprintf("chats/%d/messages", chatID))
}
