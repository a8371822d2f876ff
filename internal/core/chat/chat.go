package chat

import (
	"sns/internal/core/model"
	"sns/internal/core/user"
)

type Chat struct {
	model.BaseModel
	Users []user.User `gorm:"many2many:chat_users" json:"users"`
}

type Message struct {
	model.BaseModel
	ChatID   uint   `gorm:"not null;index" json:"chatId"`
	AuthorID uint   `gorm:"not null;index" json:"authorId"`
	Text     string `gorm:"type:text;not null" json:"text"`
}
