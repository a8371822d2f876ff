package comment

import (
	"sns/internal/core/model"
)

type Comment struct {
	model.BaseModel
	AuthorID  uint   `gorm:"not null;index" json:"authorId"`
	PostID    uint   `gorm:"not null;index" json:"postId"`
	Comment   string `gorm:"type:text;not null" json:"comment"`
	LikeCount int    `gorm:"not null;default:0" json:"likeCount"`
}
