package post

import (
	"sns/internal/core/model"
)

type Post struct {
	model.BaseModel
	AuthorID     uint        `gorm:"not null;index" json:"authorId"`
	Title        string      `gorm:"size:255;not null" json:"title"`
	Content      string      `gorm:"type:text;not null" json:"content"`
	LikeCount    int         `gorm:"not null;default:0" json:"likeCount"`
	CommentCount int         `gorm:"not null;default:0" json:"commentCount"`
	Images       []PostImage `gorm:"foreignKey:PostID" json:"images"`
}

// PostImage is an uploaded file attached to a post. Path is relative to the
// upload root; Order preserves the position the client sent the files in.
type PostImage struct {
	model.BaseModel
	PostID uint   `gorm:"not null;index" json:"postId"`
	Order  int    `gorm:"column:display_order;not null;default:0" json:"order"`
	Path   string `gorm:"size:512;not null" json:"path"`
}
