package model

import "time"

// BaseModel is embedded by every persisted entity. IDs are assigned by the
// database and never change afterwards.
type BaseModel struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (m BaseModel) GetID() uint { return m.ID }
