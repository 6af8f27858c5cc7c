package entity

import (
	"time"

	"gorm.io/gorm"
)

type Comment struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	AppealID   uint           `gorm:"not null;index" json:"appeal_id"`
	UserID     uint           `gorm:"not null" json:"user_id"`
	Text       string         `gorm:"not null" json:"text"`
	IsInternal bool           `json:"is_internal"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`

	User   *User   `json:"user,omitempty"`
	Photos []Photo `gorm:"foreignKey:CommentID" json:"photos,omitempty"`
}
