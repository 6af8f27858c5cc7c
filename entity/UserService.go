package entity

import (
	"time"
)

// UserService links an executor to the service whose appeals they work on.
type UserService struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index:idx_user_service,unique" json:"user_id"`
	ServiceID uint      `gorm:"not null;index:idx_user_service,unique" json:"service_id"`
	CreatedAt time.Time `json:"created_at"`

	User    *User    `json:"user,omitempty"`
	Service *Service `json:"service,omitempty"`
}
