package entity

import (
	"time"
)

// CategoryService links a classification category to a service able to
// handle appeals filed under it.
type CategoryService struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	CategoryID uint      `gorm:"not null;index:idx_category_service,unique" json:"category_id"`
	ServiceID  uint      `gorm:"not null;index:idx_category_service,unique" json:"service_id"`
	CreatedAt  time.Time `json:"created_at"`

	Category *Category `json:"category,omitempty"`
	Service  *Service  `json:"service,omitempty"`
}
