package entity

import (
	"time"

	"gorm.io/gorm"
)

// Service is an operational unit appeals get routed to. Keywords feed the
// external text-classification service.
type Service struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	Name          string         `gorm:"not null;uniqueIndex" json:"name"`
	Description   string         `json:"description"`
	Keywords      string         `json:"keywords,omitempty"`
	ContactPerson string         `json:"contact_person"`
	ContactPhone  string         `json:"contact_phone"`
	ContactEmail  string         `json:"contact_email"`
	IsActive      bool           `json:"is_active"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	Appeals    []Appeal          `gorm:"foreignKey:ServiceID" json:"-"`
	Categories []CategoryService `gorm:"foreignKey:ServiceID" json:"-"`
	Executors  []UserService     `gorm:"foreignKey:ServiceID" json:"-"`
}
