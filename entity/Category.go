package entity

import (
	"time"

	"gorm.io/gorm"
)

type Category struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	Name            string         `gorm:"not null;uniqueIndex" json:"name"`
	Description     string         `json:"description"`
	DefaultPriority int            `gorm:"not null;default:2" json:"default_priority"`
	IsActive        bool           `json:"is_active"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`

	Appeals  []Appeal          `gorm:"foreignKey:CategoryID" json:"-"`
	Services []CategoryService `gorm:"foreignKey:CategoryID" json:"-"`
}
