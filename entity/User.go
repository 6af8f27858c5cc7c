package entity

import (
	"time"

	"gorm.io/gorm"
)

const (
	RoleCitizen    = "citizen"
	RoleDispatcher = "dispatcher"
	RoleExecutor   = "executor"
	RoleAdmin      = "admin"
)

type User struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Email     string `gorm:"uniqueIndex;not null" json:"email"`
	Password  string `json:"-"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
	Role      string `gorm:"not null;default:citizen" json:"role"`
	// No gorm default tag: gorm drops zero-valued fields with a default on
	// insert, which would silently store a deactivated user as active.
	IsActive  bool           `json:"is_active"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations, preload only when needed
	Appeals       []Appeal       `gorm:"foreignKey:UserID" json:"-"`
	Comments      []Comment      `gorm:"foreignKey:UserID" json:"-"`
	Notifications []Notification `gorm:"foreignKey:UserID" json:"-"`
	UserServices  []UserService  `gorm:"foreignKey:UserID" json:"-"`
}
