package entity

import (
	"time"
)

// Appeal lifecycle: new -> assigned -> in_progress -> completed/rejected -> closed.
// Transition legality is not enforced here; the status column holds whatever the
// last authorized writer set.
const (
	StatusNew        = "new"
	StatusAssigned   = "assigned"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusClosed     = "closed"
	StatusRejected   = "rejected"
)

type Appeal struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UserID      uint       `gorm:"not null;index" json:"user_id"`
	CategoryID  *uint      `gorm:"index" json:"category_id"`
	ServiceID   *uint      `gorm:"index" json:"service_id"`
	Status      string     `gorm:"not null;default:new;index" json:"status"`
	Title       string     `gorm:"not null" json:"title"`
	Description string     `gorm:"not null" json:"description"`
	Address     string     `json:"address"`
	Latitude    float64    `json:"latitude"`
	Longitude   float64    `json:"longitude"`
	Priority    int        `gorm:"not null;default:2" json:"priority"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	ClosedAt    *time.Time `json:"closed_at"`

	User     User            `json:"-"`
	Category *Category       `json:"category,omitempty"`
	Service  *Service        `json:"service,omitempty"`
	Photos   []Photo         `gorm:"foreignKey:AppealID" json:"-"`
	Comments []Comment       `gorm:"foreignKey:AppealID" json:"-"`
	History  []AppealHistory `gorm:"foreignKey:AppealID" json:"-"`
}

// TerminalStatus reports whether the status stops the SLA clock.
func TerminalStatus(status string) bool {
	return status == StatusClosed || status == StatusRejected
}
