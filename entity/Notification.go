package entity

import (
	"time"
)

// Notification types drive icon/color choice on the client side.
const (
	NotificationAppealCreated   = "appeal_created"
	NotificationAppealAssigned  = "appeal_assigned"
	NotificationStatusChanged   = "status_changed"
	NotificationCommentAdded    = "comment_added"
	NotificationAppealCompleted = "appeal_completed"
)

type Notification struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	UserID   uint      `gorm:"not null;index" json:"user_id"`
	AppealID *uint     `json:"appeal_id"`
	Type     string    `gorm:"not null" json:"type"`
	Title    string    `json:"title"`
	Message  string    `json:"message"`
	IsRead   bool      `gorm:"default:false;index" json:"is_read"`
	SentAt   time.Time `gorm:"autoCreateTime" json:"sent_at"`

	Appeal *Appeal `json:"appeal,omitempty"`
}
