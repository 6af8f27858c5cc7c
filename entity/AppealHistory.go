package entity

import (
	"time"
)

// AppealHistory is an audit row recorded whenever an appeal's status changes
// or the appeal is assigned to a service.
type AppealHistory struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	AppealID  uint      `gorm:"not null;index" json:"appeal_id"`
	UserID    uint      `gorm:"not null" json:"user_id"`
	OldStatus *string   `json:"old_status"`
	NewStatus string    `gorm:"not null" json:"new_status"`
	Action    string    `json:"action"`
	Comment   *string   `json:"comment"`
	CreatedAt time.Time `json:"created_at"`

	User *User `json:"user,omitempty"`
}
