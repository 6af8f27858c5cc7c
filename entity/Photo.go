package entity

import (
	"time"
)

type Photo struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	AppealID      *uint     `gorm:"index" json:"appeal_id"`
	CommentID     *uint     `gorm:"index" json:"comment_id"`
	FilePath      string    `gorm:"not null" json:"file_path"`
	FileName      string    `gorm:"not null" json:"file_name"`
	FileSize      int64     `json:"file_size"`
	MimeType      string    `json:"mime_type"`
	IsResultPhoto bool      `json:"is_result_photo"`
	UploadedAt    time.Time `gorm:"autoCreateTime" json:"uploaded_at"`
}
