package repository

import (
	"gorm.io/gorm"

	"github.com/maxmaindev/citizen-appeals/entity"
)

type NotificationRepository struct{ DB *gorm.DB }

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{DB: db}
}

func (r *NotificationRepository) Create(n *entity.Notification) error {
	return r.DB.Create(n).Error
}

func (r *NotificationRepository) CreateBatch(ns []entity.Notification) error {
	if len(ns) == 0 {
		return nil
	}
	return r.DB.Create(&ns).Error
}

func (r *NotificationRepository) ListForUser(userID uint, unreadOnly bool, page, limit int) ([]entity.Notification, int64, error) {
	page, limit = clampPage(page, limit)

	q := r.DB.Model(&entity.Notification{}).Where("user_id = ?", userID)
	if unreadOnly {
		q = q.Where("is_read = ?", false)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ns []entity.Notification
	err := q.Order("sent_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&ns).Error
	return ns, total, err
}

func (r *NotificationRepository) UnreadCount(userID uint) (int64, error) {
	var n int64
	err := r.DB.Model(&entity.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&n).Error
	return n, err
}

// MarkRead flips one notification; scoped to the owner so users cannot read
// away each other's badges.
func (r *NotificationRepository) MarkRead(id, userID uint) error {
	res := r.DB.Model(&entity.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes one notification, scoped to its owner.
func (r *NotificationRepository) Delete(id, userID uint) error {
	res := r.DB.Where("id = ? AND user_id = ?", id, userID).Delete(&entity.Notification{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *NotificationRepository) MarkAllRead(userID uint) error {
	return r.DB.Model(&entity.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true).Error
}
