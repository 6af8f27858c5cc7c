package controllers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/maxmaindev/citizen-appeals/pkg/querycache"
	"github.com/maxmaindev/citizen-appeals/pkg/resp"
	"github.com/maxmaindev/citizen-appeals/repository"
	"github.com/maxmaindev/citizen-appeals/utils"
)

type NotificationController struct {
	Notifications *repository.NotificationRepository
	Cache         *querycache.Cache[any]
}

func NewNotificationController(notifications *repository.NotificationRepository, cache *querycache.Cache[any]) *NotificationController {
	return &NotificationController{Notifications: notifications, Cache: cache}
}

// GET /notifications
func (ctl *NotificationController) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	unreadOnly := c.Query("unread") == "true"

	ns, total, err := ctl.Notifications.ListForUser(utils.CurrentUserID(c), unreadOnly, page, limit)
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, gin.H{"items": ns, "total": total, "page": page, "limit": limit})
}

// GET /notifications/unread-count
// Clients poll this on a fixed interval; there is no push channel.
func (ctl *NotificationController) UnreadCount(c *gin.Context) {
	n, err := ctl.Notifications.UnreadCount(utils.CurrentUserID(c))
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, gin.H{"count": n})
}

// PUT /notifications/:id/read
func (ctl *NotificationController) MarkRead(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := ctl.Notifications.MarkRead(id, utils.CurrentUserID(c)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			resp.NotFound(c, "notification not found")
			return
		}
		resp.ServerError(c, err)
		return
	}
	ctl.Cache.InvalidateFor("notification.read")
	resp.OK(c, gin.H{"id": id, "is_read": true})
}

// PUT /notifications/read-all
func (ctl *NotificationController) MarkAllRead(c *gin.Context) {
	if err := ctl.Notifications.MarkAllRead(utils.CurrentUserID(c)); err != nil {
		resp.ServerError(c, err)
		return
	}
	ctl.Cache.InvalidateFor("notification.read")
	resp.OK(c, gin.H{"read": true})
}

// DELETE /notifications/:id
func (ctl *NotificationController) Delete(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := ctl.Notifications.Delete(id, utils.CurrentUserID(c)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			resp.NotFound(c, "notification not found")
			return
		}
		resp.ServerError(c, err)
		return
	}
	ctl.Cache.InvalidateFor("notification.read")
	resp.OK(c, gin.H{"deleted": id})
}
