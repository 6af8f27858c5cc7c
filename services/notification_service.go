package services

import (
	"fmt"
	"log"

	"github.com/maxmaindev/citizen-appeals/entity"
	"github.com/maxmaindev/citizen-appeals/repository"
)

// NotificationService fans notifications out to the users a change concerns.
// All fan-outs are best-effort: a failed insert is logged, never propagated.
type NotificationService struct {
	Repo         *repository.NotificationRepository
	Users        *repository.UserRepository
	UserServices *repository.UserServiceRepository
}

func NewNotificationService(
	repo *repository.NotificationRepository,
	users *repository.UserRepository,
	userServices *repository.UserServiceRepository,
) *NotificationService {
	return &NotificationService{Repo: repo, Users: users, UserServices: userServices}
}

// AppealCreated notifies every active dispatcher and admin.
func (s *NotificationService) AppealCreated(a *entity.Appeal) {
	staff, err := s.Users.ActiveByRoles(entity.RoleDispatcher, entity.RoleAdmin)
	if err != nil {
		log.Printf("notify appeal created: list staff: %v", err)
		return
	}

	ns := make([]entity.Notification, 0, len(staff))
	for _, u := range staff {
		ns = append(ns, entity.Notification{
			UserID:   u.ID,
			AppealID: &a.ID,
			Type:     entity.NotificationAppealCreated,
			Title:    "New appeal",
			Message:  fmt.Sprintf("Appeal #%d: %s", a.ID, a.Title),
		})
	}
	if err := s.Repo.CreateBatch(ns); err != nil {
		log.Printf("notify appeal created: %v", err)
	}
}

// AppealAssigned notifies the executors of the service the appeal went to.
func (s *NotificationService) AppealAssigned(a *entity.Appeal) {
	if a.ServiceID == nil {
		return
	}
	executors, err := s.UserServices.ExecutorsForService(*a.ServiceID)
	if err != nil {
		log.Printf("notify appeal assigned: list executors: %v", err)
		return
	}

	ns := make([]entity.Notification, 0, len(executors))
	for _, u := range executors {
		ns = append(ns, entity.Notification{
			UserID:   u.ID,
			AppealID: &a.ID,
			Type:     entity.NotificationAppealAssigned,
			Title:    "Appeal assigned to your service",
			Message:  fmt.Sprintf("Appeal #%d: %s", a.ID, a.Title),
		})
	}
	if err := s.Repo.CreateBatch(ns); err != nil {
		log.Printf("notify appeal assigned: %v", err)
	}
}

// StatusChanged notifies the appeal's creator. Completion gets its own type
// so the client renders it differently.
func (s *NotificationService) StatusChanged(a *entity.Appeal, newStatus string, actorID uint) {
	if a.UserID == actorID {
		return
	}
	typ := entity.NotificationStatusChanged
	title := "Appeal status changed"
	if newStatus == entity.StatusCompleted {
		typ = entity.NotificationAppealCompleted
		title = "Appeal completed"
	}
	n := entity.Notification{
		UserID:   a.UserID,
		AppealID: &a.ID,
		Type:     typ,
		Title:    title,
		Message:  fmt.Sprintf("Appeal #%d is now %s", a.ID, newStatus),
	}
	if err := s.Repo.Create(&n); err != nil {
		log.Printf("notify status changed: %v", err)
	}
}

// CommentAdded notifies the appeal's creator, skipping self-comments and
// internal notes.
func (s *NotificationService) CommentAdded(a *entity.Appeal, c *entity.Comment) {
	if c.UserID == a.UserID || c.IsInternal {
		return
	}
	n := entity.Notification{
		UserID:   a.UserID,
		AppealID: &a.ID,
		Type:     entity.NotificationCommentAdded,
		Title:    "New comment",
		Message:  fmt.Sprintf("Appeal #%d has a new comment", a.ID),
	}
	if err := s.Repo.Create(&n); err != nil {
		log.Printf("notify comment added: %v", err)
	}
}
