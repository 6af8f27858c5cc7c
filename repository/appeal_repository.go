package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/maxmaindev/citizen-appeals/entity"
)

type AppealRepository struct{ DB *gorm.DB }

func NewAppealRepository(db *gorm.DB) *AppealRepository { return &AppealRepository{DB: db} }

// AppealFilter narrows List. Zero values mean "no filter"; UserID and
// ServiceID scope the listing for citizens and executors respectively.
type AppealFilter struct {
	Status     string
	CategoryID *uint
	ServiceID  *uint
	Priority   *int
	UserID     *uint
	From       *time.Time
	To         *time.Time
	Search     string
	SortBy     string
	SortDesc   bool
	Page       int
	Limit      int
}

func (r *AppealRepository) Create(a *entity.Appeal) error {
	return r.DB.Create(a).Error
}

func (r *AppealRepository) FindByID(id uint) (*entity.Appeal, error) {
	var a entity.Appeal
	err := r.DB.
		Preload("Category").
		Preload("Service").
		Preload("Photos").
		First(&a, id).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AppealRepository) List(f AppealFilter) ([]entity.Appeal, int64, error) {
	f.Page, f.Limit = clampPage(f.Page, f.Limit)

	q := r.DB.Model(&entity.Appeal{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.CategoryID != nil {
		q = q.Where("category_id = ?", *f.CategoryID)
	}
	if f.ServiceID != nil {
		q = q.Where("service_id = ?", *f.ServiceID)
	}
	if f.Priority != nil {
		q = q.Where("priority = ?", *f.Priority)
	}
	if f.UserID != nil {
		q = q.Where("user_id = ?", *f.UserID)
	}
	if f.From != nil {
		q = q.Where("created_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("created_at < ?", *f.To)
	}
	if f.Search != "" {
		like := "%" + f.Search + "%"
		q = q.Where("title LIKE ? OR description LIKE ?", like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := "created_at"
	switch f.SortBy {
	case "priority", "status":
		order = f.SortBy
	}
	if f.SortDesc {
		order += " DESC"
	} else {
		order += " ASC"
	}

	var appeals []entity.Appeal
	err := q.
		Preload("Category").
		Preload("Service").
		Order(order).
		Offset((f.Page - 1) * f.Limit).
		Limit(f.Limit).
		Find(&appeals).Error
	return appeals, total, err
}

func (r *AppealRepository) Update(a *entity.Appeal) error {
	return r.DB.Save(a).Error
}

// UpdateStatus writes the new status plus one history row in a transaction.
// The history row is only recorded when the status actually changed; moving
// to closed or completed also stamps closed_at. The returned bool reports
// whether anything changed.
func (r *AppealRepository) UpdateStatus(appealID, userID uint, newStatus string, comment *string) (*entity.Appeal, bool, error) {
	var a entity.Appeal
	changed := false
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&a, appealID).Error; err != nil {
			return err
		}
		old := a.Status
		if old == newStatus {
			return nil
		}
		changed = true

		updates := map[string]any{"status": newStatus}
		if (newStatus == entity.StatusClosed || newStatus == entity.StatusCompleted) && a.ClosedAt == nil {
			now := time.Now()
			updates["closed_at"] = &now
		}
		if err := tx.Model(&a).Updates(updates).Error; err != nil {
			return err
		}

		h := entity.AppealHistory{
			AppealID:  appealID,
			UserID:    userID,
			OldStatus: &old,
			NewStatus: newStatus,
			Action:    "status_changed",
			Comment:   comment,
		}
		if err := tx.Create(&h).Error; err != nil {
			return err
		}
		return tx.First(&a, appealID).Error
	})
	if err != nil {
		return nil, false, err
	}
	return &a, changed, nil
}

// Assign routes the appeal to a service. Status becomes assigned regardless
// of what it was, priority changes only when the caller passed one, and one
// history row records the action.
func (r *AppealRepository) Assign(appealID, userID, serviceID uint, priority *int) (*entity.Appeal, error) {
	var a entity.Appeal
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&a, appealID).Error; err != nil {
			return err
		}
		old := a.Status

		updates := map[string]any{
			"service_id": serviceID,
			"status":     entity.StatusAssigned,
		}
		if priority != nil {
			updates["priority"] = *priority
		}
		if err := tx.Model(&a).Updates(updates).Error; err != nil {
			return err
		}

		h := entity.AppealHistory{
			AppealID:  appealID,
			UserID:    userID,
			OldStatus: &old,
			NewStatus: entity.StatusAssigned,
			Action:    "assigned",
		}
		if err := tx.Create(&h).Error; err != nil {
			return err
		}
		return tx.First(&a, appealID).Error
	})
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AppealRepository) UpdatePriority(appealID uint, priority int) error {
	res := r.DB.Model(&entity.Appeal{}).Where("id = ?", appealID).Update("priority", priority)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *AppealRepository) GetHistory(appealID uint) ([]entity.AppealHistory, error) {
	var rows []entity.AppealHistory
	err := r.DB.
		Preload("User").
		Where("appeal_id = ?", appealID).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}
